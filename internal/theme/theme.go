package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	AppFrame              lipgloss.Style
	Header                lipgloss.Style
	HeaderTitle           lipgloss.Style
	HeaderValue           lipgloss.Style
	PaneBorder            lipgloss.Style
	PaneBorderFocused     lipgloss.Style
	PaneTitle             lipgloss.Style
	FieldLabel            lipgloss.Style
	FieldValid            lipgloss.Style
	FieldInvalid          lipgloss.Style
	FieldUnset            lipgloss.Style
	ListItemTitle         lipgloss.Style
	ListItemDescription   lipgloss.Style
	ListItemSelectedTitle lipgloss.Style
	ListItemSelectedDesc  lipgloss.Style
	Button                lipgloss.Style
	ButtonFocused         lipgloss.Style
	ButtonDisabled        lipgloss.Style
	Spinner               lipgloss.Style
	Success               lipgloss.Style
	Error                 lipgloss.Style
	Notice                lipgloss.Style
	StatusBar             lipgloss.Style
	CommandBarHint        lipgloss.Style
	ResponseContent       lipgloss.Style
	// HighlightStyle names the chroma style for response bodies; empty
	// disables highlighting.
	HighlightStyle string
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		AppFrame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		HeaderValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#D1CFF6")),
		PaneBorder: base.BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")),
		PaneBorderFocused: base.BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")),
		PaneTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E1FF")).Bold(true),
		FieldLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		FieldValid:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		FieldInvalid: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")).Bold(true),
		FieldUnset:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6A86")),
		ListItemTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6E1FF")).
			Padding(0, 0, 0, 2),
		ListItemDescription: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E6A86")).
			Padding(0, 0, 0, 2),
		ListItemSelectedTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F111A")).
			Background(lipgloss.Color("#FFD46A")).
			Bold(true).
			Padding(0, 0, 0, 2),
		ListItemSelectedDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F111A")).
			Background(lipgloss.Color("#FFD46A")).
			Padding(0, 0, 0, 2),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFBFF")).
			Background(lipgloss.Color("#433C59")).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFBFF")).
			Background(accent).
			Bold(true).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5E5A72")).
			Background(lipgloss.Color("#1F1B2E")).
			Padding(0, 2),
		Spinner:         lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD46A")),
		Success:         lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		Error:           lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Notice:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FBC859")).Bold(true),
		StatusBar:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		CommandBarHint:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		ResponseContent: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		HighlightStyle:  "dracula",
	}
}

// Monochrome relies on attributes only, for -no-color and dumb terminals.
func Monochrome() Theme {
	plain := lipgloss.NewStyle()
	border := plain.BorderStyle(lipgloss.NormalBorder())
	return Theme{
		AppFrame:              border,
		Header:                plain.Padding(0, 1),
		HeaderTitle:           plain.Bold(true),
		HeaderValue:           plain,
		PaneBorder:            border,
		PaneBorderFocused:     plain.BorderStyle(lipgloss.ThickBorder()),
		PaneTitle:             plain.Bold(true),
		FieldLabel:            plain,
		FieldValid:            plain,
		FieldInvalid:          plain.Bold(true),
		FieldUnset:            plain.Faint(true),
		ListItemTitle:         plain.Padding(0, 0, 0, 2),
		ListItemDescription:   plain.Faint(true).Padding(0, 0, 0, 2),
		ListItemSelectedTitle: plain.Reverse(true).Padding(0, 0, 0, 2),
		ListItemSelectedDesc:  plain.Reverse(true).Padding(0, 0, 0, 2),
		Button:                plain.Padding(0, 2),
		ButtonFocused:         plain.Reverse(true).Padding(0, 2),
		ButtonDisabled:        plain.Faint(true).Padding(0, 2),
		Spinner:               plain,
		Success:               plain.Bold(true),
		Error:                 plain.Bold(true).Underline(true),
		Notice:                plain.Bold(true),
		StatusBar:             plain.Padding(0, 1),
		CommandBarHint:        plain.Bold(true),
		ResponseContent:       plain,
	}
}
