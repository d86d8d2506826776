package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Metadata struct {
	Name        string   `json:"name"        toml:"name"`
	Description string   `json:"description" toml:"description"`
	Author      string   `json:"author"      toml:"author"`
	Version     string   `json:"version"     toml:"version"`
	Tags        []string `json:"tags"        toml:"tags"`
}

type ThemeSpec struct {
	Metadata  *Metadata  `json:"metadata"  toml:"metadata"`
	Styles    StylesSpec `json:"styles"    toml:"styles"`
	Highlight *string    `json:"highlight" toml:"highlight"`
}

type StylesSpec struct {
	AppFrame              *StyleSpec `json:"app_frame"                toml:"app_frame"`
	Header                *StyleSpec `json:"header"                   toml:"header"`
	HeaderTitle           *StyleSpec `json:"header_title"             toml:"header_title"`
	HeaderValue           *StyleSpec `json:"header_value"             toml:"header_value"`
	PaneBorder            *StyleSpec `json:"pane_border"              toml:"pane_border"`
	PaneBorderFocused     *StyleSpec `json:"pane_border_focused"      toml:"pane_border_focused"`
	PaneTitle             *StyleSpec `json:"pane_title"               toml:"pane_title"`
	FieldLabel            *StyleSpec `json:"field_label"              toml:"field_label"`
	FieldValid            *StyleSpec `json:"field_valid"              toml:"field_valid"`
	FieldInvalid          *StyleSpec `json:"field_invalid"            toml:"field_invalid"`
	FieldUnset            *StyleSpec `json:"field_unset"              toml:"field_unset"`
	ListItemTitle         *StyleSpec `json:"list_item_title"          toml:"list_item_title"`
	ListItemDescription   *StyleSpec `json:"list_item_description"    toml:"list_item_description"`
	ListItemSelectedTitle *StyleSpec `json:"list_item_selected_title" toml:"list_item_selected_title"`
	ListItemSelectedDesc  *StyleSpec `json:"list_item_selected_desc"  toml:"list_item_selected_desc"`
	Button                *StyleSpec `json:"button"                   toml:"button"`
	ButtonFocused         *StyleSpec `json:"button_focused"           toml:"button_focused"`
	ButtonDisabled        *StyleSpec `json:"button_disabled"          toml:"button_disabled"`
	Spinner               *StyleSpec `json:"spinner"                  toml:"spinner"`
	Success               *StyleSpec `json:"success"                  toml:"success"`
	Error                 *StyleSpec `json:"error"                    toml:"error"`
	Notice                *StyleSpec `json:"notice"                   toml:"notice"`
	StatusBar             *StyleSpec `json:"status_bar"               toml:"status_bar"`
	CommandBarHint        *StyleSpec `json:"command_bar_hint"         toml:"command_bar_hint"`
	ResponseContent       *StyleSpec `json:"response_content"         toml:"response_content"`
}

type StyleSpec struct {
	Foreground       *string `json:"foreground"        toml:"foreground"`
	Background       *string `json:"background"        toml:"background"`
	BorderColor      *string `json:"border_color"      toml:"border_color"`
	BorderBackground *string `json:"border_background" toml:"border_background"`
	BorderStyle      *string `json:"border_style"      toml:"border_style"`
	Bold             *bool   `json:"bold"              toml:"bold"`
	Italic           *bool   `json:"italic"            toml:"italic"`
	Underline        *bool   `json:"underline"         toml:"underline"`
	Faint            *bool   `json:"faint"             toml:"faint"`
	Strikethrough    *bool   `json:"strikethrough"     toml:"strikethrough"`
	Align            *string `json:"align"             toml:"align"`
}

// ApplySpec layers spec over base. Fields the spec leaves nil keep base.
func ApplySpec(base Theme, spec ThemeSpec) (Theme, error) {
	out := base
	targets := []struct {
		name string
		dst  *lipgloss.Style
		spec *StyleSpec
	}{
		{"app_frame", &out.AppFrame, spec.Styles.AppFrame},
		{"header", &out.Header, spec.Styles.Header},
		{"header_title", &out.HeaderTitle, spec.Styles.HeaderTitle},
		{"header_value", &out.HeaderValue, spec.Styles.HeaderValue},
		{"pane_border", &out.PaneBorder, spec.Styles.PaneBorder},
		{"pane_border_focused", &out.PaneBorderFocused, spec.Styles.PaneBorderFocused},
		{"pane_title", &out.PaneTitle, spec.Styles.PaneTitle},
		{"field_label", &out.FieldLabel, spec.Styles.FieldLabel},
		{"field_valid", &out.FieldValid, spec.Styles.FieldValid},
		{"field_invalid", &out.FieldInvalid, spec.Styles.FieldInvalid},
		{"field_unset", &out.FieldUnset, spec.Styles.FieldUnset},
		{"list_item_title", &out.ListItemTitle, spec.Styles.ListItemTitle},
		{"list_item_description", &out.ListItemDescription, spec.Styles.ListItemDescription},
		{"list_item_selected_title", &out.ListItemSelectedTitle, spec.Styles.ListItemSelectedTitle},
		{"list_item_selected_desc", &out.ListItemSelectedDesc, spec.Styles.ListItemSelectedDesc},
		{"button", &out.Button, spec.Styles.Button},
		{"button_focused", &out.ButtonFocused, spec.Styles.ButtonFocused},
		{"button_disabled", &out.ButtonDisabled, spec.Styles.ButtonDisabled},
		{"spinner", &out.Spinner, spec.Styles.Spinner},
		{"success", &out.Success, spec.Styles.Success},
		{"error", &out.Error, spec.Styles.Error},
		{"notice", &out.Notice, spec.Styles.Notice},
		{"status_bar", &out.StatusBar, spec.Styles.StatusBar},
		{"command_bar_hint", &out.CommandBarHint, spec.Styles.CommandBarHint},
		{"response_content", &out.ResponseContent, spec.Styles.ResponseContent},
	}
	for _, target := range targets {
		styled, err := target.spec.apply(*target.dst)
		if err != nil {
			return Theme{}, fmt.Errorf("styles.%s: %w", target.name, err)
		}
		*target.dst = styled
	}
	if spec.Highlight != nil {
		out.HighlightStyle = strings.TrimSpace(*spec.Highlight)
	}
	return out, nil
}

func (s *StyleSpec) apply(base lipgloss.Style) (lipgloss.Style, error) {
	if s == nil {
		return base, nil
	}
	current := base
	if s.Foreground != nil {
		color, err := toColor("foreground", *s.Foreground)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.Foreground(color)
	}
	if s.Background != nil {
		color, err := toColor("background", *s.Background)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.Background(color)
	}
	if s.BorderColor != nil {
		color, err := toColor("border_color", *s.BorderColor)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.BorderForeground(color)
	}
	if s.BorderBackground != nil {
		color, err := toColor("border_background", *s.BorderBackground)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.BorderBackground(color)
	}
	if s.BorderStyle != nil {
		normalized := strings.ToLower(strings.TrimSpace(*s.BorderStyle))
		if normalized != "inherit" {
			border, err := parseBorderStyle(normalized)
			if err != nil {
				return lipgloss.Style{}, err
			}
			current = current.BorderStyle(border)
		}
	}
	if s.Bold != nil {
		current = current.Bold(*s.Bold)
	}
	if s.Italic != nil {
		current = current.Italic(*s.Italic)
	}
	if s.Underline != nil {
		current = current.Underline(*s.Underline)
	}
	if s.Faint != nil {
		current = current.Faint(*s.Faint)
	}
	if s.Strikethrough != nil {
		current = current.Strikethrough(*s.Strikethrough)
	}
	if s.Align != nil {
		align, err := parseAlign(*s.Align)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.Align(align)
	}
	return current, nil
}

func toColor(field string, value string) (lipgloss.Color, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s: colour value may not be empty", field)
	}
	return lipgloss.Color(trimmed), nil
}

func parseAlign(value string) (lipgloss.Position, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start", "default", "":
		return lipgloss.Left, nil
	case "center", "centre", "middle":
		return lipgloss.Center, nil
	case "right", "end":
		return lipgloss.Right, nil
	default:
		return lipgloss.Left, fmt.Errorf("align: unknown alignment %q", value)
	}
}

func parseBorderStyle(value string) (lipgloss.Border, error) {
	switch value {
	case "":
		return lipgloss.Border{}, fmt.Errorf("border_style: value may not be empty")
	case "none", "hidden", "off":
		return lipgloss.Border{}, nil
	case "normal", "single":
		return lipgloss.NormalBorder(), nil
	case "rounded":
		return lipgloss.RoundedBorder(), nil
	case "thick", "heavy":
		return lipgloss.ThickBorder(), nil
	case "double":
		return lipgloss.DoubleBorder(), nil
	case "block":
		return lipgloss.BlockBorder(), nil
	default:
		return lipgloss.Border{}, fmt.Errorf("border_style: unknown border style %q", value)
	}
}
