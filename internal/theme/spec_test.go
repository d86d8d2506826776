package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func strPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func TestApplySpecOverridesStyles(t *testing.T) {
	base := DefaultTheme()
	spec := ThemeSpec{
		Styles: StylesSpec{
			FieldInvalid:  &StyleSpec{Foreground: strPtr("#ff0000"), Underline: boolPtr(true)},
			ListItemTitle: &StyleSpec{Foreground: strPtr("#222233")},
			PaneBorder:    &StyleSpec{BorderStyle: strPtr("double")},
		},
		Highlight: strPtr(" github "),
	}

	updated, err := ApplySpec(base, spec)
	if err != nil {
		t.Fatalf("ApplySpec returned error: %v", err)
	}
	if got := updated.FieldInvalid.GetForeground(); got != lipgloss.Color("#ff0000") {
		t.Errorf("expected invalid foreground override, got %v", got)
	}
	if !updated.FieldInvalid.GetUnderline() {
		t.Errorf("expected underline on invalid field")
	}
	if got := updated.ListItemTitle.GetForeground(); got != lipgloss.Color("#222233") {
		t.Errorf("expected list title override, got %v", got)
	}
	if updated.PaneBorder.GetBorderStyle() != lipgloss.DoubleBorder() {
		t.Errorf("expected double border")
	}
	if updated.HighlightStyle != "github" {
		t.Errorf("expected trimmed highlight style, got %q", updated.HighlightStyle)
	}
	if got := updated.Success.GetForeground(); got != base.Success.GetForeground() {
		t.Errorf("expected untouched styles to keep base, got %v", got)
	}
}

func TestApplySpecRejectsBadValues(t *testing.T) {
	cases := []ThemeSpec{
		{Styles: StylesSpec{Error: &StyleSpec{Foreground: strPtr("  ")}}},
		{Styles: StylesSpec{Button: &StyleSpec{BorderStyle: strPtr("zigzag")}}},
		{Styles: StylesSpec{Header: &StyleSpec{Align: strPtr("diagonal")}}},
	}
	for i, spec := range cases {
		if _, err := ApplySpec(DefaultTheme(), spec); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestApplySpecInheritBorder(t *testing.T) {
	base := DefaultTheme()
	updated, err := ApplySpec(base, ThemeSpec{
		Styles: StylesSpec{PaneBorder: &StyleSpec{BorderStyle: strPtr("inherit")}},
	})
	if err != nil {
		t.Fatalf("ApplySpec returned error: %v", err)
	}
	if updated.PaneBorder.GetBorderStyle() != base.PaneBorder.GetBorderStyle() {
		t.Fatalf("expected inherited border style")
	}
}
