package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/actionrun/internal/bindings"
	"github.com/unkn0wn-root/actionrun/internal/panel"
)

const (
	labelWidth     = 8
	noActionsText  = "You have no actions !"
	successText    = "Success! See the response content below."
	failureText    = "Failure! See the error below."
	panelSubtitle  = "Run your application backend actions"
	invokeLabel    = "Invoke"
	validityValid  = "✓ valid"
	validityBroken = "✗ invalid"
)

func (m Model) View() string {
	st := m.ctrl.State()
	inner := m.width - 4

	var sections []string
	sections = append(sections, m.renderHeader(st))
	if st.HasActions {
		sections = append(sections,
			m.renderPicker(inner),
			m.renderField("headers", m.headers.View(), st.Headers, m.focus == focusHeaders),
			m.renderField("params", m.params.View(), st.Params, m.focus == focusParams),
			m.renderInvoke(st),
		)
	}
	if line := m.renderStatus(st); line != "" {
		sections = append(sections, line)
	}
	if st.HasActions {
		sections = append(sections, m.renderResponse())
	}
	sections = append(sections, m.renderFooter(inner))

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.theme.AppFrame.Width(inner + 2).Render(body)
}

func (m Model) renderHeader(st panel.State) string {
	title := m.theme.HeaderTitle.Render("actionrun")
	if m.version != "" {
		title += " " + m.theme.HeaderValue.Render(m.version)
	}
	sub := m.theme.HeaderValue.Render(panelSubtitle)
	if st.HasSelection {
		sub += m.theme.FieldLabel.Render("  ›  ") + m.theme.HeaderValue.Render(st.Selected)
	}
	return m.theme.Header.Render(title) + "\n" + m.theme.Header.Render(sub)
}

func (m Model) renderPicker(inner int) string {
	border := m.theme.PaneBorder
	if m.focus == focusPicker {
		border = m.theme.PaneBorderFocused
	}
	return border.Width(inner).Render(m.picker.View())
}

func (m Model) renderField(label, input string, f panel.Field, focused bool) string {
	labelStyle := m.theme.FieldLabel
	if focused {
		labelStyle = labelStyle.Bold(true)
	}
	var badge string
	switch f.Validity {
	case panel.ValidityValid:
		badge = m.theme.FieldValid.Render(validityValid)
	case panel.ValidityInvalid:
		badge = m.theme.FieldInvalid.Render(validityBroken)
	default:
		badge = m.theme.FieldUnset.Render("")
	}
	return labelStyle.Render(runewidth.FillRight(label, labelWidth)) + input + "  " + badge
}

func (m Model) renderInvoke(st panel.State) string {
	style := m.theme.Button
	switch {
	case !st.CanInvoke():
		style = m.theme.ButtonDisabled
	case m.focus == focusInvoke:
		style = m.theme.ButtonFocused
	}
	row := strings.Repeat(" ", labelWidth) + style.Render(invokeLabel)
	if st.InProgress {
		row += " " + m.spinner.View()
	}
	return "\n" + row
}

// renderStatus yields at most one status line per outcome.
func (m Model) renderStatus(st panel.State) string {
	switch st.Outcome() {
	case panel.OutcomeNoActions:
		return m.theme.Notice.Render(noActionsText)
	case panel.OutcomeFailed:
		return m.theme.Error.Render(failureText)
	case panel.OutcomeSucceeded:
		return m.theme.Success.Render(successText)
	default:
		return ""
	}
}

func (m Model) renderResponse() string {
	border := m.theme.PaneBorder
	if m.focus == focusResponse {
		border = m.theme.PaneBorderFocused
	}
	return border.Width(m.response.Width).Render(m.response.View())
}

func (m Model) renderFooter(inner int) string {
	var line string
	if m.notice.text != "" {
		style := m.theme.StatusBar
		switch m.notice.level {
		case noticeWarn:
			style = m.theme.Error
		case noticeSuccess:
			style = m.theme.Success
		}
		line = style.Render(m.notice.text)
	} else {
		line = m.theme.StatusBar.Render(m.hints())
	}
	return ansi.Truncate(line, inner, "…")
}

func (m Model) hints() string {
	actions := []bindings.ActionID{
		bindings.ActionInvoke,
		bindings.ActionNextField,
		bindings.ActionCopyResponse,
		bindings.ActionQuit,
	}
	if m.showHelp {
		actions = bindings.KnownActions()
	}
	parts := make([]string, 0, len(actions))
	for _, id := range actions {
		if hint := m.keys.Hint(id); hint != "" {
			parts = append(parts, hint)
		}
	}
	if !m.showHelp {
		if hint := m.keys.Hint(bindings.ActionToggleHelp); hint != "" {
			parts = append(parts, hint)
		}
	}
	return strings.Join(parts, " · ")
}
