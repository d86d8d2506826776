package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/actionrun/internal/bindings"
	"github.com/unkn0wn-root/actionrun/internal/panel"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case invokeResultMsg:
		if !m.ctrl.Complete(msg.ticket, msg.payload, msg.err) {
			return m, nil
		}
		m.refreshResponse()
		return m, nil
	case spinner.TickMsg:
		if !m.ctrl.State().InProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case noticeMsg:
		m.notice = msg
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if binding, ok := m.keys.Match(msg.String()); ok {
		switch binding.Action {
		case bindings.ActionQuit:
			return m, tea.Quit
		case bindings.ActionNextField:
			return m, m.moveFocus(1)
		case bindings.ActionPrevField:
			return m, m.moveFocus(-1)
		case bindings.ActionInvoke:
			return m.invoke()
		case bindings.ActionCopyResponse:
			return m, m.copyResponse()
		case bindings.ActionToggleHelp:
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	if !m.ctrl.HasActions() {
		return m, nil
	}

	switch m.focus {
	case focusPicker:
		if msg.Type == tea.KeyEnter {
			return m.selectHighlighted()
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case focusHeaders:
		return m.updateField(panel.FieldHeaders, msg)
	case focusParams:
		return m.updateField(panel.FieldParams, msg)
	case focusInvoke:
		if msg.Type == tea.KeyEnter || msg.String() == " " {
			return m.invoke()
		}
	case focusResponse:
		if msg.String() == "y" {
			return m, m.copyResponse()
		}
		var cmd tea.Cmd
		m.response, cmd = m.response.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) selectHighlighted() (tea.Model, tea.Cmd) {
	item, ok := m.picker.SelectedItem().(actionItem)
	if !ok {
		return m, nil
	}
	if err := m.ctrl.SelectAction(item.action.Name); err != nil {
		m.notice = noticeMsg{text: err.Error(), level: noticeWarn}
		return m, nil
	}
	m.notice = noticeMsg{}
	m.refreshResponse()
	return m, m.setFocus(focusHeaders)
}

func (m Model) updateField(id panel.FieldID, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := &m.headers
	if id == panel.FieldParams {
		input = &m.params
	}
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() != before {
		m.ctrl.SetField(id, input.Value())
	}
	return m, cmd
}

// invoke starts the call on a command goroutine; the result comes back as
// invokeResultMsg and is applied through Complete.
func (m Model) invoke() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.Begin()
	switch {
	case errors.Is(err, panel.ErrNoSelection):
		m.notice = noticeMsg{text: "Select an action first", level: noticeInfo}
		return m, nil
	case errors.Is(err, panel.ErrInFlight):
		return m, nil
	case err != nil:
		m.notice = noticeMsg{text: err.Error(), level: noticeWarn}
		return m, nil
	}

	m.notice = noticeMsg{}
	m.refreshResponse()
	ctx := m.ctx
	ctrl := m.ctrl
	call := func() tea.Msg {
		payload, err := ctrl.Call(ctx, ticket)
		return invokeResultMsg{ticket: ticket, payload: payload, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, call)
}

func (m Model) copyResponse() tea.Cmd {
	st := m.ctrl.State()
	var text string
	switch {
	case st.HasResponse:
		text = plainPayload(st.Response)
	case st.Err != "":
		text = st.Err
	default:
		return func() tea.Msg {
			return noticeMsg{text: "No response available to copy", level: noticeWarn}
		}
	}
	copyFn := m.clipboard
	logger := m.logger
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			logger.Warn("clipboard write failed", "error", err)
			return noticeMsg{text: "Clipboard unavailable", level: noticeWarn}
		}
		return noticeMsg{
			text:  fmt.Sprintf("Copied response (%d bytes)", len(text)),
			level: noticeSuccess,
		}
	}
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width = width
	m.height = height

	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	fieldWidth := inner - labelWidth - 12
	if fieldWidth < 8 {
		fieldWidth = 8
	}
	m.headers.Width = fieldWidth
	m.params.Width = fieldWidth

	pickerHeight := m.pickerHeight()
	m.picker.SetSize(inner, pickerHeight)

	// header, fields, invoke row, status line, footer and borders
	used := 2 + pickerHeight + 2 + 2 + 1 + 1 + 1 + 4
	respHeight := height - used
	if respHeight < 3 {
		respHeight = 3
	}
	m.response.Width = inner
	m.response.Height = respHeight
	m.refreshResponse()
}

func (m *Model) pickerHeight() int {
	n := len(m.picker.Items())
	h := n*3 + 2
	if h > 11 {
		h = 11
	}
	if h < 4 {
		h = 4
	}
	return h
}

func (m *Model) refreshResponse() {
	m.response.SetContent(responseContent(m.ctrl.State(), m.theme, m.response.Width))
	m.response.GotoTop()
}
