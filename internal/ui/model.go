// Package ui renders the action panel as a bubbletea program. All session
// state lives in the panel controller; the model only keeps widget state.
package ui

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/actionrun/internal/bindings"
	"github.com/unkn0wn-root/actionrun/internal/logging"
	"github.com/unkn0wn-root/actionrun/internal/panel"
	"github.com/unkn0wn-root/actionrun/internal/theme"
)

const (
	fieldPlaceholder = `{ "key": "value" }`
	defaultWidth     = 80
	defaultHeight    = 24
)

type focusArea int

const (
	focusPicker focusArea = iota
	focusHeaders
	focusParams
	focusInvoke
	focusResponse
)

var focusOrder = []focusArea{focusPicker, focusHeaders, focusParams, focusInvoke, focusResponse}

type Config struct {
	Controller *panel.Controller
	Theme      *theme.Theme
	Bindings   *bindings.Map
	Logger     *slog.Logger
	// Context bounds every invocation started from the panel.
	Context context.Context
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Version   string
}

type Model struct {
	ctrl      *panel.Controller
	ctx       context.Context
	theme     theme.Theme
	keys      *bindings.Map
	logger    *slog.Logger
	clipboard func(string) error
	version   string

	picker   list.Model
	headers  textinput.Model
	params   textinput.Model
	spinner  spinner.Model
	response viewport.Model

	focus    focusArea
	width    int
	height   int
	notice   noticeMsg
	showHelp bool
}

func New(cfg Config) Model {
	th := theme.DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	keys := cfg.Bindings
	if keys == nil {
		keys = bindings.DefaultMap()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	copyFn := cfg.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	ctrl := cfg.Controller
	if ctrl == nil {
		ctrl = panel.New(nil, nil)
	}

	m := Model{
		ctrl:      ctrl,
		ctx:       ctx,
		theme:     th,
		keys:      keys,
		logger:    logger,
		clipboard: copyFn,
		version:   cfg.Version,
		picker:    newPicker(th, ctrl.Catalog()),
		headers:   newFieldInput(),
		params:    newFieldInput(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.Spinner)),
		response:  viewport.New(defaultWidth, 0),
		focus:     focusPicker,
	}
	m.resize(defaultWidth, defaultHeight)
	m.refreshResponse()
	return m
}

func newFieldInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = fieldPlaceholder
	in.Prompt = ""
	return in
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) available() []focusArea {
	if !m.ctrl.HasActions() {
		return nil
	}
	return focusOrder
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	order := m.available()
	if len(order) == 0 {
		return nil
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return m.setFocus(order[idx])
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.headers.Blur()
	m.params.Blur()
	switch f {
	case focusHeaders:
		return m.headers.Focus()
	case focusParams:
		return m.params.Focus()
	}
	return nil
}
