package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/panel"
	"github.com/unkn0wn-root/actionrun/internal/theme"
)

type stubTransport struct {
	payload any
	err     error
	headers *orderedmap.OrderedMap[string, string]
}

func (s *stubTransport) Invoke(
	_ context.Context,
	_ catalog.Action,
	headers *orderedmap.OrderedMap[string, string],
	_ *jsonutil.Object,
) (any, error) {
	s.headers = headers
	return s.payload, s.err
}

func newTestModel(t *testing.T, tr *stubTransport, actions ...catalog.Action) (Model, *panel.Controller) {
	t.Helper()
	ctrl := panel.New(catalog.New(actions...), tr)
	mono := theme.Monochrome()
	m := New(Config{Controller: ctrl, Theme: &mono})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), ctrl
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// drain runs cmd and feeds every resulting message back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestNoActionsView(t *testing.T) {
	m, _ := newTestModel(t, &stubTransport{})
	view := m.View()
	if !strings.Contains(view, noActionsText) {
		t.Fatalf("expected no-actions text, got:\n%s", view)
	}
	if strings.Contains(view, invokeLabel) {
		t.Fatalf("expected invoke trigger not to be offered")
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil {
		t.Fatalf("expected invoke to be a no-op without actions")
	}
	_ = m
}

func TestInvokeRequiresSelection(t *testing.T) {
	tr := &stubTransport{payload: "ok"}
	m, ctrl := newTestModel(t, tr, catalog.Action{Name: "generic", URL: "https://example.test"})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil {
		t.Fatalf("expected no command without selection")
	}
	if ctrl.State().InProgress {
		t.Fatalf("expected no invocation without selection")
	}
	if m.notice.text == "" {
		t.Fatalf("expected a hint about selecting an action")
	}
}

func TestSelectTypeAndInvoke(t *testing.T) {
	tr := &stubTransport{payload: map[string]any{"greeting": "hello"}}
	m, ctrl := newTestModel(t, tr, catalog.Action{Name: "generic", URL: "https://example.test"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := ctrl.State().Selected; got != "generic" {
		t.Fatalf("expected generic selected, got %q", got)
	}
	if m.focus != focusHeaders {
		t.Fatalf("expected focus to move to headers, got %v", m.focus)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(`{"X-Trace":"1"}`)})
	if v := ctrl.State().Headers.Validity; v != panel.ValidityValid {
		t.Fatalf("expected valid headers, got %q", v)
	}
	if !strings.Contains(m.View(), validityValid) {
		t.Fatalf("expected validity badge in view")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatalf("expected invoke command")
	}
	if !ctrl.State().InProgress {
		t.Fatalf("expected in-progress after trigger")
	}
	m = drain(t, m, cmd)

	st := ctrl.State()
	if st.Status != panel.StatusSucceeded {
		t.Fatalf("expected success, got %s", st.Status)
	}
	if v, _ := tr.headers.Get("x-trace"); v != "1" {
		t.Fatalf("expected normalized header, got %q", v)
	}
	view := m.View()
	if !strings.Contains(view, successText) {
		t.Fatalf("expected success line, got:\n%s", view)
	}
	if strings.Contains(view, failureText) {
		t.Fatalf("expected a single status line")
	}
	if !strings.Contains(view, "greeting") {
		t.Fatalf("expected response rendered")
	}
}

func TestInvokeFailureShowsError(t *testing.T) {
	tr := &stubTransport{err: errors.New("failed request with status: 500")}
	m, ctrl := newTestModel(t, tr, catalog.Action{Name: "broken", URL: "https://example.test"})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = drain(t, m, cmd)

	if ctrl.State().Status != panel.StatusFailed {
		t.Fatalf("expected failure")
	}
	view := m.View()
	if !strings.Contains(view, failureText) || strings.Contains(view, successText) {
		t.Fatalf("expected only the failure line, got:\n%s", view)
	}
	if !strings.Contains(view, "status: 500") {
		t.Fatalf("expected error text in response pane")
	}
}

func TestFocusCycles(t *testing.T) {
	m, _ := newTestModel(t, &stubTransport{}, catalog.Action{Name: "a", URL: "https://example.test"})
	want := []focusArea{focusHeaders, focusParams, focusInvoke, focusResponse, focusPicker}
	for _, f := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != f {
			t.Fatalf("expected focus %v, got %v", f, m.focus)
		}
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusResponse {
		t.Fatalf("expected shift+tab to go back, got %v", m.focus)
	}
}

func TestCopyResponse(t *testing.T) {
	var copied string
	tr := &stubTransport{payload: "plain body"}
	ctrl := panel.New(catalog.New(catalog.Action{Name: "a", URL: "https://example.test"}), tr)
	m := New(Config{Controller: ctrl, Clipboard: func(s string) error {
		copied = s
		return nil
	}})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	m = drain(t, m, cmd)
	if m.notice.level != noticeWarn {
		t.Fatalf("expected warning with nothing to copy")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = drain(t, m, cmd)
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	m = drain(t, m, cmd)
	if copied != "plain body" {
		t.Fatalf("expected response copied, got %q", copied)
	}
	if m.notice.level != noticeSuccess {
		t.Fatalf("expected success notice, got %+v", m.notice)
	}
}

func TestStaleResultIgnored(t *testing.T) {
	tr := &stubTransport{payload: "first"}
	m, ctrl := newTestModel(t, tr,
		catalog.Action{Name: "a", URL: "https://example.test/a"},
		catalog.Action{Name: "b", URL: "https://example.test/b"},
	)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if err := ctrl.SelectAction("b"); err != nil {
		t.Fatalf("select: %v", err)
	}
	m = drain(t, m, cmd)
	st := ctrl.State()
	if st.Status != panel.StatusIdle || st.HasResponse {
		t.Fatalf("expected late result dropped, got %+v", st)
	}
	_ = m
}

func TestPlainPayload(t *testing.T) {
	obj, err := jsonutil.ParseObject([]byte(`{"b":1,"a":[true]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := plainPayload(obj)
	want := "{\n  \"b\": 1,\n  \"a\": [\n    true\n  ]\n}"
	if got != want {
		t.Fatalf("unexpected pretty payload:\n%s", got)
	}
	if plainPayload("text") != "text" {
		t.Fatalf("expected text kept")
	}
	if plainPayload(nil) != "" {
		t.Fatalf("expected nil to render empty")
	}
}
