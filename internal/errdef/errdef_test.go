package errdef

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapNilReturnsNil(t *testing.T) {
	if err := Wrap(CodeHTTP, nil, "perform request"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapKeepsChain(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(CodeHTTP, base, "invoke %s", "generic")
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to match base")
	}
	if got := err.Error(); got != "invoke generic: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if CodeOf(err) != CodeHTTP {
		t.Fatalf("expected http code, got %q", CodeOf(err))
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if code := CodeOf(errors.New("plain")); code != CodeUnknown {
		t.Fatalf("expected unknown code, got %q", code)
	}
	wrapped := fmt.Errorf("outer: %w", New(CodeCatalog, "bad catalog"))
	if code := CodeOf(wrapped); code != CodeCatalog {
		t.Fatalf("expected catalog code, got %q", code)
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Fatalf("expected empty message for nil")
	}
	if got := Message(New(CodeHTTP, "timeout\n")); got != "timeout" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := New(CodeParse, "100%% sure").Error(); got != "100%% sure" {
		t.Fatalf("format without args must be left alone, got %q", got)
	}
}
