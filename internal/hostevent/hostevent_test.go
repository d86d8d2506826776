package hostevent

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type recorder struct {
	configs []ConfigurationEvent
	history []HistoryEvent
}

func (r *recorder) OnConfiguration(evt ConfigurationEvent) { r.configs = append(r.configs, evt) }
func (r *recorder) OnHistory(evt HistoryEvent)             { r.history = append(r.history, evt) }

func TestMultiFansOutAndSkipsNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	h := Multi(a, nil, b)
	h.OnConfiguration(ConfigurationEvent{Org: "o1"})
	h.OnHistory(HistoryEvent{Type: HistoryPush, Path: "/actions/generic"})

	for _, r := range []*recorder{a, b} {
		if len(r.configs) != 1 || r.configs[0].Org != "o1" {
			t.Fatalf("unexpected configuration events: %+v", r.configs)
		}
		if len(r.history) != 1 || r.history[0].Path != "/actions/generic" {
			t.Fatalf("unexpected history events: %+v", r.history)
		}
	}
}

func TestLoggingNeverWritesToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Logging(logger).OnConfiguration(ConfigurationEvent{Org: "o1", Token: "secret-token"})

	out := buf.String()
	if strings.Contains(out, "secret-token") {
		t.Fatalf("token leaked into log output: %q", out)
	}
	if !strings.Contains(out, "token_set=true") {
		t.Fatalf("expected token_set flag, got %q", out)
	}
}

func TestLoggingNilLoggerIsNoop(t *testing.T) {
	if _, ok := Logging(nil).(noop); !ok {
		t.Fatalf("expected nil logger to yield noop handler")
	}
}
