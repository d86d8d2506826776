// Package hostevent carries notifications from the hosting environment
// (identity switches, navigation) to whoever wants to observe them. The
// panel registers a handler but does not react to these yet.
package hostevent

import "log/slog"

type ConfigurationEvent struct {
	Org    string
	Token  string
	Locale string
}

type HistoryEvent struct {
	Type string
	Path string
}

const (
	HistoryPush    = "push"
	HistoryReplace = "replace"
)

type Handler interface {
	OnConfiguration(ConfigurationEvent)
	OnHistory(HistoryEvent)
}

func Noop() Handler { return noop{} }

type noop struct{}

func (noop) OnConfiguration(ConfigurationEvent) {}
func (noop) OnHistory(HistoryEvent)             {}

// Logging writes every event at debug level. Tokens are never logged.
func Logging(logger *slog.Logger) Handler {
	if logger == nil {
		return Noop()
	}
	return logging{logger: logger}
}

type logging struct {
	logger *slog.Logger
}

func (l logging) OnConfiguration(evt ConfigurationEvent) {
	l.logger.Debug("configuration change",
		"org", evt.Org,
		"token_set", evt.Token != "",
		"locale", evt.Locale,
	)
}

func (l logging) OnHistory(evt HistoryEvent) {
	l.logger.Debug("history change", "type", evt.Type, "path", evt.Path)
}

// Multi fans out to every non-nil handler in order.
func Multi(handlers ...Handler) Handler {
	out := make(multi, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

type multi []Handler

func (m multi) OnConfiguration(evt ConfigurationEvent) {
	for _, h := range m {
		h.OnConfiguration(evt)
	}
}

func (m multi) OnHistory(evt HistoryEvent) {
	for _, h := range m {
		h.OnHistory(evt)
	}
}
