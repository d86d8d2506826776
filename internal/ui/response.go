package ui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"github.com/charmbracelet/x/ansi"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/panel"
	"github.com/unkn0wn-root/actionrun/internal/theme"
)

const emptyResponse = "(empty response)"

// plainPayload is the text copied to the clipboard.
func plainPayload(v any) string {
	return jsonutil.Pretty(v)
}

func responseContent(st panel.State, th theme.Theme, width int) string {
	switch {
	case st.InProgress:
		return th.FieldUnset.Render("waiting for " + st.Selected + "...")
	case st.Err != "":
		return th.Error.Render(wrap(st.Err, width))
	case st.HasResponse:
		return highlightPayload(st.Response, th, width)
	default:
		return ""
	}
}

func highlightPayload(v any, th theme.Theme, width int) string {
	text := plainPayload(v)
	if strings.TrimSpace(text) == "" {
		return th.FieldUnset.Render(emptyResponse)
	}
	if _, isText := v.(string); isText || th.HighlightStyle == "" {
		return th.ResponseContent.Render(wrap(text, width))
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, "json", "terminal256", th.HighlightStyle); err != nil {
		return th.ResponseContent.Render(wrap(text, width))
	}
	return wrap(strings.TrimRight(buf.String(), "\n"), width)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Hardwrap(s, width, true)
}
