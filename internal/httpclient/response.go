package httpclient

import (
	"bytes"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

// decodeBody yields an ordered object for JSON objects, any other JSON value
// decoded, or the text itself.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !jsonutil.Valid(trimmed) {
		return string(body)
	}
	if trimmed[0] == '{' {
		if obj, err := jsonutil.ParseObject(trimmed); err == nil {
			return obj
		}
		return string(body)
	}
	var v any
	if err := jsonutil.API.Unmarshal(trimmed, &v); err != nil {
		return string(body)
	}
	return v
}
