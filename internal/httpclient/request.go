package httpclient

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/errdef"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

const (
	headerContentType   = "content-type"
	headerExtraLogging  = "x-ow-extra-logging"
	defaultContentType  = "application/json"
	extraLoggingEnabled = "on"
)

func buildRequest(
	ctx context.Context,
	action catalog.Action,
	headers *orderedmap.OrderedMap[string, string],
	params *jsonutil.Object,
) (*http.Request, error) {
	if strings.TrimSpace(action.URL) == "" {
		return nil, errdef.New(errdef.CodeHTTP, "action %q has no url", action.Name)
	}
	target, err := url.Parse(action.URL)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "parse url for action %q", action.Name)
	}

	method := action.EffectiveMethod()
	var body io.Reader
	if method == http.MethodGet {
		target.RawQuery = appendQuery(target.RawQuery, params)
	} else {
		payload, err := encodeParams(params)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "build request")
	}

	req.Header.Set(headerContentType, defaultContentType)
	if isLocalHost(target.Hostname()) {
		req.Header.Set(headerExtraLogging, extraLoggingEnabled)
	}
	if headers != nil {
		for pair := headers.Oldest(); pair != nil; pair = pair.Next() {
			req.Header.Set(pair.Key, pair.Value)
		}
	}
	return req, nil
}

func encodeParams(params *jsonutil.Object) ([]byte, error) {
	if params == nil {
		return []byte("{}"), nil
	}
	payload, err := params.MarshalJSON()
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "encode params")
	}
	return payload, nil
}

// appendQuery keeps parameter order; url.Values would sort the keys.
func appendQuery(raw string, params *jsonutil.Object) string {
	if params == nil || params.Len() == 0 {
		return raw
	}
	var b strings.Builder
	b.WriteString(raw)
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(jsonutil.Text(pair.Value)))
	}
	return b.String()
}

func isLocalHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
