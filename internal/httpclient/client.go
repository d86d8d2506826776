package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/errdef"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/telemetry"
)

type Options struct {
	Timeout            time.Duration
	FollowRedirects    bool
	InsecureSkipVerify bool
	ProxyURL           string
}

type Client struct {
	opts        Options
	httpFactory func(Options) (*http.Client, error)
	telemetry   telemetry.Instrumenter
}

func (c *Client) resolveHTTPFactory() func(Options) (*http.Client, error) {
	if c == nil {
		return nil
	}
	if c.httpFactory != nil {
		return c.httpFactory
	}
	return buildHTTPClient
}

func NewClient(opts Options) *Client {
	return &Client{opts: opts, httpFactory: buildHTTPClient, telemetry: telemetry.Noop()}
}

// SetHTTPFactory allows callers to override how http.Client instances are created.
// Passing nil restores the default factory.
func (c *Client) SetHTTPFactory(factory func(Options) (*http.Client, error)) {
	c.httpFactory = factory
}

// SetTelemetry configures the instrumenter used to emit OpenTelemetry spans. Passing nil restores the no-op implementation.
func (c *Client) SetTelemetry(instr telemetry.Instrumenter) {
	if instr == nil {
		instr = telemetry.Noop()
	}
	c.telemetry = instr
}

// Invoke performs one action call. The result is the decoded JSON body when
// the response parses as JSON and the raw text otherwise. Any status outside
// 2xx is an error carrying the response text.
func (c *Client) Invoke(
	ctx context.Context,
	action catalog.Action,
	headers *orderedmap.OrderedMap[string, string],
	params *jsonutil.Object,
) (result any, err error) {
	httpReq, err := buildRequest(ctx, action, headers, params)
	if err != nil {
		return nil, err
	}

	factory := c.resolveHTTPFactory()
	if factory == nil {
		return nil, errdef.New(errdef.CodeHTTP, "http client factory unavailable")
	}
	client, err := factory(c.opts)
	if err != nil {
		return nil, err
	}

	instrumenter := c.telemetry
	if instrumenter == nil {
		instrumenter = telemetry.Noop()
	}
	spanCtx, span := instrumenter.Start(httpReq.Context(), telemetry.InvocationStart{
		Action:      action.Name,
		ID:          telemetry.InvocationIDFrom(ctx),
		HTTPRequest: httpReq,
	})
	httpReq = httpReq.WithContext(spanCtx)

	var statusCode int
	start := time.Now()
	defer func() {
		span.End(telemetry.InvocationResult{
			Err:        err,
			StatusCode: statusCode,
			Duration:   time.Since(start),
		})
	}()

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "perform request")
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()
	statusCode = httpResp.StatusCode

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "read response body")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, errdef.New(
			errdef.CodeHTTP,
			"failed request to '%s' with status: %d and message: %s",
			httpReq.URL.String(),
			httpResp.StatusCode,
			string(body),
		)
	}
	return decodeBody(body), nil
}
