package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracerName  = "github.com/unkn0wn-root/actionrun/internal/telemetry"
	httpHostKey = attribute.Key("http.host")
)

type Instrumenter interface {
	Start(ctx context.Context, info InvocationStart) (context.Context, InvocationSpan)
	Shutdown(ctx context.Context) error
}

type InvocationStart struct {
	Action      string
	ID          string
	HTTPRequest *http.Request
}

type InvocationResult struct {
	Err        error
	StatusCode int
	Duration   time.Duration
}

type InvocationSpan interface {
	End(result InvocationResult)
}

type providerOptions struct {
	exporter       sdktrace.SpanExporter
	spanProcessors []sdktrace.SpanProcessor
}

type Option func(*providerOptions)

func WithSpanProcessor(proc sdktrace.SpanProcessor) Option {
	return func(opts *providerOptions) {
		if proc != nil {
			opts.spanProcessors = append(opts.spanProcessors, proc)
		}
	}
}

func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(opts *providerOptions) {
		if exp != nil {
			opts.exporter = exp
		}
	}
}

type manager struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	shutdown sync.Once
}

// New returns Noop when neither an endpoint nor an explicit exporter or
// processor is configured.
func New(cfg Config, opts ...Option) (Instrumenter, error) {
	builder := providerOptions{}
	for _, opt := range opts {
		opt(&builder)
	}

	if !cfg.Enabled() && builder.exporter == nil && len(builder.spanProcessors) == 0 {
		return Noop(), nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(buildResourceAttributes(cfg)...),
	)
	if err != nil {
		return nil, err
	}

	exporter := builder.exporter
	if exporter == nil && cfg.Enabled() {
		exporter, err = newExporter(cfg)
		if err != nil {
			return nil, err
		}
	}

	var tpOpts []sdktrace.TracerProviderOption
	tpOpts = append(tpOpts, sdktrace.WithResource(res))
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, proc := range builder.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(proc))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	return &manager{tracer: tp.Tracer(tracerName), provider: tp}, nil
}

func (m *manager) Start(ctx context.Context, info InvocationStart) (context.Context, InvocationSpan) {
	ctx, span := m.tracer.Start(
		ctx,
		spanNameFor(info),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(buildSpanAttributes(info)...),
	)
	return ctx, &invocationSpan{span: span}
}

func (m *manager) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	var shutdownErr error
	m.shutdown.Do(func() {
		shutdownErr = m.provider.Shutdown(ctx)
	})
	return shutdownErr
}

type invocationSpan struct {
	span trace.Span
}

func (s *invocationSpan) End(result InvocationResult) {
	if s == nil || s.span == nil {
		return
	}

	if result.StatusCode > 0 {
		s.span.SetAttributes(semconv.HTTPStatusCodeKey.Int(result.StatusCode))
	}
	if result.Duration > 0 {
		s.span.SetAttributes(
			attribute.Int64("actionrun.invoke.duration_ms", result.Duration.Milliseconds()),
		)
	}

	switch {
	case result.Err != nil:
		s.span.RecordError(result.Err)
		s.span.SetStatus(codes.Error, result.Err.Error())
	case result.StatusCode >= 400:
		s.span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", result.StatusCode))
	default:
		s.span.SetStatus(codes.Ok, "OK")
	}
	s.span.End()
}

func Noop() Instrumenter {
	return noopInstrumenter{}
}

type noopInstrumenter struct{}

type noopSpan struct{}

func (noopInstrumenter) Start(ctx context.Context, _ InvocationStart) (context.Context, InvocationSpan) {
	return ctx, noopSpan{}
}

func (noopInstrumenter) Shutdown(context.Context) error { return nil }

func (noopSpan) End(InvocationResult) {}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("telemetry endpoint is required")
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	client := otlptracegrpc.NewClient(clientOpts...)
	return otlptrace.New(ctx, client)
}

func buildResourceAttributes(cfg Config) []attribute.KeyValue {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = defaultServiceName
	}
	attrs := []attribute.KeyValue{semconv.ServiceName(name)}
	if strings.TrimSpace(cfg.Version) != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	return attrs
}

func buildSpanAttributes(info InvocationStart) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if name := strings.TrimSpace(info.Action); name != "" {
		attrs = append(attrs, attribute.String("actionrun.action", name))
	}
	if id := strings.TrimSpace(info.ID); id != "" {
		attrs = append(attrs, attribute.String("actionrun.invocation.id", id))
	}

	req := info.HTTPRequest
	if req == nil {
		return attrs
	}
	if req.Method != "" {
		attrs = append(attrs, semconv.HTTPMethodKey.String(req.Method))
	}
	if req.URL != nil {
		if scheme := req.URL.Scheme; scheme != "" {
			attrs = append(attrs, semconv.HTTPSchemeKey.String(scheme))
		}
		if host := req.URL.Host; host != "" {
			attrs = append(attrs, httpHostKey.String(host))
		}
		if target := req.URL.RequestURI(); target != "" {
			attrs = append(attrs, semconv.HTTPTargetKey.String(target))
		}
	}
	return attrs
}

func spanNameFor(info InvocationStart) string {
	if name := strings.TrimSpace(info.Action); name != "" {
		return "invoke " + name
	}
	if info.HTTPRequest != nil && info.HTTPRequest.Method != "" {
		if info.HTTPRequest.URL != nil && info.HTTPRequest.URL.Host != "" {
			return fmt.Sprintf("%s %s", info.HTTPRequest.Method, info.HTTPRequest.URL.Host)
		}
		return info.HTTPRequest.Method
	}
	return "action.invoke"
}
