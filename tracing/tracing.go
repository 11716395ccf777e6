package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/viant/qworker"

// Span kinds accepted by StartSpan.
const (
	KindInternal = "INTERNAL"
	KindProducer = "PRODUCER"
	KindConsumer = "CONSUMER"
)

// Init configures OpenTelemetry with the stdout exporter backed by either
// os.Stdout or the specified file. The function is safe to call multiple
// times; the first successful initialisation wins.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return installProvider(serviceName, serviceVersion, exporter)
}

// InitWithExporter configures OpenTelemetry using the supplied SpanExporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	return installProvider(serviceName, serviceVersion, exporter)
}

var (
	providerOnce sync.Once
	providerErr  error
	provider     *sdktrace.TracerProvider
)

// installProvider registers the supplied exporter as the global trace
// provider. Only the first invocation has an effect.
func installProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}

	providerOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", serviceVersion),
			),
		)
		if err != nil {
			providerErr = err
			return
		}

		provider = sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
	})

	return providerErr
}

// Shutdown flushes and stops the provider installed by Init, if any.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// Span wraps go.opentelemetry.io/otel/trace.Span.
type Span struct {
	span trace.Span
}

// WithAttributes attaches all provided attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}
	s.span.SetAttributes(otelAttrs...)
	return s
}

// SetStatus records an error status on the span. If err is nil an OK status
// is recorded instead.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
}

// StartSpan starts a new child span. The string kind is mapped onto
// trace.SpanKind; unknown kinds are recorded as internal spans.
func StartSpan(ctx context.Context, name, kind string) (context.Context, *Span) {
	tracer := otel.Tracer(tracerName)

	var spanKind trace.SpanKind
	switch kind {
	case KindProducer:
		spanKind = trace.SpanKindProducer
	case KindConsumer:
		spanKind = trace.SpanKindConsumer
	default:
		spanKind = trace.SpanKindInternal
	}

	parentSpan := trace.SpanFromContext(ctx)
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(spanKind))
	if sc := parentSpan.SpanContext(); sc.IsValid() {
		span.SetAttributes(
			attribute.String("parent.trace_id", sc.TraceID().String()),
			attribute.String("parent.span_id", sc.SpanID().String()),
		)
	}
	return ctx, &Span{span: span}
}

// EndSpan finalises the span and records status depending on err.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}
