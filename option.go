package qworker

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/qworker/progress"
	"github.com/viant/qworker/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type options struct {
	name       string
	config     *Config
	logger     *slog.Logger
	registerer prometheus.Registerer
	onProgress func(progress.Progress)
	tracingErr error
}

// Option customises a Service
type Option func(o *options)

// WithName sets the run name reported in logs, spans and progress
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithConfig replaces the whole configuration. The supplied value is copied.
func WithConfig(config *Config) Option {
	return func(o *options) {
		if config == nil {
			return
		}
		cfg := *config
		o.config = &cfg
	}
}

// WithGraceful drains enqueued tasks when the run is interrupted
func WithGraceful(graceful bool) Option {
	return func(o *options) {
		o.config.Graceful = graceful
	}
}

// WithQueueCapacity bounds the work queue; zero means unbounded
func WithQueueCapacity(capacity int) Option {
	return func(o *options) {
		o.config.Queue.Capacity = capacity
	}
}

// WithPollTimeout sets the queue poll timeout used by workers
func WithPollTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.config.Queue.PollTimeout = timeout
	}
}

// WithStartupDelay sets the pause between producer and consumer start
func WithStartupDelay(delay time.Duration) Option {
	return func(o *options) {
		o.config.StartupDelay = delay
	}
}

// WithLogger sets the structured logger shared by every worker
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics registers run collectors with the supplied registerer
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = registerer
	}
}

// WithProgressListener sets a callback invoked after every progress update.
// It runs on worker goroutines and must not block.
func WithProgressListener(listener func(progress.Progress)) Option {
	return func(o *options) {
		o.onProgress = listener
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(o *options) {
		o.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}

func newOptions(opts []Option) *options {
	ret := &options{name: "qworker", config: DefaultConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}
