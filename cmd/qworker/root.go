package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/viant/qworker"
	"github.com/viant/qworker/internal/logger"
	"github.com/viant/qworker/tracing"
)

var version = "dev"

type flags struct {
	configURL   string
	consumers   int
	graceful    bool
	capacity    int
	metricsAddr string
	traceFile   string
	logLevel    string
	logFormat   string
}

// app holds what every run command shares: logger, effective config and
// service options, plus the resources to release afterwards.
type app struct {
	logger  *slog.Logger
	config  *qworker.Config
	options []qworker.Option
	closers []func(ctx context.Context) error
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("failed to release resource", "error", err)
		}
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "qworker",
		Short:         "Run a producer against a pool of concurrent consumers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configURL, "config", "", "YAML configuration URL (any afs location)")
	pf.IntVarP(&f.consumers, "consumers", "c", qworker.DefaultConfig().Consumers, "number of concurrent consumers")
	pf.BoolVar(&f.graceful, "graceful", false, "drain enqueued tasks on interrupt")
	pf.IntVar(&f.capacity, "capacity", 0, "work queue capacity, 0 means unbounded")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.StringVar(&f.traceFile, "trace-file", "", "write OpenTelemetry spans to this file")
	pf.StringVar(&f.logLevel, "log-level", logger.LevelInfo, "TRACE, DEBUG, INFO, WARNING, ERROR or OFF")
	pf.StringVar(&f.logFormat, "log-format", logger.FormatText, "text or json")

	cmd.AddCommand(newUploadCommand(f), newPurgeCommand(f), newDemoCommand(f))
	return cmd
}

// newApp resolves logging, configuration and observability for cmd.
func newApp(cmd *cobra.Command, f *flags) (*app, error) {
	log, err := logger.New(cmd.ErrOrStderr(), f.logLevel, f.logFormat)
	if err != nil {
		return nil, err
	}
	ret := &app{logger: log}
	ret.config = qworker.DefaultConfig()
	if f.configURL != "" {
		if ret.config, err = qworker.LoadConfig(cmd.Context(), f.configURL); err != nil {
			return nil, err
		}
	}
	flagSet := cmd.Flags()
	if flagSet.Changed("consumers") || f.configURL == "" {
		ret.config.Consumers = f.consumers
	}
	if flagSet.Changed("graceful") {
		ret.config.Graceful = f.graceful
	}
	if flagSet.Changed("capacity") {
		ret.config.Queue.Capacity = f.capacity
	}
	if err = ret.config.Validate(); err != nil {
		return nil, err
	}
	ret.options = append(ret.options, qworker.WithConfig(ret.config), qworker.WithLogger(log))

	if f.traceFile != "" {
		ret.options = append(ret.options, qworker.WithTracing("qworker", version, f.traceFile))
		ret.closers = append(ret.closers, tracing.Shutdown)
	}
	if f.metricsAddr != "" {
		if err = ret.serveMetrics(f.metricsAddr); err != nil {
			ret.close()
			return nil, err
		}
	}
	return ret, nil
}

func (a *app) serveMetrics(addr string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %v: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", listener.Addr().String())
	a.options = append(a.options, qworker.WithMetrics(registry))
	a.closers = append(a.closers, server.Shutdown)
	return nil
}
