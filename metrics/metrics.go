package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/qworker/progress"
)

// Source returns the current run counters.
type Source func() progress.Progress

// Metrics groups the collectors describing a single run
type Metrics struct {
	enqueued  prometheus.CounterFunc
	completed prometheus.CounterFunc
	failed    prometheus.CounterFunc
	running   prometheus.GaugeFunc
	pending   prometheus.GaugeFunc
	elapsed   prometheus.GaugeFunc
}

// New creates collectors prefixed with namespace reading from source
func New(namespace string, source Source) *Metrics {
	counter := func(name, help string, value func(p progress.Progress) int) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(source()))
		})
	}
	gauge := func(name, help string, value func(p progress.Progress) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return value(source())
		})
	}
	return &Metrics{
		enqueued: counter("tasks_enqueued_total", "Total tasks placed on the queue",
			func(p progress.Progress) int { return p.TotalTasks }),
		completed: counter("tasks_completed_total", "Total tasks retired, failed ones included",
			func(p progress.Progress) int { return p.CompletedTasks }),
		failed: counter("tasks_failed_total", "Total tasks whose consumer returned an error or panicked",
			func(p progress.Progress) int { return p.FailedTasks }),
		running: gauge("tasks_running", "Tasks currently held by a consumer",
			func(p progress.Progress) float64 { return float64(p.RunningTasks) }),
		pending: gauge("tasks_pending", "Tasks waiting in the queue",
			func(p progress.Progress) float64 { return float64(p.PendingTasks) }),
		elapsed: gauge("run_elapsed_seconds", "Seconds since the run started",
			func(p progress.Progress) float64 { return p.Elapsed().Seconds() }),
	}
}

// Collectors returns every collector
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.enqueued, m.completed, m.failed, m.running, m.pending, m.elapsed}
}

// Register registers every collector with registerer. A collector of an
// earlier run exporting the same metric is replaced, so the registerer
// always reports the most recently registered run.
func (m *Metrics) Register(registerer prometheus.Registerer) error {
	for _, collector := range m.Collectors() {
		err := registerer.Register(collector)
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if alreadyRegistered.ExistingCollector == collector {
				continue
			}
			registerer.Unregister(alreadyRegistered.ExistingCollector)
			err = registerer.Register(collector)
		}
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return nil
}
