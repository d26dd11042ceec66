package observability

import (
	"context"

	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run activity as Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	runsStarted  *prometheus.CounterVec
	runsFinished *prometheus.CounterVec
	steps        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	comparisons  *prometheus.CounterVec
	swaps        *prometheus.CounterVec
	explored     *prometheus.CounterVec
	state        *prometheus.GaugeVec
}

var allStates = []domain.RunState{
	domain.StateIdle, domain.StateRunning, domain.StatePaused, domain.StateCancelled, domain.StateCompleted,
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_runs_started_total",
				Help: "Total number of runs started",
			},
			[]string{"mode", "algorithm"},
		),
		runsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_runs_finished_total",
				Help: "Total number of runs finished, by outcome",
			},
			[]string{"mode", "algorithm", "outcome"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_steps_total",
				Help: "Total number of step events emitted",
			},
			[]string{"mode", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "algoviz_run_duration_seconds",
				Help:    "Wall-clock duration of runs, delays included",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"mode", "algorithm"},
		),
		comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_comparisons_total",
				Help: "Comparisons performed by sorting runs",
			},
			[]string{"algorithm"},
		),
		swaps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_swaps_total",
				Help: "Swaps and overwrites performed by sorting runs",
			},
			[]string{"algorithm"},
		),
		explored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_nodes_explored_total",
				Help: "Cells explored by pathfinding runs",
			},
			[]string{"algorithm"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "algoviz_run_state",
				Help: "1 for the current controller state, 0 otherwise",
			},
			[]string{"state"},
		),
	}
	m.registry.MustRegister(
		m.runsStarted, m.runsFinished, m.steps, m.duration,
		m.comparisons, m.swaps, m.explored, m.state,
	)
	m.setState(domain.StateIdle)
	return m
}

// Registry exposes the registry for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns the lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.runsStarted.WithLabelValues(string(e.Mode), string(e.Algorithm)).Inc()
		},
		OnStep: func(_ context.Context, e domain.StepEvent) {
			m.steps.WithLabelValues(string(e.Mode), string(e.Kind)).Inc()
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			if e.Result == nil {
				return
			}
			res := e.Result
			outcome := "completed"
			if res.Cancelled {
				outcome = "cancelled"
			}
			m.runsFinished.WithLabelValues(string(e.Mode), string(e.Algorithm), outcome).Inc()
			m.duration.WithLabelValues(string(e.Mode), string(e.Algorithm)).Observe(res.Elapsed.Seconds())

			switch e.Mode {
			case domain.ModeSorting:
				m.comparisons.WithLabelValues(string(e.Algorithm)).Add(float64(res.Comparisons))
				m.swaps.WithLabelValues(string(e.Algorithm)).Add(float64(res.Swaps))
			case domain.ModePathfinding:
				m.explored.WithLabelValues(string(e.Algorithm)).Add(float64(res.NodesExplored))
			}
		},
		OnStateChange: func(_ context.Context, e *domain.StateEvent) {
			m.setState(e.To)
		},
	}
}

func (m *Metrics) setState(current domain.RunState) {
	for _, s := range allStates {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(string(s)).Set(v)
	}
}
