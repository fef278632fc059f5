// Package prom exports engine events as Prometheus metrics.
//
// Register the hooks once at startup:
//
//	observability.SetEngineHooks(prom.NewEngineHooks(prometheus.DefaultRegisterer))
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/branchtime/pkg/buildinfo"
	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/observability"
)

const (
	metricsNamespace = "branchtime"
	engineSubsystem  = "engine"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// EngineHooks implements observability.EngineHooks with Prometheus
// collectors.
type EngineHooks struct {
	// RunsTotal counts finished runs.
	// Labels: status (success, error)
	RunsTotal *prometheus.CounterVec

	// ErrorsTotal counts failed runs by error code.
	// Labels: code (INVALID_PARAMETER, NUMERICAL_INSTABILITY, ...)
	ErrorsTotal *prometheus.CounterVec

	// RunDurationSeconds measures the wall time of a run.
	RunDurationSeconds prometheus.Histogram

	// PassDurationSeconds measures each pass.
	// Labels: pass (upward, downward, posterior)
	PassDurationSeconds *prometheus.HistogramVec

	// NodesProcessedTotal counts nodes of successful runs.
	NodesProcessedTotal prometheus.Counter

	// ActiveRuns tracks runs in progress.
	ActiveRuns prometheus.Gauge

	// BuildInfo is always 1.
	// Labels: version, commit
	BuildInfo *prometheus.GaugeVec
}

var _ observability.EngineHooks = (*EngineHooks)(nil)

// NewEngineHooks creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewEngineHooks(reg prometheus.Registerer) *EngineHooks {
	f := promauto.With(reg)
	h := &EngineHooks{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "runs_total",
				Help:      "Total number of engine runs by status",
			},
			[]string{"status"},
		),
		ErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "errors_total",
				Help:      "Total number of failed engine runs by error code",
			},
			[]string{"code"},
		),
		RunDurationSeconds: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "run_duration_seconds",
				Help:      "Wall time of engine runs",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
		),
		PassDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "pass_duration_seconds",
				Help:      "Wall time of each dynamic-programming pass",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"pass"},
		),
		NodesProcessedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "nodes_processed_total",
				Help:      "Total number of tree nodes in successful runs",
			},
		),
		ActiveRuns: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "active_runs",
				Help:      "Number of engine runs in progress",
			},
		),
		BuildInfo: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "build_info",
				Help:      "Engine build information",
			},
			[]string{"version", "commit"},
		),
	}
	h.BuildInfo.WithLabelValues(buildinfo.Version, buildinfo.Commit).Set(1)
	return h
}

func (h *EngineHooks) OnRunStart(context.Context, observability.RunInfo) {
	h.ActiveRuns.Inc()
}

func (h *EngineHooks) OnPassComplete(_ context.Context, _ observability.RunInfo, pass string, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.PassDurationSeconds.WithLabelValues(pass).Observe(d.Seconds())
}

func (h *EngineHooks) OnRunComplete(_ context.Context, info observability.RunInfo, _ float64, d time.Duration, err error) {
	h.ActiveRuns.Dec()
	h.RunDurationSeconds.Observe(d.Seconds())
	if err != nil {
		h.RunsTotal.WithLabelValues(StatusError).Inc()
		code := string(bterrors.GetCode(err))
		if code == "" {
			code = string(bterrors.ErrCodeInternal)
		}
		h.ErrorsTotal.WithLabelValues(code).Inc()
		return
	}
	h.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	h.NodesProcessedTotal.Add(float64(info.Nodes))
}
