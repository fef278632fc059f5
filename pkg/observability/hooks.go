// Package observability provides hooks for metrics and tracing of engine runs.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup and receive events about each run and each of its passes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Ready-made backends live in the prom (Prometheus) and otel
// (OpenTelemetry) subpackages. Use [Multi] to register more than one.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(observability.Multi(
//	        prom.NewEngineHooks(prometheus.DefaultRegisterer),
//	        otel.NewEngineHooks(tracer),
//	    ))
//	    // ... run engine
//	}
//
// The engine emits events:
//
//	observability.Engine().OnRunStart(ctx, info)
//	// ... upward pass ...
//	observability.Engine().OnPassComplete(ctx, info, PassUpward, duration, err)
//	// ... downward pass, posterior ...
//	observability.Engine().OnRunComplete(ctx, info, logLikelihood, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Pass names reported to [EngineHooks.OnPassComplete].
const (
	PassUpward    = "upward"
	PassDownward  = "downward"
	PassPosterior = "posterior"
)

// RunInfo identifies one engine run.
type RunInfo struct {
	RunID    string
	Nodes    int
	GridSize int
	Workers  int
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the branch-time engine.
// Implementations must be safe for concurrent use: independent runs may
// emit events at the same time.
type EngineHooks interface {
	// OnRunStart is called after inputs are validated, before the upward pass.
	OnRunStart(ctx context.Context, info RunInfo)

	// OnPassComplete is called when a pass finishes or fails.
	OnPassComplete(ctx context.Context, info RunInfo, pass string, duration time.Duration, err error)

	// OnRunComplete is called once per started run. logLikelihood is NaN
	// when err is non-nil.
	OnRunComplete(ctx context.Context, info RunInfo, logLikelihood float64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRunStart(context.Context, RunInfo) {}
func (NoopEngineHooks) OnPassComplete(context.Context, RunInfo, string, time.Duration, error) {
}
func (NoopEngineHooks) OnRunComplete(context.Context, RunInfo, float64, time.Duration, error) {
}

// =============================================================================
// Fan-out
// =============================================================================

type multiEngineHooks []EngineHooks

// Multi returns hooks that forward every event to each of hs in order.
// Nil entries are skipped.
func Multi(hs ...EngineHooks) EngineHooks {
	var m multiEngineHooks
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multiEngineHooks) OnRunStart(ctx context.Context, info RunInfo) {
	for _, h := range m {
		h.OnRunStart(ctx, info)
	}
}

func (m multiEngineHooks) OnPassComplete(ctx context.Context, info RunInfo, pass string, d time.Duration, err error) {
	for _, h := range m {
		h.OnPassComplete(ctx, info, pass, d, err)
	}
}

func (m multiEngineHooks) OnRunComplete(ctx context.Context, info RunInfo, logL float64, d time.Duration, err error) {
	for _, h := range m {
		h.OnRunComplete(ctx, info, logL, d, err)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any runs.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
}
