// Package observability provides hooks for instrumenting a placement run
// without adding a hard dependency on any specific metrics or tracing
// backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core solver dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStageHooks(&myStageHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run the engine
//	}
//
// The orchestrator calls hooks to emit events, for example at the start of
// each look-ahead legalization pass:
//
//	observability.Stage().OnStageStart(ctx, "lal", k)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Stage Hooks
// =============================================================================

// StageHooks receives events from the global-placement orchestrator as it
// cycles through quadratic solves, look-ahead legalization, and anchor
// growth.
type StageHooks interface {
	// OnStageStart fires when the orchestrator enters a named stage
	// ("quad", "lal", "check", "anchor", "stripe", "legalize") for a given
	// outer iteration.
	OnStageStart(ctx context.Context, stage string, iteration int)

	// OnStageComplete fires when a stage finishes, reporting the resulting
	// HPWL estimate (or NaN if the stage does not produce one) and err if
	// the stage failed.
	OnStageComplete(ctx context.Context, stage string, iteration int, hpwl float64, duration time.Duration, err error)

	// OnConverged fires once the orchestrator accepts a final placement.
	OnConverged(ctx context.Context, iterations int, finalHPWL float64, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the run cache.
type CacheHooks interface {
	// OnCacheHit records a cache hit for a given run key.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss for a given run key.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write and the size of the payload written.
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the conjugate-gradient solver, one call
// per axis solve.
type SolverHooks interface {
	// OnSolveStart records the start of a CG solve for one axis.
	OnSolveStart(ctx context.Context, axis string, n int)

	// OnSolveComplete records the outcome: iterations spent, the residual
	// norm reached, and whether tolerance was met before the cap.
	OnSolveComplete(ctx context.Context, axis string, iterations int, residual float64, converged bool, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStageHooks is a no-op implementation of StageHooks.
type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string, int)                                  {}
func (NoopStageHooks) OnStageComplete(context.Context, string, int, float64, time.Duration, error) {}
func (NoopStageHooks) OnConverged(context.Context, int, float64, time.Duration)                    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)         {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)        {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)    {}

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, string, int)                             {}
func (NoopSolverHooks) OnSolveComplete(context.Context, string, int, float64, bool, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	stageHooks  StageHooks  = NoopStageHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	solverHooks SolverHooks = NoopSolverHooks{}
	hooksMu     sync.RWMutex
)

// SetStageHooks registers custom orchestrator-stage hooks. Call once at
// startup before Run.
func SetStageHooks(h StageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stageHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup before
// any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSolverHooks registers custom CG-solver hooks.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// Stage returns the registered stage hooks.
func Stage() StageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stageHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Reset restores all hooks to their no-op defaults. Primarily useful for
// testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	stageHooks = NoopStageHooks{}
	cacheHooks = NoopCacheHooks{}
	solverHooks = NoopSolverHooks{}
}
