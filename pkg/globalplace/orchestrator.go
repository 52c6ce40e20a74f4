// Package globalplace implements the global placer orchestrator: the state
// machine that alternates quadratic wirelength solves with look-ahead
// legalization and anchor pseudo-nets until the HPWL series converges or an
// iteration budget is exhausted.
package globalplace

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/opendali/placer/pkg/anchor"
	"github.com/opendali/placer/pkg/cache"
	"github.com/opendali/placer/pkg/cgsolve"
	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/errors"
	"github.com/opendali/placer/pkg/lal"
	"github.com/opendali/placer/pkg/netmodel"
	"github.com/opendali/placer/pkg/observability"
	"github.com/opendali/placer/pkg/recorder"
)

// clampEpsilon keeps solved coordinates strictly inside the region: the
// orchestrator clamps entries into [region_lo + ε, region_hi − ε].
const clampEpsilon = 1e-6

// Orchestrator drives one placement run over a circuit.Model.
type Orchestrator struct {
	opts     config.Options
	log      *log.Logger
	cache    cache.Cache
	recorder recorder.Recorder
}

// Option configures optional Orchestrator collaborators.
type Option func(*Orchestrator)

// WithCache attaches a content-addressed run cache. Default: cache.NewNullCache().
func WithCache(c cache.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithRecorder attaches a run-statistics recorder. Default: recorder.NullRecorder.
func WithRecorder(r recorder.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// New builds an Orchestrator with the given options and logger. A nil
// logger defaults to a discard logger (log level travels through
// configuration, never a package-level global).
func New(opts config.Options, logger *log.Logger, opt ...Option) *Orchestrator {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	o := &Orchestrator{opts: opts, log: logger, cache: cache.NewNullCache(), recorder: recorder.NullRecorder{}}
	for _, fn := range opt {
		fn(o)
	}
	return o
}

// placementRunPrefix namespaces every key this orchestrator writes, so a
// shared cache.RedisCache can hold entries from other tools without
// collision.
const placementRunPrefix = "placement-run"

// snapshot is the identity of a placement run: change any field and the
// run must be re-solved rather than served from cache.
type snapshot struct {
	Blocks []circuit.Block `json:"blocks"`
	Nets   []circuit.Net   `json:"nets"`
	Opts   config.Options  `json:"opts"`
}

// cacheKey delegates to cache.RunKey so key construction lives with the
// rest of the cache package's hashing logic rather than being duplicated
// here.
func (o *Orchestrator) cacheKey(model circuit.Model) string {
	snap := snapshot{Opts: o.opts}
	for i := 0; i < model.NumBlocks(); i++ {
		snap.Blocks = append(snap.Blocks, *model.Block(i))
	}
	for i := 0; i < model.NumNets(); i++ {
		snap.Nets = append(snap.Nets, *model.Net(i))
	}
	return cache.RunKey(placementRunPrefix, snap)
}

// cachedResult is the payload stored under a cache hit: just enough to
// restore final coordinates and status without re-solving.
type cachedResult struct {
	LLX    []float64       `json:"llx"`
	LLY    []float64       `json:"lly"`
	Status []circuit.Status `json:"status"`
	Report Report          `json:"report"`
}

// Report summarizes the outcome of Run for callers and the C14 run recorder.
type Report struct {
	Iterations int
	HPWLSeries []float64
	FinalHPWL  float64
	Converged  bool
}

// Run drives the INIT → QUAD → LAL → CHECK → ANCHOR loop to convergence or
// opts.MaxIter. Cancellation is checked once per outer iteration, never
// mid-iteration.
func (o *Orchestrator) Run(ctx context.Context, model circuit.Model) (Report, error) {
	if err := checkTech(model); err != nil {
		return Report{}, err
	}
	if err := checkCapacity(model); err != nil {
		return Report{}, err
	}

	key := o.cacheKey(model)
	if data, hit, err := o.cache.Get(ctx, key); err == nil && hit {
		var cached cachedResult
		if err := json.Unmarshal(data, &cached); err == nil && len(cached.LLX) == model.NumBlocks() {
			observability.Cache().OnCacheHit(ctx, key)
			applyCachedResult(model, cached)
			return cached.Report, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, key)

	report, err := o.run(ctx, model)
	if err == nil {
		o.saveToCache(ctx, key, model, report)
	}

	runID := recorder.NewRunID()
	errorCode := ""
	if err != nil {
		errorCode = string(errors.GetCode(err))
	}
	_ = o.recorder.Record(ctx, recorder.RunReport{
		RunID:      runID,
		Iterations: report.Iterations,
		HPWLSeries: report.HPWLSeries,
		Converged:  report.Converged,
		FinalHPWL:  report.FinalHPWL,
		ErrorCode:  errorCode,
	})

	return report, err
}

func applyCachedResult(model circuit.Model, cached cachedResult) {
	for i := 0; i < model.NumBlocks(); i++ {
		b := model.Block(i)
		b.LLX, b.LLY, b.Status = cached.LLX[i], cached.LLY[i], cached.Status[i]
	}
}

func (o *Orchestrator) saveToCache(ctx context.Context, key string, model circuit.Model, report Report) {
	cached := cachedResult{Report: report}
	for i := 0; i < model.NumBlocks(); i++ {
		b := model.Block(i)
		cached.LLX = append(cached.LLX, b.LLX)
		cached.LLY = append(cached.LLY, b.LLY)
		cached.Status = append(cached.Status, b.Status)
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, key, data, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
}

// run performs the actual INIT → QUAD → LAL → CHECK → ANCHOR loop, uncached.
func (o *Orchestrator) run(ctx context.Context, model circuit.Model) (Report, error) {
	o.initPositions(model)

	legalizer := lal.New(model, o.opts, o.log)
	mgr := anchor.New(model, o.opts)

	if err := o.solveQuadratic(model, nil); err != nil {
		return Report{}, err
	}

	var series []float64
	converged := false

	for k := 0; k < o.opts.MaxIter; k++ {
		if err := ctx.Err(); err != nil {
			return Report{Iterations: k, HPWLSeries: series}, err
		}

		observability.Stage().OnStageStart(ctx, "lal", k)
		if err := legalizer.Run(model); err != nil {
			return Report{Iterations: k, HPWLSeries: series}, err
		}

		hpwl := lal.HPWLAfter(model, o.opts.NetIgnoreThreshold)
		series = append(series, hpwl)
		o.log.Info("outer iteration", "k", k, "hpwl", hpwl)

		if k >= o.opts.MinIter && converges(series, o.opts) {
			converged = true
			break
		}

		mgr.Capture(model)
		if err := o.solveQuadratic(model, mgr); err != nil {
			return Report{Iterations: k, HPWLSeries: series}, err
		}
	}

	report := Report{
		Iterations: len(series),
		HPWLSeries: series,
		Converged:  converged,
	}
	if len(series) > 0 {
		report.FinalHPWL = series[len(series)-1]
	}
	if !converged {
		best := report.FinalHPWL
		for _, h := range series {
			if h < best {
				best = h
			}
		}
		return report, errors.NewConvergenceFailure(best, "outer iterations exhausted at %d without meeting convergence criteria", o.opts.MaxIter)
	}
	observability.Stage().OnConverged(ctx, report.Iterations, report.FinalHPWL, 0)
	return report, nil
}

// checkTech rejects a technology record the row builder and tap inserter
// cannot legalize against: both row_height and max_plug_distance must be
// positive, surfaced here before any solve rather than silently
// substituted downstream in pkg/stripe or pkg/welltap.
func checkTech(model circuit.Model) error {
	tech := model.Tech()
	if tech.RowHeight <= 0 {
		return errors.New(errors.ConfigError, "row_height must be positive, got %v", tech.RowHeight)
	}
	if tech.MaxPlugDistance <= 0 {
		return errors.New(errors.ConfigError, "max_plug_distance must be positive, got %v", tech.MaxPlugDistance)
	}
	return nil
}

// checkCapacity implements its CapacityError boundary check: total
// movable cell area must not exceed region area, and no movable cell may
// exceed the region's own dimensions.
func checkCapacity(model circuit.Model) error {
	region := model.Region()
	if !region.Valid() {
		return errors.New(errors.ConfigError, "region is degenerate: right=%d left=%d top=%d bottom=%d", region.Right, region.Left, region.Top, region.Bottom)
	}
	var totalArea float64
	for _, i := range model.MovableIndices() {
		b := model.Block(i)
		if b.Width() > region.Width() || b.EffHeight() > region.Height() {
			return errors.New(errors.CapacityError, "block %d dimensions (%v x %v) exceed region dimensions (%v x %v)", i, b.Width(), b.EffHeight(), region.Width(), region.Height())
		}
		totalArea += b.Rect().Area()
	}
	if totalArea > region.Area() {
		return errors.New(errors.CapacityError, "total movable cell area %.2f exceeds region area %.2f", totalArea, region.Area())
	}
	return nil
}

// initPositions performs the INIT step: random or center initial
// coordinates, with a fixed seed for determinism.
func (o *Orchestrator) initPositions(model circuit.Model) {
	region := model.Region()
	cx := (float64(region.Left) + float64(region.Right)) / 2
	cy := (float64(region.Bottom) + float64(region.Top)) / 2

	var rng *rand.Rand
	if o.opts.RandomInit {
		rng = rand.New(rand.NewSource(o.opts.RandomSeed))
	}

	for _, i := range model.MovableIndices() {
		b := model.Block(i)
		var x, y float64
		if rng != nil {
			x = float64(region.Left) + rng.Float64()*region.Width()
			y = float64(region.Bottom) + rng.Float64()*region.Height()
		} else {
			x, y = cx, cy
		}
		b.LLX = x - b.Width()/2
		b.LLY = y - b.EffHeight()/2
	}
}

// solveQuadratic rebuilds and re-solves the net model repeatedly until the
// change in HPWL is below net_model_update_stop_criterion for three
// consecutive passes, or b2b_update_max_iteration is reached. If mgr is
// non-nil, anchor pseudo-net springs are added to each
// axis system, implementing the ANCHOR step; if mgr is nil, this is the
// pure-wirelength QUAD step.
func (o *Orchestrator) solveQuadratic(model circuit.Model, mgr *anchor.Manager) error {
	const requiredStableStreak = 3
	stable := 0
	prevHPWL := math.Inf(1)

	for pass := 0; pass < o.opts.B2BUpdateMaxIteration; pass++ {
		fs := netmodel.NewFreeSet(model)
		if len(fs.BlockOf) == 0 {
			return nil
		}

		for _, axis := range []netmodel.Axis{netmodel.AxisX, netmodel.AxisY} {
			eps := netmodel.Epsilon(model, axis, o.opts)
			mat := netmodel.BuildSystem(model, fs, axis, o.opts)
			if mgr != nil {
				mgr.AddSprings(model, fs, mat, axis, eps)
			}
			x0 := currentAxisValues(model, fs, axis)
			res, err := cgsolve.Solve(mat, mat.RHS, x0, o.opts)
			if err != nil {
				// Local recovery: diverging inner iterations break out
				// early and fall back to the previous iterate.
				if errors.Is(err, errors.NumericError) {
					o.log.Warn("cg solve diverged, keeping previous iterate", "axis", axis)
					continue
				}
				return err
			}
			writeBack(model, fs, axis, res.X)
		}

		hpwl := lal.HPWLAfter(model, o.opts.NetIgnoreThreshold)
		delta := math.Abs(hpwl-prevHPWL) / math.Max(prevHPWL, 1)
		prevHPWL = hpwl
		if delta < o.opts.NetModelUpdateStopCriterion {
			stable++
			if stable >= requiredStableStreak {
				break
			}
		} else {
			stable = 0
		}
	}
	return nil
}

func currentAxisValues(model circuit.Model, fs *netmodel.FreeSet, axis netmodel.Axis) []float64 {
	out := make([]float64, len(fs.BlockOf))
	for k, blockIdx := range fs.BlockOf {
		b := model.Block(blockIdx)
		if axis == netmodel.AxisX {
			out[k] = b.CenterX()
		} else {
			out[k] = b.CenterY()
		}
	}
	return out
}

func writeBack(model circuit.Model, fs *netmodel.FreeSet, axis netmodel.Axis, x []float64) {
	region := model.Region()
	lo, hi := float64(region.Left), float64(region.Right)
	if axis == netmodel.AxisY {
		lo, hi = float64(region.Bottom), float64(region.Top)
	}
	for k, blockIdx := range fs.BlockOf {
		b := model.Block(blockIdx)
		v := clamp(x[k], lo+clampEpsilon, hi-clampEpsilon)
		if axis == netmodel.AxisX {
			b.LLX = v - b.Width()/2
		} else {
			b.LLY = v - b.EffHeight()/2
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// converges implements its CHECK step: the series converges if the
// last `window` fractional deltas are all below simpl_LAL_converge_criterion,
// or oscillates if consecutive deltas alternate sign while staying within
// polar_converge_criterion.
func converges(series []float64, opts config.Options) bool {
	window := opts.ConvergenceWindow
	if len(series) < window+1 {
		return false
	}
	deltas := make([]float64, window)
	for i := 0; i < window; i++ {
		idx := len(series) - window + i
		prev := series[idx-1]
		if prev == 0 {
			prev = 1
		}
		deltas[i] = (series[idx] - series[idx-1]) / prev
	}

	allSmall := true
	for _, d := range deltas {
		if math.Abs(d) >= opts.SimplLALConvergeCriterion {
			allSmall = false
			break
		}
	}
	if allSmall {
		return true
	}

	oscillating := true
	for i := 1; i < len(deltas); i++ {
		if math.Abs(deltas[i]) >= opts.PolarConvergeCriterion {
			oscillating = false
			break
		}
		if (deltas[i] > 0) == (deltas[i-1] > 0) {
			oscillating = false
			break
		}
	}
	return oscillating
}
