package globalplace

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/opendali/placer/pkg/cache"
	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/errors"
	"github.com/opendali/placer/pkg/recorder"
)

func testOpts() config.Options {
	var o config.Options
	_ = o.ValidateAndSetDefaults()
	o.MaxIter = 40
	o.MinIter = 2
	return o
}

// twoBlockModel builds the S2-style scenario: two movable cells joined by a
// single two-pin net, expected to converge with |A.X - B.X| within a few
// grid units once the net model pulls them together.
func twoBlockModel(t *testing.T) circuit.Model {
	t.Helper()
	bt := &circuit.BlockType{Name: "CELL", Width: 2, Height: 2}
	region := circuit.Region{Left: 0, Right: 100, Bottom: 0, Top: 100}
	m := circuit.NewInMemoryModel(region, circuit.Tech{RowHeight: 2, MaxPlugDistance: 10})

	a, err := m.AddBlock(circuit.Block{Type: bt, LLX: 5, LLY: 5, Status: circuit.StatusUnplaced})
	if err != nil {
		t.Fatalf("AddBlock a: %v", err)
	}
	b, err := m.AddBlock(circuit.Block{Type: bt, LLX: 80, LLY: 80, Status: circuit.StatusUnplaced})
	if err != nil {
		t.Fatalf("AddBlock b: %v", err)
	}
	if _, err := m.AddNet(circuit.Net{Weight: 1, Pins: []circuit.PinRef{{BlockIndex: a}, {BlockIndex: b}}}); err != nil {
		t.Fatalf("AddNet: %v", err)
	}
	return m
}

func TestRunConvergesTwoBlockNet(t *testing.T) {
	o := New(testOpts(), nil)
	model := twoBlockModel(t)

	report, err := o.Run(context.Background(), model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Converged {
		t.Errorf("expected convergence, got report %+v", report)
	}
	if len(report.HPWLSeries) == 0 {
		t.Error("expected a non-empty HPWL series")
	}

	dx := model.Block(0).CenterX() - model.Block(1).CenterX()
	if dx < 0 {
		dx = -dx
	}
	if dx > 20 {
		t.Errorf("expected connected blocks to be pulled together, got |dx|=%v", dx)
	}
}

func TestRunRejectsOversizedBlock(t *testing.T) {
	bt := &circuit.BlockType{Name: "HUGE", Width: 1000, Height: 2}
	region := circuit.Region{Left: 0, Right: 100, Bottom: 0, Top: 100}
	m := circuit.NewInMemoryModel(region, circuit.Tech{RowHeight: 2, MaxPlugDistance: 10})
	if _, err := m.AddBlock(circuit.Block{Type: bt, Status: circuit.StatusUnplaced}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	o := New(testOpts(), nil)
	_, err := o.Run(context.Background(), m)
	if !errors.Is(err, errors.CapacityError) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
}

func TestRunReportsConvergenceFailureWhenIterationsExhausted(t *testing.T) {
	opts := testOpts()
	opts.MaxIter = 1
	opts.MinIter = 1
	// A convergence window longer than MaxIter can never be satisfied.
	opts.ConvergenceWindow = 5

	o := New(opts, nil)
	model := twoBlockModel(t)

	_, err := o.Run(context.Background(), model)
	if err == nil {
		t.Fatal("expected a convergence failure, got nil error")
	}
	if !errors.Is(err, errors.ConvergenceError) {
		t.Fatalf("expected ConvergenceError, got %v", err)
	}
	var cf *errors.ConvergenceFailure
	if !stderrors.As(err, &cf) {
		t.Fatalf("expected *errors.ConvergenceFailure, got %T", err)
	}
}

func TestRunUsesCacheOnSecondInvocation(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	opts := testOpts()

	first := New(opts, nil, WithCache(c))
	m1 := twoBlockModel(t)
	report1, err := first.Run(context.Background(), m1)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}

	second := New(opts, nil, WithCache(c))
	m2 := twoBlockModel(t)
	report2, err := second.Run(context.Background(), m2)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if report2.FinalHPWL != report1.FinalHPWL || report2.Iterations != report1.Iterations {
		t.Errorf("expected cached report to match original: got %+v, want %+v", report2, report1)
	}
	if m2.Block(0).CenterX() != m1.Block(0).CenterX() || m2.Block(0).CenterY() != m1.Block(0).CenterY() {
		t.Error("expected cache hit to restore identical block coordinates")
	}
}

type fakeRecorder struct {
	reports []recorder.RunReport
}

func (f *fakeRecorder) Record(_ context.Context, report recorder.RunReport) error {
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeRecorder) Close(context.Context) error { return nil }

func TestRunRecordsSuccessAndFailure(t *testing.T) {
	rec := &fakeRecorder{}
	o := New(testOpts(), nil, WithRecorder(rec))
	model := twoBlockModel(t)

	if _, err := o.Run(context.Background(), model); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.reports) != 1 {
		t.Fatalf("expected 1 recorded report, got %d", len(rec.reports))
	}
	if rec.reports[0].ErrorCode != "" {
		t.Errorf("expected empty ErrorCode on success, got %q", rec.reports[0].ErrorCode)
	}

	opts := testOpts()
	opts.MaxIter = 1
	opts.MinIter = 1
	failing := New(opts, nil, WithRecorder(rec))
	if _, err := failing.Run(context.Background(), twoBlockModel(t)); err == nil {
		t.Fatal("expected convergence failure")
	}
	if len(rec.reports) != 2 {
		t.Fatalf("expected 2 recorded reports, got %d", len(rec.reports))
	}
	if rec.reports[1].ErrorCode != string(errors.ConvergenceError) {
		t.Errorf("ErrorCode = %q, want %q", rec.reports[1].ErrorCode, errors.ConvergenceError)
	}
}

func TestConvergesDetectsOscillation(t *testing.T) {
	opts := testOpts()
	opts.ConvergenceWindow = 4
	opts.PolarConvergeCriterion = 0.08
	opts.SimplLALConvergeCriterion = 0.005

	// Alternating small deltas within the oscillation band but above the
	// flat-convergence band.
	series := []float64{100, 106, 100, 106, 100, 106}
	if !converges(series, opts) {
		t.Error("expected oscillating series to be detected as converged")
	}
}

func TestConvergesRejectsDivergingSeries(t *testing.T) {
	opts := testOpts()
	series := []float64{100, 120, 150, 200, 300, 500}
	if converges(series, opts) {
		t.Error("expected diverging series to not converge")
	}
}
