package cgsolve

import (
	"math"
	"testing"

	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/errors"
)

// diagOperator is a trivial diagonal SPD operator for testing convergence.
type diagOperator struct{ d []float64 }

func (o diagOperator) Apply(x []float64) []float64 {
	y := make([]float64, len(x))
	for i := range x {
		y[i] = o.d[i] * x[i]
	}
	return y
}

func defaultOpts(t *testing.T) config.Options {
	t.Helper()
	var opts config.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	opts.CGTolerance = 1e-9
	return opts
}

func TestSolveConvergesOnDiagonalSystem(t *testing.T) {
	a := diagOperator{d: []float64{2, 4}}
	b := []float64{4, 8}
	x0 := []float64{0, 0}
	opts := defaultOpts(t)

	res, err := Solve(a, b, x0, opts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	if math.Abs(res.X[0]-2) > 1e-6 || math.Abs(res.X[1]-2) > 1e-6 {
		t.Errorf("X = %v, want [2 2]", res.X)
	}
}

// divergingOperator is the non-symmetric rotation-scaling matrix
// [[1 -2] [2 1]]. Started from x0 = 0 with b = (1, 0), the CG residual grows
// on every step (2, 3.58, 5.21, 6.85, 8.49), forcing Solve's divergence
// detector to trip.
type divergingOperator struct{}

func (divergingOperator) Apply(x []float64) []float64 {
	return []float64{x[0] - 2*x[1], 2*x[0] + x[1]}
}

func TestSolveDetectsDivergence(t *testing.T) {
	a := divergingOperator{}
	b := []float64{1, 0}
	x0 := []float64{0, 0}
	opts := defaultOpts(t)
	opts.CGIterationMaxNum = 1000

	_, err := Solve(a, b, x0, opts)
	if err == nil {
		t.Fatal("expected NumericError on divergence")
	}
	if !errors.Is(err, errors.NumericError) {
		t.Errorf("expected NumericError, got %v", err)
	}
}

func TestSolveRespectsIterationCap(t *testing.T) {
	a := diagOperator{d: []float64{1e-12}}
	b := []float64{1}
	x0 := []float64{0}
	opts := defaultOpts(t)
	opts.CGIterationMaxNum = 3
	opts.CGIteration = 1
	opts.CGTolerance = 0 // never satisfied except numerically exact

	res, _ := Solve(a, b, x0, opts)
	if res.Iterations > opts.CGIterationMaxNum {
		t.Errorf("Iterations = %d, want <= %d", res.Iterations, opts.CGIterationMaxNum)
	}
}
