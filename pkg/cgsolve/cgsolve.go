// Package cgsolve implements the conjugate-gradient adapter used to solve
// the symmetric positive-semidefinite systems netmodel builds.
package cgsolve

import (
	"math"

	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/errors"
)

// Operator applies a symmetric positive-semidefinite matrix to a vector.
// netmodel.Matrix implements this.
type Operator interface {
	Apply(x []float64) []float64
}

// Result reports the outcome of a Solve call.
type Result struct {
	X          []float64
	Iterations int
	Residual   float64
	Converged  bool
}

// Solve runs conjugate gradient on A x = b starting from x0, running in
// batches of opts.CGIteration inner steps up to opts.CGIterationMaxNum total
// steps or until the residual norm falls below opts.CGTolerance.
//
// If the residual fails to improve on the best seen so far for
// divergeWindow consecutive steps, Solve returns a NumericError together
// with a Result holding the last good iterate: diverging inner iterations
// break out early rather than run to opts.CGIterationMaxNum.
func Solve(a Operator, b, x0 []float64, opts config.Options) (Result, error) {
	const divergeWindow = 5

	x := append([]float64(nil), x0...)
	r := sub(b, a.Apply(x))
	p := append([]float64(nil), r...)
	rsOld := dot(r, r)

	bestX := append([]float64(nil), x...)
	bestResidual := math.Sqrt(rsOld)
	growCount := 0
	iterations := 0

	for iterations < opts.CGIterationMaxNum {
		if bestResidual < opts.CGTolerance {
			return Result{X: bestX, Iterations: iterations, Residual: bestResidual, Converged: true}, nil
		}
		for step := 0; step < opts.CGIteration && iterations < opts.CGIterationMaxNum; step++ {
			ap := a.Apply(p)
			denom := dot(p, ap)
			if denom == 0 {
				return Result{X: bestX, Iterations: iterations, Residual: bestResidual, Converged: bestResidual < opts.CGTolerance}, nil
			}
			alpha := rsOld / denom
			axpy(x, alpha, p)
			axpy(r, -alpha, ap)

			rsNew := dot(r, r)
			residual := math.Sqrt(rsNew)
			iterations++

			if residual < bestResidual {
				bestResidual = residual
				bestX = append(bestX[:0], x...)
				growCount = 0
			} else {
				growCount++
				if growCount >= divergeWindow {
					return Result{X: bestX, Iterations: iterations, Residual: bestResidual, Converged: false},
						errors.New(errors.NumericError, "conjugate gradient residual grew for %d consecutive steps at iteration %d", divergeWindow, iterations)
				}
			}

			if residual < opts.CGTolerance {
				return Result{X: x, Iterations: iterations, Residual: residual, Converged: true}, nil
			}

			beta := rsNew / rsOld
			for i := range p {
				p[i] = r[i] + beta*p[i]
			}
			rsOld = rsNew
		}
	}
	return Result{X: bestX, Iterations: iterations, Residual: bestResidual, Converged: bestResidual < opts.CGTolerance}, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func axpy(x []float64, alpha float64, p []float64) {
	for i := range x {
		x[i] += alpha * p[i]
	}
}
