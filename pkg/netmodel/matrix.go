// Package netmodel builds the per-axis sparse linear systems the quadratic
// global placer solves: the bound-to-bound (B2B), Star, HPWL, and StarHPWL
// net models, each assembled as a symmetric positive-semidefinite Laplacian
// system Ax = b over the movable blocks' reference coordinates.
package netmodel

import "math"

// Matrix is a symmetric Laplacian-style sparse system assembled one spring
// at a time, accumulating repeated (i,j) edges from multiple nets into one
// matrix entry. Row i corresponds to the i-th movable block in the
// caller's free-variable ordering; anchored/fixed contributions fold
// directly into RHS and Diag.
type Matrix struct {
	N    int
	Diag []float64
	Off  []map[int]float64
	RHS  []float64
}

// NewMatrix allocates a Matrix over n free variables, approximating
// expected non-zeros per row by preallocating maps sized by avgDegree.
func NewMatrix(n int, avgDegree int) *Matrix {
	off := make([]map[int]float64, n)
	for i := range off {
		off[i] = make(map[int]float64, avgDegree)
	}
	return &Matrix{
		N:    n,
		Diag: make([]float64, n),
		Off:  off,
		RHS:  make([]float64, n),
	}
}

// AddSpring accumulates a spring of weight w between two free variables i
// and j, contributing to both rows symmetrically. AddSpring is a no-op for
// non-positive or non-finite weights (guards against the 1/max(dist,eps)
// blowing up on degenerate coincident pins).
func (m *Matrix) AddSpring(i, j int, w float64) {
	if i == j || w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return
	}
	m.Diag[i] += w
	m.Diag[j] += w
	m.Off[i][j] += w
	m.Off[j][i] += w
}

// AddAnchor pins free variable i toward a fixed target position with spring
// weight w — used both for movable-to-fixed-block springs and for the
// anchor pseudo-net manager's movable-to-anchor springs.
func (m *Matrix) AddAnchor(i int, target, w float64) {
	if w <= 0 {
		return
	}
	m.Diag[i] += w
	m.RHS[i] += w * target
}

// Apply computes y = A x, the operator cgsolve.Solve needs.
func (m *Matrix) Apply(x []float64) []float64 {
	y := make([]float64, m.N)
	for i := 0; i < m.N; i++ {
		v := m.Diag[i] * x[i]
		for j, w := range m.Off[i] {
			v -= w * x[j]
		}
		y[i] = v
	}
	return y
}

// IsSymmetric reports whether every off-diagonal entry (i,j) matches (j,i),
// a property its testable invariant 6 requires of Ax and Ay.
func (m *Matrix) IsSymmetric(tol float64) bool {
	for i, row := range m.Off {
		for j, w := range row {
			if other, ok := m.Off[j][i]; !ok || absF(other-w) > tol {
				return false
			}
		}
	}
	return true
}

// HasPositiveDiagonal reports whether every diagonal entry is non-negative,
// the other half of invariant 6. Rows with no springs at all (isolated free
// variables) have a zero diagonal, which is degenerate but not disallowed;
// cgsolve treats them as already at rest.
func (m *Matrix) HasPositiveDiagonal() bool {
	for _, d := range m.Diag {
		if d < 0 {
			return false
		}
	}
	return true
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
