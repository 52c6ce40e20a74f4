// Package anchor implements the anchor pseudo-net manager :
// after each look-ahead legalization pass, the resulting positions become
// per-cell anchors that pull the next quadratic solve away from pure
// wirelength minimization and toward the legalized layout, with the pull
// strength α growing across outer iterations.
package anchor

import (
	"math"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/netmodel"
)

// Manager tracks captured anchor positions and the current α.
type Manager struct {
	alpha   float64
	step    float64
	max     float64
	targetX []float64 // indexed by block index
	targetY []float64
	set     []bool
}

// New creates a Manager with α initialized to 0.
func New(model circuit.Model, opts config.Options) *Manager {
	n := model.NumBlocks()
	return &Manager{
		alpha:   0,
		step:    opts.AlphaStep,
		max:     opts.AlphaMax,
		targetX: make([]float64, n),
		targetY: make([]float64, n),
		set:     make([]bool, n),
	}
}

// Capture records the current position of every movable block as its
// anchor target (x̂, ŷ), then grows α by one step, capped at AlphaMax.
func (mgr *Manager) Capture(model circuit.Model) {
	for _, i := range model.MovableIndices() {
		b := model.Block(i)
		mgr.targetX[i] = b.CenterX()
		mgr.targetY[i] = b.CenterY()
		mgr.set[i] = true
	}
	mgr.alpha += mgr.step
	if mgr.alpha > mgr.max {
		mgr.alpha = mgr.max
	}
}

// Alpha returns the current anchor spring scale.
func (mgr *Manager) Alpha() float64 { return mgr.alpha }

// AddSprings adds an anchor spring for every free variable that has a
// captured target, with weight α·w_i where w_i = 1/max(|x_i - x̂_i|, ε).
func (mgr *Manager) AddSprings(model circuit.Model, fs *netmodel.FreeSet, m *netmodel.Matrix, axis netmodel.Axis, eps float64) {
	if mgr.alpha <= 0 {
		return
	}
	for free, blockIdx := range fs.BlockOf {
		if !mgr.set[blockIdx] {
			continue
		}
		b := model.Block(blockIdx)
		var current, target float64
		if axis == netmodel.AxisX {
			current, target = b.CenterX(), mgr.targetX[blockIdx]
		} else {
			current, target = b.CenterY(), mgr.targetY[blockIdx]
		}
		dist := math.Abs(current - target)
		if dist < eps {
			dist = eps
		}
		w := mgr.alpha / dist
		m.AddAnchor(free, target, w)
	}
}
