package netmodel

import (
	"math"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
)

// Axis selects which coordinate the system solves for.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// FreeSet maps movable block indices to and from a dense 0..N-1 free-variable
// ordering, used both to build the Matrix and to scatter its solution back
// onto blocks.
type FreeSet struct {
	BlockOf []int       // free index -> block index
	FreeOf  map[int]int // block index -> free index
}

// NewFreeSet builds the free-variable ordering from a model's movable
// indices (already sorted ascending by circuit.Model.MovableIndices).
func NewFreeSet(model circuit.Model) *FreeSet {
	movable := model.MovableIndices()
	fs := &FreeSet{
		BlockOf: movable,
		FreeOf:  make(map[int]int, len(movable)),
	}
	for k, b := range movable {
		fs.FreeOf[b] = k
	}
	return fs
}

// axisCoord returns a block's center coordinate along axis. The spring
// assembly in BuildSystem does not use it: springs are sized from pin
// positions, pin offsets included, read through model.Position.
func axisCoord(b *circuit.Block, axis Axis) float64 {
	if axis == AxisX {
		return b.CenterX()
	}
	return b.CenterY()
}

// Epsilon computes ε_w or ε_h: (1/epsilon_factor) times the average
// movable cell width (axis X) or height (axis Y).
func Epsilon(model circuit.Model, axis Axis, opts config.Options) float64 {
	movable := model.MovableIndices()
	if len(movable) == 0 {
		return 1.0
	}
	var sum float64
	for _, i := range movable {
		b := model.Block(i)
		if axis == AxisX {
			sum += b.Width()
		} else {
			sum += b.EffHeight()
		}
	}
	avg := sum / float64(len(movable))
	if opts.EpsilonFactor <= 0 {
		return avg
	}
	return avg / opts.EpsilonFactor
}

// BuildSystem assembles the sparse system for one axis under the net model
// selected by opts.NetModel. It reads current pin positions via
// model.Position and writes only into the returned Matrix; block state is
// untouched.
func BuildSystem(model circuit.Model, fs *FreeSet, axis Axis, opts config.Options) *Matrix {
	eps := Epsilon(model, axis, opts)
	m := NewMatrix(len(fs.BlockOf), 4)

	pos := func(p circuit.PinRef) (float64, float64) {
		return model.Position(p)
	}
	axisPos := func(p circuit.PinRef) float64 {
		x, y := pos(p)
		if axis == AxisX {
			return x
		}
		return y
	}

	for ni := 0; ni < model.NumNets(); ni++ {
		net := model.Net(ni)
		if net.NumPins() < 2 || net.Ignored(opts.NetIgnoreThreshold) {
			continue
		}
		switch opts.NetModel {
		case config.NetModelStar, config.NetModelStarHPWL:
			addStarNet(model, fs, net, axisPos, opts, m, eps, axis)
		default:
			addB2BOrHPWLNet(model, fs, net, axis, axisPos, opts, m, eps)
		}
	}
	return m
}

// addB2BOrHPWLNet implements both the B2B and plain-HPWL clique
// approximations: every pin connects to the two axis extremes. B2B weighs
// each spring by 2*netWeight/((p-1)*max(dist,eps)); HPWL uses the constant
// weight netWeight/(p-1).
func addB2BOrHPWLNet(model circuit.Model, fs *FreeSet, net *circuit.Net, axis Axis, axisPos func(circuit.PinRef) float64, opts config.Options, m *Matrix, eps float64) {
	e := net.ComputeExtremes(func(p circuit.PinRef) (float64, float64) { return model.Position(p) })
	var atMax, atMin int
	var vMax, vMin float64
	if axis == AxisX {
		atMax, atMin, vMax, vMin = e.MaxXAt, e.MinXAt, e.MaxX, e.MinX
	} else {
		atMax, atMin, vMax, vMin = e.MaxYAt, e.MinYAt, e.MaxY, e.MinY
	}

	invPMinus1 := net.InvPMinus1()
	pinMax := net.Pins[atMax]
	pinMin := net.Pins[atMin]

	for i, p := range net.Pins {
		if i != atMax {
			w := springWeight(opts.NetModel, net.Weight, invPMinus1, axisPos(p), vMax, eps)
			connect(model, fs, m, p, pinMax, w, axis)
		}
		if i != atMin {
			w := springWeight(opts.NetModel, net.Weight, invPMinus1, axisPos(p), vMin, eps)
			connect(model, fs, m, p, pinMin, w, axis)
		}
	}
}

func springWeight(netModel config.NetModel, weight, invPMinus1, v, extreme, eps float64) float64 {
	if netModel == config.NetModelHPWL {
		return weight * invPMinus1
	}
	dist := math.Abs(v - extreme)
	if dist < eps {
		dist = eps
	}
	return 2 * weight * invPMinus1 / dist
}

// addStarNet implements the Star and StarHPWL models: a virtual per-net
// center free variable, connected to every pin. For Star, weight uses the
// same 1/max(dist,eps) form as B2B but against the net's centroid rather
// than its extremes; StarHPWL uses the constant weight netWeight/p, a mix
// of the Star and HPWL weighting schemes.
//
// The center is eliminated analytically rather than allocated as an extra
// unknown: for a star of springs w_k from pins k to a free center c with no
// other springs on c, the stationary point has c = sum(w_k x_k)/sum(w_k),
// which substituted back into each pin's equation yields exactly a clique
// of pairwise springs w_i*w_j/sum(w_k) between every pair of pins. This
// keeps Matrix free-variable count equal to the movable-block count for
// every net model.
func addStarNet(model circuit.Model, fs *FreeSet, net *circuit.Net, axisPos func(circuit.PinRef) float64, opts config.Options, m *Matrix, eps float64, axis Axis) {
	p := len(net.Pins)
	weights := make([]float64, p)
	var sumW float64
	for i, pin := range net.Pins {
		x := axisPos(pin)
		var w float64
		if opts.NetModel == config.NetModelStarHPWL {
			w = net.Weight / float64(p)
		} else {
			centroid := starCentroid(axisPos, net.Pins)
			dist := math.Abs(x - centroid)
			if dist < eps {
				dist = eps
			}
			w = net.Weight / (float64(p) * dist)
		}
		weights[i] = w
		sumW += w
	}
	if sumW <= 0 {
		return
	}
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			wij := weights[i] * weights[j] / sumW
			connect(model, fs, m, net.Pins[i], net.Pins[j], wij, axis)
		}
	}
}

func starCentroid(axisPos func(circuit.PinRef) float64, pins []circuit.PinRef) float64 {
	var sum float64
	for _, p := range pins {
		sum += axisPos(p)
	}
	return sum / float64(len(pins))
}

// connect adds a spring of weight w between two pins' owning blocks,
// routing to AddSpring or AddAnchor depending on how many endpoints are
// movable free variables. Springs between two fixed blocks contribute
// nothing to the free system and are dropped.
func connect(model circuit.Model, fs *FreeSet, m *Matrix, pa, pb circuit.PinRef, w float64, axis Axis) {
	if w <= 0 {
		return
	}
	fa, aMovable := fs.FreeOf[pa.BlockIndex]
	fb, bMovable := fs.FreeOf[pb.BlockIndex]

	switch {
	case aMovable && bMovable:
		m.AddSpring(fa, fb, w)
	case aMovable && !bMovable:
		m.AddAnchor(fa, pinAxisValue(model.Block(pb.BlockIndex), pb, axis), w)
	case !aMovable && bMovable:
		m.AddAnchor(fb, pinAxisValue(model.Block(pa.BlockIndex), pa, axis), w)
	}
}

func pinAxisValue(b *circuit.Block, p circuit.PinRef, axis Axis) float64 {
	x, y := b.PinPosition(p.PinIndex)
	if axis == AxisX {
		return x
	}
	return y
}
