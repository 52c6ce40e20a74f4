package circuit

import "math"

// PinRef identifies one endpoint of a net: a (block index, pin index) pair,
// carried by value rather than via a back-pointer from pin to BlockType.
type PinRef struct {
	BlockIndex int
	PinIndex   int
}

// Net is a hyperedge connecting two or more block pins.
type Net struct {
	Index   int
	Weight  float64
	Pins    []PinRef
}

// NumPins returns the pin count p.
func (n *Net) NumPins() int { return len(n.Pins) }

// InvPMinus1 returns 1/(p-1), the factor its B2B spring weight uses.
// Returns 0 for degenerate nets with fewer than 2 pins.
func (n *Net) InvPMinus1() float64 {
	if len(n.Pins) < 2 {
		return 0
	}
	return 1 / float64(len(n.Pins)-1)
}

// Ignored reports whether this net exceeds net_ignore_threshold and should
// be skipped by both the quadratic solver and local-reorder cost.
func (n *Net) Ignored(threshold int) bool {
	return len(n.Pins) > threshold
}

// PositionFunc resolves a pin reference to absolute coordinates. The netmodel
// and welltap packages pass a closure bound to the current block positions
// rather than netmodel importing circuit.Model directly, keeping Net free of
// any placement-state dependency.
type PositionFunc func(PinRef) (x, y float64)

// Extremes holds a net's bounding-box pin indices and coordinates along
// both axes: the cached max/min pin indices along x and y.
type Extremes struct {
	MinXAt, MaxXAt int // index into Pins
	MinX, MaxX     float64
	MinYAt, MaxYAt int
	MinY, MaxY     float64
}

// ComputeExtremes scans all pins once to find the bounding-box extremes used
// by the B2B net model.
func (n *Net) ComputeExtremes(pos PositionFunc) Extremes {
	var e Extremes
	if len(n.Pins) == 0 {
		return e
	}
	e.MinX, e.MaxX = math.Inf(1), math.Inf(-1)
	e.MinY, e.MaxY = math.Inf(1), math.Inf(-1)
	for i, p := range n.Pins {
		x, y := pos(p)
		if x < e.MinX {
			e.MinX, e.MinXAt = x, i
		}
		if x > e.MaxX {
			e.MaxX, e.MaxXAt = x, i
		}
		if y < e.MinY {
			e.MinY, e.MinYAt = y, i
		}
		if y > e.MaxY {
			e.MaxY, e.MaxYAt = y, i
		}
	}
	return e
}

// HPWL returns the half-perimeter wire length of this net at the given
// positions: (max_x - min_x) + (max_y - min_y).
func (n *Net) HPWL(pos PositionFunc) float64 {
	e := n.ComputeExtremes(pos)
	if len(n.Pins) == 0 {
		return 0
	}
	return (e.MaxX - e.MinX) + (e.MaxY - e.MinY)
}
