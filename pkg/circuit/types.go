// Package circuit defines the netlist data model consumed by the placement
// engine: blocks, nets, block types, well rules, and the technology record.
// It also defines circuit.Model, the narrow read-write interface the engine
// expects from an external circuit database — the database itself is an
// out-of-scope external collaborator.
package circuit

// Status is a block's placement status.
type Status int

const (
	StatusUnplaced Status = iota
	StatusPlaced
	StatusFixed
	StatusCover
)

// String renders the status for log messages.
func (s Status) String() string {
	switch s {
	case StatusUnplaced:
		return "UNPLACED"
	case StatusPlaced:
		return "PLACED"
	case StatusFixed:
		return "FIXED"
	case StatusCover:
		return "COVER"
	default:
		return "UNKNOWN"
	}
}

// Movable reports whether a block with this status may be relocated by the
// placer. movable iff status in {UNPLACED, PLACED}.
func (s Status) Movable() bool {
	return s == StatusUnplaced || s == StatusPlaced
}

// Orientation is a block's mirror/rotation state.
type Orientation int

const (
	OrientN Orientation = iota
	OrientS
	OrientFN
	OrientFS
)

// String renders the orientation for log messages and export files.
func (o Orientation) String() string {
	switch o {
	case OrientN:
		return "N"
	case OrientS:
		return "S"
	case OrientFN:
		return "FN"
	case OrientFS:
		return "FS"
	default:
		return "N"
	}
}

// Flipped returns the vertically-mirrored counterpart of o. Cluster
// legalization alternates orientation row to row using this mapping so
// adjacent rows share compatible well edges.
func (o Orientation) Flipped() Orientation {
	switch o {
	case OrientN:
		return OrientFS
	case OrientFS:
		return OrientN
	case OrientS:
		return OrientFN
	case OrientFN:
		return OrientS
	default:
		return OrientFS
	}
}

// WellDescriptor holds the per-BlockType well heights: the geometry
// well-tap insertion and cluster legalization consult when packing rows.
type WellDescriptor struct {
	// PWellHeight and NWellHeight are per-BlockType, in grid units.
	PWellHeight float64
	NWellHeight float64
}

// Tech carries the global well design rules and row geometry: max plug
// distance, well spacing, row height, and the tap-cell type to instantiate.
type Tech struct {
	MaxPlugDistance  float64
	SameWellSpacing  float64
	OppositeSpacing  float64
	Overhang         float64
	RowHeight        float64
	TapCellTypeIndex int
	// TapCellType is the BlockType instantiated by well-tap insertion.
	// TapCellTypeIndex names the slot in an external BlockType table for
	// serialization; the engine itself only needs the resolved pointer.
	TapCellType *BlockType
}

// BlockType is the shared geometry/well template referenced by one or more
// Blocks.
type BlockType struct {
	Name       string
	Width      float64
	Height     float64
	Well       WellDescriptor
	PinOffsets []Point
	// IsWellTap marks the tap-cell type identified by Tech.TapCellTypeIndex,
	// letting a cluster recognize its own tap cell without a side table.
	IsWellTap bool
	IsIOPin   bool
}

// Point is a 2D offset in grid units, used for pin positions relative to a
// block's lower-left corner.
type Point struct {
	X, Y float64
}

// Region is the rectangular placement boundary in integer grid units.
type Region struct {
	Left, Right, Bottom, Top int
}

// Width returns Right - Left.
func (r Region) Width() float64 { return float64(r.Right - r.Left) }

// Height returns Top - Bottom.
func (r Region) Height() float64 { return float64(r.Top - r.Bottom) }

// Area returns the region's area, or 0 if degenerate.
func (r Region) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Valid reports whether the region satisfies the non-degeneracy check
// (right > left, top > bottom).
func (r Region) Valid() bool {
	return r.Right > r.Left && r.Top > r.Bottom
}
