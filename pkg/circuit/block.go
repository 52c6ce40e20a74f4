package circuit

import "github.com/opendali/placer/pkg/geometry"

// Block is a single cell instance.
type Block struct {
	Index       int
	Type        *BlockType
	LLX, LLY    float64
	// Height overrides Type.Height when non-zero.
	Height      float64
	Status      Status
	Orientation Orientation
	NetIndices  []int
}

// EffHeight returns the block's effective height: its own override if set,
// otherwise its type's height.
func (b *Block) EffHeight() float64 {
	if b.Height > 0 {
		return b.Height
	}
	if b.Type != nil {
		return b.Type.Height
	}
	return 0
}

// Width returns the block's width, taken from its type.
func (b *Block) Width() float64 {
	if b.Type == nil {
		return 0
	}
	return b.Type.Width
}

// Rect returns the block's axis-aligned footprint.
func (b *Block) Rect() geometry.Rect {
	return geometry.NewRect(b.LLX, b.LLY, b.Width(), b.EffHeight())
}

// URX returns the upper-right x coordinate.
func (b *Block) URX() float64 { return b.LLX + b.Width() }

// URY returns the upper-right y coordinate.
func (b *Block) URY() float64 { return b.LLY + b.EffHeight() }

// CenterX returns the horizontal center, used by LAL binning: every movable
// block is binned by its center.
func (b *Block) CenterX() float64 { return b.LLX + b.Width()/2 }

// CenterY returns the vertical center.
func (b *Block) CenterY() float64 { return b.LLY + b.EffHeight()/2 }

// Movable reports whether this block may be relocated by the placer.
func (b *Block) Movable() bool { return b.Status.Movable() }

// PWellHeight returns the block's p-well height, or 0 if its type has none.
func (b *Block) PWellHeight() float64 {
	if b.Type == nil {
		return 0
	}
	return b.Type.Well.PWellHeight
}

// NWellHeight returns the block's n-well height, or 0 if its type has none.
func (b *Block) NWellHeight() float64 {
	if b.Type == nil {
		return 0
	}
	return b.Type.Well.NWellHeight
}

// IsWellTap reports whether this block instantiates the well-tap BlockType.
func (b *Block) IsWellTap() bool {
	return b.Type != nil && b.Type.IsWellTap
}

// PinPosition returns the absolute coordinates of pin p, accounting for
// orientation flips about the block's own bounding box.
func (b *Block) PinPosition(p int) (float64, float64) {
	if b.Type == nil || p < 0 || p >= len(b.Type.PinOffsets) {
		return b.CenterX(), b.CenterY()
	}
	off := b.Type.PinOffsets[p]
	dx, dy := off.X, off.Y
	switch b.Orientation {
	case OrientS:
		dx, dy = b.Width()-dx, b.EffHeight()-dy
	case OrientFN:
		dx = b.Width() - dx
	case OrientFS:
		dy = b.EffHeight() - dy
	}
	return b.LLX + dx, b.LLY + dy
}
