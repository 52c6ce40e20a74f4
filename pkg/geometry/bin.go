package geometry

import "fmt"

// BinIndex identifies a tile in a regular grid overlaid on the placement
// region. I indexes columns (x-axis), J indexes rows (y-axis).
type BinIndex struct {
	I, J int
}

// String renders the index as "(i,j)" for log messages.
func (b BinIndex) String() string { return fmt.Sprintf("(%d,%d)", b.I, b.J) }

// Grid describes a uniform partition of a region into GRID_X * GRID_Y bins.
type Grid struct {
	Region       Rect
	CountX       int
	CountY       int
	BinW, BinH   float64
}

// NewGrid partitions region into a countX x countY grid of equal-sized bins.
// countX and countY must be positive; the caller (lal.chooseGridDims) is
// responsible for deriving them from the target cells-per-bin.
func NewGrid(region Rect, countX, countY int) Grid {
	if countX < 1 {
		countX = 1
	}
	if countY < 1 {
		countY = 1
	}
	return Grid{
		Region: region,
		CountX: countX,
		CountY: countY,
		BinW:   region.Width() / float64(countX),
		BinH:   region.Height() / float64(countY),
	}
}

// BinRect returns the rectangle covered by bin (i, j).
func (g Grid) BinRect(i, j int) Rect {
	return Rect{
		LLX: g.Region.LLX + float64(i)*g.BinW,
		LLY: g.Region.LLY + float64(j)*g.BinH,
		URX: g.Region.LLX + float64(i+1)*g.BinW,
		URY: g.Region.LLY + float64(j+1)*g.BinH,
	}
}

// IndexOf returns the bin containing point (x, y), clamped to grid bounds.
func (g Grid) IndexOf(x, y float64) BinIndex {
	i := int((x - g.Region.LLX) / g.BinW)
	j := int((y - g.Region.LLY) / g.BinH)
	if i < 0 {
		i = 0
	}
	if i >= g.CountX {
		i = g.CountX - 1
	}
	if j < 0 {
		j = 0
	}
	if j >= g.CountY {
		j = g.CountY - 1
	}
	return BinIndex{I: i, J: j}
}

// WindowRect returns the rectangle spanned by the inclusive bin window
// [loI,loJ]-[hiI,hiJ], clamped to the grid.
func (g Grid) WindowRect(loI, loJ, hiI, hiJ int) Rect {
	loI, loJ = g.clampI(loI), g.clampJ(loJ)
	hiI, hiJ = g.clampI(hiI), g.clampJ(hiJ)
	lo := g.BinRect(loI, loJ)
	hi := g.BinRect(hiI, hiJ)
	return Rect{LLX: lo.LLX, LLY: lo.LLY, URX: hi.URX, URY: hi.URY}
}

func (g Grid) clampI(i int) int {
	if i < 0 {
		return 0
	}
	if i >= g.CountX {
		return g.CountX - 1
	}
	return i
}

func (g Grid) clampJ(j int) int {
	if j < 0 {
		return 0
	}
	if j >= g.CountY {
		return g.CountY - 1
	}
	return j
}

// AtDieBounds reports whether the window already spans the full grid on
// every side that LAL's bounding-box growth tried to expand.
func (g Grid) AtDieBounds(loI, loJ, hiI, hiJ int) bool {
	return loI <= 0 && loJ <= 0 && hiI >= g.CountX-1 && hiJ >= g.CountY-1
}
