// Package lal implements the look-ahead legalizer: grid-bin density
// estimation, cluster detection over over-filled bins, and recursive
// bisection spreading that turns a continuous placement into a
// density-legal one without committing cells to rows.
package lal

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/geometry"
)

// bin holds the per-tile bookkeeping its GridBin describes.
type bin struct {
	cellArea float64
	cells    []int // movable block indices whose center falls here
	overFill bool
	visited  bool
}

// Legalizer owns the grid, its white-space lookup table, and the per-bin
// state rebuilt every LAL pass. The zero value is not usable; construct
// with New.
type Legalizer struct {
	opts        config.Options
	log         *log.Logger
	grid        geometry.Grid
	whiteLUT    *geometry.PrefixSum2D
	cellAreaLUT *geometry.PrefixSum2D
	bins        []bin // row-major, index = i*CountY+j
}

// New builds the grid and white-space LUT for model, choosing bin side
// lengths so an average bin holds roughly number_of_cell_in_bin cells. The
// grid is independent of cell positions and is only rebuilt if New is
// called again; per-iteration density state is rebuilt by Run.
func New(model circuit.Model, opts config.Options, logger *log.Logger) *Legalizer {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	region := regionRect(model.Region())
	countX, countY := chooseGridDims(region, len(model.MovableIndices()), opts.NumberOfCellInBin)
	grid := geometry.NewGrid(region, countX, countY)

	values := make([][]float64, countX)
	for i := range values {
		values[i] = make([]float64, countY)
		for j := 0; j < countY; j++ {
			values[i][j] = grid.BinRect(i, j).Area()
		}
	}
	for _, fi := range model.FixedIndices() {
		b := model.Block(fi)
		subtractFixed(values, grid, b.Rect())
	}
	whiteLUT := geometry.BuildPrefixSum2D(values, countX, countY)

	return &Legalizer{
		opts:     opts,
		log:      logger,
		grid:     grid,
		whiteLUT: whiteLUT,
		bins:     make([]bin, countX*countY),
	}
}

func regionRect(r circuit.Region) geometry.Rect {
	return geometry.Rect{LLX: float64(r.Left), LLY: float64(r.Bottom), URX: float64(r.Right), URY: float64(r.Top)}
}

// chooseGridDims picks a countX x countY grid so that an average bin holds
// approximately cellInBin movable cells, matching the region's aspect ratio.
func chooseGridDims(region geometry.Rect, numMovable, cellInBin int) (int, int) {
	if cellInBin < 1 {
		cellInBin = 1
	}
	binsWanted := numMovable / cellInBin
	if binsWanted < 1 {
		binsWanted = 1
	}
	w, h := region.Width(), region.Height()
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	aspect := w / h
	countY := int(math.Round(math.Sqrt(float64(binsWanted) / aspect)))
	if countY < 1 {
		countY = 1
	}
	countX := int(math.Round(float64(binsWanted) / float64(countY)))
	if countX < 1 {
		countX = 1
	}
	return countX, countY
}

// subtractFixed removes a fixed block's footprint from every bin it
// overlaps, so the LUT reports true free (white) space.
func subtractFixed(values [][]float64, grid geometry.Grid, r geometry.Rect) {
	loI, loJ := grid.IndexOf(r.LLX, r.LLY).I, grid.IndexOf(r.LLX, r.LLY).J
	hiI, hiJ := grid.IndexOf(r.URX, r.URY).I, grid.IndexOf(r.URX, r.URY).J
	for i := loI; i <= hiI; i++ {
		for j := loJ; j <= hiJ; j++ {
			if inter, ok := grid.BinRect(i, j).Intersect(r); ok {
				values[i][j] -= inter.Area()
				if values[i][j] < 0 {
					values[i][j] = 0
				}
			}
		}
	}
}

func (lz *Legalizer) at(i, j int) *bin { return &lz.bins[i*lz.grid.CountY+j] }

// updateState re-bins every movable block by its center and marks bins
// over-filled where cell area exceeds filling_rate times
// white space. The resulting cell-area LUT is stored on lz for use by
// growMinimumBoundingBox and bisect.
func (lz *Legalizer) updateState(model circuit.Model) {
	for i := range lz.bins {
		lz.bins[i].cellArea = 0
		lz.bins[i].cells = nil
		lz.bins[i].overFill = false
		lz.bins[i].visited = false
	}

	cellAreaValues := make([][]float64, lz.grid.CountX)
	for i := range cellAreaValues {
		cellAreaValues[i] = make([]float64, lz.grid.CountY)
	}

	for _, mi := range model.MovableIndices() {
		b := model.Block(mi)
		idx := lz.grid.IndexOf(b.CenterX(), b.CenterY())
		bn := lz.at(idx.I, idx.J)
		bn.cells = append(bn.cells, mi)
		area := b.Rect().Area()
		bn.cellArea += area
		cellAreaValues[idx.I][idx.J] += area
	}

	for i := 0; i < lz.grid.CountX; i++ {
		for j := 0; j < lz.grid.CountY; j++ {
			bn := lz.at(i, j)
			white := lz.whiteLUT.Query(i, j, i, j)
			bn.overFill = bn.cellArea > lz.opts.FillingRate*white
		}
	}

	lz.cellAreaLUT = geometry.BuildPrefixSum2D(cellAreaValues, lz.grid.CountX, lz.grid.CountY)
}

// sortedByAxis returns a copy of cells sorted by axis coordinate, ties broken by block
// index (its determinism requirement).
func sortedByAxis(model circuit.Model, cells []int, axisX bool) []int {
	out := append([]int(nil), cells...)
	sort.Slice(out, func(a, b int) bool {
		ba, bb := model.Block(out[a]), model.Block(out[b])
		var va, vb float64
		if axisX {
			va, vb = ba.CenterX(), bb.CenterX()
		} else {
			va, vb = ba.CenterY(), bb.CenterY()
		}
		if va != vb {
			return va < vb
		}
		return out[a] < out[b]
	})
	return out
}
