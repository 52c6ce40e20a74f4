package lal

import (
	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/geometry"
)

// boxBin is a rectangular region under recursive bisection.
// Bounds are inclusive bin-index windows into the legalizer's grid.
type boxBin struct {
	loI, loJ, hiI, hiJ int
	cells              []int // movable block indices, sorted by cut axis once known
	cellArea           float64
}

// smallBoxCellThreshold bounds placeBlkInBox eligibility alongside the
// single-bin check: a box is small enough once it spans one bin, or holds
// at most this many cells.
const smallBoxCellThreshold = 4

func (b boxBin) isSingleBin() bool { return b.loI == b.hiI && b.loJ == b.hiJ }

// growMinimumBoundingBox expands a cluster's bin window outward until its
// white space exceeds its cell area by the filling rate, or the window
// reaches the die's bounds without satisfying that condition. A window that
// already spans the whole die is the largest window growth can ever produce,
// so retrying the same grow on failure is pointless; instead this cuts
// the cluster in two along its bounding box's longer bin span — the axis
// growth itself has no notion of — and grows each half independently. Only
// if a half also fails, or the cluster is a single bin and cannot be cut,
// does the legalizer give up on the cluster.
func (lz *Legalizer) growMinimumBoundingBox(c gridBinCluster) ([]boxBin, bool) {
	if box, ok := lz.growWindow(c.loI, c.loJ, c.hiI, c.hiJ); ok {
		return []boxBin{box}, true
	}
	left, right, ok := splitClusterWindow(c)
	if !ok {
		return nil, false
	}
	leftBox, leftOK := lz.growWindow(left.loI, left.loJ, left.hiI, left.hiJ)
	rightBox, rightOK := lz.growWindow(right.loI, right.loJ, right.hiI, right.hiJ)
	if !leftOK || !rightOK {
		return nil, false
	}
	return []boxBin{leftBox, rightBox}, true
}

// growWindow is the inner bounding-box growth loop for a single bin window.
func (lz *Legalizer) growWindow(loI, loJ, hiI, hiJ int) (boxBin, bool) {
	for {
		white := lz.whiteLUT.Query(loI, loJ, hiI, hiJ)
		cellArea := lz.cellAreaLUT.Query(loI, loJ, hiI, hiJ)
		if cellArea <= lz.opts.FillingRate*white {
			return lz.collectBox(loI, loJ, hiI, hiJ), true
		}
		if lz.grid.AtDieBounds(loI, loJ, hiI, hiJ) {
			return boxBin{}, false
		}
		if loI > 0 {
			loI--
		}
		if loJ > 0 {
			loJ--
		}
		if hiI < lz.grid.CountX-1 {
			hiI++
		}
		if hiJ < lz.grid.CountY-1 {
			hiJ++
		}
	}
}

// splitClusterWindow bisects a cluster's over-filled bin window at its
// midpoint along whichever axis has the larger bin span, flipping to the
// other axis when that span is zero. Reports false only when the window is
// a single bin on both axes and cannot be split further.
func splitClusterWindow(c gridBinCluster) (gridBinCluster, gridBinCluster, bool) {
	spanI := c.hiI - c.loI
	spanJ := c.hiJ - c.loJ
	switch {
	case spanI >= spanJ && spanI > 0:
		mid := c.loI + spanI/2
		left := gridBinCluster{loI: c.loI, loJ: c.loJ, hiI: mid, hiJ: c.hiJ, cellArea: c.cellArea / 2}
		right := gridBinCluster{loI: mid + 1, loJ: c.loJ, hiI: c.hiI, hiJ: c.hiJ, cellArea: c.cellArea / 2}
		return left, right, true
	case spanJ > 0:
		mid := c.loJ + spanJ/2
		bottom := gridBinCluster{loI: c.loI, loJ: c.loJ, hiI: c.hiI, hiJ: mid, cellArea: c.cellArea / 2}
		top := gridBinCluster{loI: c.loI, loJ: mid + 1, hiI: c.hiI, hiJ: c.hiJ, cellArea: c.cellArea / 2}
		return bottom, top, true
	default:
		return gridBinCluster{}, gridBinCluster{}, false
	}
}

func (lz *Legalizer) collectBox(loI, loJ, hiI, hiJ int) boxBin {
	b := boxBin{loI: loI, loJ: loJ, hiI: hiI, hiJ: hiJ}
	for i := loI; i <= hiI; i++ {
		for j := loJ; j <= hiJ; j++ {
			bn := lz.at(i, j)
			b.cells = append(b.cells, bn.cells...)
			b.cellArea += bn.cellArea
		}
	}
	return b
}

// spread runs the recursive bisection queue until empty, writing spread
// coordinates directly onto model blocks.
func (lz *Legalizer) spread(model circuit.Model, root boxBin) {
	queue := []boxBin{root}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]

		if len(b.cells) == 0 {
			continue // all-terminal: nothing movable to place
		}
		if b.isSingleBin() || len(b.cells) <= smallBoxCellThreshold {
			lz.placeBlkInBox(model, b)
			continue
		}
		left, right := lz.bisect(model, b)
		queue = append(queue, left, right)
	}
}

// placeBlkInBox distributes cells along the box's longer axis, sorted by
// current coordinate, evenly spread across the box. Each footprint is then
// clamped so the block lies inside the die region.
func (lz *Legalizer) placeBlkInBox(model circuit.Model, b boxBin) {
	rect := lz.grid.WindowRect(b.loI, b.loJ, b.hiI, b.hiJ)
	axisX := rect.Width() >= rect.Height()
	ordered := sortedByAxis(model, b.cells, axisX)
	n := len(ordered)
	for k, blockIdx := range ordered {
		t := (float64(k) + 0.5) / float64(n)
		var cx, cy float64
		if axisX {
			cx = rect.LLX + t*rect.Width()
			cy = rect.CenterY()
		} else {
			cx = rect.CenterX()
			cy = rect.LLY + t*rect.Height()
		}
		block := model.Block(blockIdx)
		die := lz.grid.Region
		block.LLX = max(die.LLX, min(cx-block.Width()/2, die.URX-block.Width()))
		block.LLY = max(die.LLY, min(cy-block.EffHeight()/2, die.URY-block.EffHeight()))
	}
}

// bisect splits a box along its longer axis at the bin boundary that best
// balances cell-area-to-white-space density between the two children: a
// one-dimensional bisection against the white-space LUT. If the longer axis
// turns out to have no bin boundary to cut at (the box is only one bin wide
// along it), the split flips to the other axis before falling back to a
// naive halving — spread only calls bisect on boxes with more than one bin,
// so at least one axis always has room to cut.
func (lz *Legalizer) bisect(model circuit.Model, b boxBin) (boxBin, boxBin) {
	rect := lz.grid.WindowRect(b.loI, b.loJ, b.hiI, b.hiJ)
	axisX := rect.Width() >= rect.Height()
	if axisX && b.loI == b.hiI {
		axisX = false
	} else if !axisX && b.loJ == b.hiJ {
		axisX = true
	}

	ordered := sortedByAxis(model, b.cells, axisX)
	prefixArea := make([]float64, len(ordered)+1)
	for i, idx := range ordered {
		prefixArea[i+1] = prefixArea[i] + model.Block(idx).Rect().Area()
	}
	totalArea := prefixArea[len(ordered)]
	totalWhite := lz.whiteLUT.Query(b.loI, b.loJ, b.hiI, b.hiJ)

	bestK := len(ordered) / 2
	if totalWhite > 0 && len(ordered) > 1 {
		bestDiff := -1.0
		for k := 1; k < len(ordered); k++ {
			var cx, cy float64
			blk := model.Block(ordered[k-1])
			if axisX {
				cx, cy = blk.CenterX(), rect.CenterY()
			} else {
				cx, cy = rect.CenterX(), blk.CenterY()
			}
			cutIdx := lz.grid.IndexOf(cx, cy)
			var leftWhite float64
			if axisX {
				leftWhite = lz.whiteLUT.Query(b.loI, b.loJ, cutIdx.I, b.hiJ)
			} else {
				leftWhite = lz.whiteLUT.Query(b.loI, b.loJ, b.hiI, cutIdx.J)
			}
			target := totalArea * (leftWhite / totalWhite)
			diff := prefixArea[k] - target
			if diff < 0 {
				diff = -diff
			}
			if bestDiff < 0 || diff < bestDiff {
				bestDiff = diff
				bestK = k
			}
		}
	}
	if bestK < 1 {
		bestK = 1
	}
	if bestK > len(ordered)-1 {
		bestK = len(ordered) - 1
	}

	var cutIdx geometry.BinIndex
	if len(ordered) > 1 {
		blk := model.Block(ordered[bestK-1])
		if axisX {
			cutIdx = lz.grid.IndexOf(blk.CenterX(), rect.CenterY())
		} else {
			cutIdx = lz.grid.IndexOf(rect.CenterX(), blk.CenterY())
		}
	} else {
		cutIdx = lz.grid.IndexOf(rect.CenterX(), rect.CenterY())
	}

	var left, right boxBin
	if axisX {
		cutI := clampCut(cutIdx.I, b.loI, b.hiI-1)
		left = boxBin{loI: b.loI, loJ: b.loJ, hiI: cutI, hiJ: b.hiJ}
		right = boxBin{loI: cutI + 1, loJ: b.loJ, hiI: b.hiI, hiJ: b.hiJ}
	} else {
		cutJ := clampCut(cutIdx.J, b.loJ, b.hiJ-1)
		left = boxBin{loI: b.loI, loJ: b.loJ, hiI: b.hiI, hiJ: cutJ}
		right = boxBin{loI: b.loI, loJ: cutJ + 1, hiI: b.hiI, hiJ: b.hiJ}
	}
	left.cells = ordered[:bestK]
	right.cells = ordered[bestK:]
	for _, i := range left.cells {
		left.cellArea += model.Block(i).Rect().Area()
	}
	for _, i := range right.cells {
		right.cellArea += model.Block(i).Rect().Area()
	}
	return left, right
}

func clampCut(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
