// Package stripe implements the column stripe builder: it partitions the
// die into vertical stripes of a target width derived from
// the technology's max plug distance, then computes per-row white-space
// segments within each stripe by subtracting fixed-block footprints.
package stripe

import (
	"sort"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/geometry"
)

// Segment is a horizontal white-space interval usable for cluster placement.
type Segment struct {
	Left, Right float64
}

// Width returns the segment's span.
func (s Segment) Width() float64 { return s.Right - s.Left }

// Width returns the stripe's horizontal span.
func (s Stripe) Width() float64 { return s.Right - s.Left }

// Row is one row-height slice of a stripe, with white-space segments already
// cleared of fixed-block overlaps.
type Row struct {
	Bottom, Top float64
	Segments    []Segment
}

// Stripe is a vertical slab of the die: the unit the cluster
// legalizer packs blocks into.
type Stripe struct {
	Index       int
	Left, Right float64
	Rows        []Row

	// Movable holds the movable block indices whose center x-coordinate
	// falls within [Left, Right), sorted by (LLY, LLX) as the bottom-up
	// cluster pass requires.
	Movable []int

	// FirstRowOrientation is the orientation assigned to the stripe's
	// first cluster; subsequent clusters alternate from it.
	FirstRowOrientation circuit.Orientation
}

// Build partitions model's region into stripes of target width
// stripe_width_factor · max_plug_distance, clamped to die width.
func Build(model circuit.Model, opts config.Options) []Stripe {
	region := model.Region()
	dieWidth := region.Width()
	rowHeight := model.Tech().RowHeight

	target := opts.StripeWidthFactor * model.Tech().MaxPlugDistance
	if target > dieWidth {
		target = dieWidth
	}

	count := int(dieWidth / target)
	if count < 1 {
		count = 1
	}
	width := dieWidth / float64(count)

	stripes := make([]Stripe, count)
	fixed := collectFixedRects(model)

	for i := 0; i < count; i++ {
		left := float64(region.Left) + float64(i)*width
		right := left + width
		if i == count-1 {
			right = float64(region.Right)
		}
		s := Stripe{Index: i, Left: left, Right: right}
		s.FirstRowOrientation = firstRowOrientation(i)
		s.Rows = buildRows(left, right, float64(region.Bottom), float64(region.Top), rowHeight, opts.MinBlkWidth, fixed)
		s.Movable = movableInStripe(model, left, right)
		stripes[i] = s
	}
	return stripes
}

// firstRowOrientation gives stripe 0 a first-row orientation of N and
// alternates N/FS stripe to stripe so adjacent stripes' bottom rows also
// share compatible well edges. The starting orientation is fixed: Options
// has no setting for it.
func firstRowOrientation(stripeIndex int) circuit.Orientation {
	if stripeIndex%2 == 0 {
		return circuit.OrientN
	}
	return circuit.OrientFS
}

func collectFixedRects(model circuit.Model) []geometry.Rect {
	fixed := make([]geometry.Rect, 0, len(model.FixedIndices()))
	for _, fi := range model.FixedIndices() {
		fixed = append(fixed, model.Block(fi).Rect())
	}
	return fixed
}

// buildRows slices [bottom, top) into rowHeight-tall rows and computes each
// row's white-space segments by subtracting the x-spans of fixed blocks that
// overlap that row.
func buildRows(left, right, bottom, top, rowHeight, minBlkWidth float64, fixed []geometry.Rect) []Row {
	var rows []Row
	for y := bottom; y < top; y += rowHeight {
		rowTop := y + rowHeight
		if rowTop > top {
			rowTop = top
		}
		rows = append(rows, Row{
			Bottom:   y,
			Top:      rowTop,
			Segments: rowSegments(left, right, y, rowTop, minBlkWidth, fixed),
		})
	}
	return rows
}

func rowSegments(left, right, bottom, top, minBlkWidth float64, fixed []geometry.Rect) []Segment {
	var blockers []Segment
	rowRect := geometry.Rect{LLX: left, LLY: bottom, URX: right, URY: top}
	for _, f := range fixed {
		if inter, ok := rowRect.Intersect(f); ok {
			blockers = append(blockers, Segment{Left: inter.LLX, Right: inter.URX})
		}
	}
	sort.Slice(blockers, func(a, b int) bool { return blockers[a].Left < blockers[b].Left })

	segments := []Segment{}
	cursor := left
	for _, b := range blockers {
		if b.Left > cursor {
			segments = append(segments, Segment{Left: cursor, Right: b.Left})
		}
		if b.Right > cursor {
			cursor = b.Right
		}
	}
	if cursor < right {
		segments = append(segments, Segment{Left: cursor, Right: right})
	}

	out := segments[:0]
	for _, s := range segments {
		if s.Width() >= minBlkWidth {
			out = append(out, s)
		}
	}
	return out
}

func movableInStripe(model circuit.Model, left, right float64) []int {
	var idxs []int
	for _, mi := range model.MovableIndices() {
		b := model.Block(mi)
		if cx := b.CenterX(); cx >= left && cx < right {
			idxs = append(idxs, mi)
		}
	}
	sort.Slice(idxs, func(a, b int) bool {
		ba, bb := model.Block(idxs[a]), model.Block(idxs[b])
		if ba.LLY != bb.LLY {
			return ba.LLY < bb.LLY
		}
		if ba.LLX != bb.LLX {
			return ba.LLX < bb.LLX
		}
		return idxs[a] < idxs[b]
	})
	return idxs
}
