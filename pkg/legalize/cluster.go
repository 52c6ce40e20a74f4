// Package legalize implements the well-aware cluster legalizer: a 1-D row
// packer with variable cluster height driven by member p-well/n-well
// heights, alternating a bottom-up and top-down pass until the
// packed contour fits inside the stripe's region.
package legalize

import (
	"sort"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/errors"
	"github.com/opendali/placer/pkg/stripe"
)

// Cluster is a single packed row inside a stripe.
type Cluster struct {
	Orientation circuit.Orientation
	Members     []int // block indices, left to right
	LLX, LLY    float64
	Width       float64
	UsedWidth   float64
	PHeight     float64
	NHeight     float64
	TapIndex    int // block index of this cluster's tap cell, -1 until welltap runs
}

// Height returns the cluster's height: max member p-well height plus max
// member n-well height.
func (c *Cluster) Height() float64 { return c.PHeight + c.NHeight }

// URY returns the cluster's upper y edge.
func (c *Cluster) URY() float64 { return c.LLY + c.Height() }

// Run legalizes every stripe in place, mutating block LLX/LLY/Orientation
// and returning the resulting Clusters per stripe. Returns a
// LegalizationFailure if a stripe's contour cannot be made to fit the region
// within opts.ClusterLegalizeMaxIter alternating passes.
func Run(model circuit.Model, stripes []stripe.Stripe, opts config.Options) ([][]*Cluster, error) {
	out := make([][]*Cluster, len(stripes))
	for _, s := range stripes {
		clusters, err := legalizeStripe(model, s, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range clusters {
			assignMembers(model, c)
		}
		out[s.Index] = clusters
	}
	return out, nil
}

// legalizeStripe alternates bottom-up and top-down passes up to
// ClusterLegalizeMaxIter times, then runs LegalizeLooseX and the
// trial y-compaction on the surviving layout.
func legalizeStripe(model circuit.Model, s stripe.Stripe, opts config.Options) ([]*Cluster, error) {
	region := model.Region()
	bottom, top := float64(region.Bottom), float64(region.Top)

	var clusters []*Cluster
	ok := false

	for attempt := 0; attempt < opts.ClusterLegalizeMaxIter; attempt++ {
		if attempt%2 == 0 {
			clusters, ok = packBottomUp(model, s, opts, bottom, top)
		} else {
			clusters, ok = packTopDown(model, s, opts, bottom, top)
		}
		if ok {
			break
		}
	}
	if !ok {
		return nil, errors.NewLegalizationFailure(s.Index, "stripe %d overflowed after %d bottom-up/top-down passes", s.Index, opts.ClusterLegalizeMaxIter)
	}

	for _, c := range clusters {
		LegalizeLooseX(model, c)
	}
	trialCompactY(clusters, bottom)

	return clusters, nil
}

// packBottomUp packs a stripe's blocks sorted by (LLY, LLX) into rows from
// the bottom up; s.Movable is already in that order (stripe.Build).
func packBottomUp(model circuit.Model, s stripe.Stripe, opts config.Options, regionBottom, regionTop float64) ([]*Cluster, bool) {
	var clusters []*Cluster
	contour := regionBottom
	var front *Cluster

	for _, bi := range s.Movable {
		b := model.Block(bi)
		p, n := b.PWellHeight(), b.NWellHeight()

		openNew := front == nil || contour == regionBottom
		if opts.ClusteringStyle == config.ClusteringLoose && b.LLY > contour {
			openNew = true
		}
		if front != nil && front.UsedWidth+b.Width() > s.Width() {
			openNew = true
		}

		if openNew {
			y := max64(b.LLY, contour)
			c := &Cluster{
				Orientation: orientationFor(s, len(clusters)),
				LLX:         s.Left,
				LLY:         y,
				Width:       s.Width(),
				PHeight:     p,
				NHeight:     n,
				TapIndex:    -1,
			}
			c.Members = append(c.Members, bi)
			c.UsedWidth = b.Width()
			clusters = append(clusters, c)
			front = c
			contour = c.URY()
			continue
		}

		front.Members = append(front.Members, bi)
		front.UsedWidth += b.Width()
		if p > front.PHeight {
			front.PHeight = p
		}
		if n > front.NHeight {
			front.NHeight = n
		}
		contour = front.URY()
	}

	return clusters, contour <= regionTop
}

// packTopDown mirrors packBottomUp from the region top downward.
func packTopDown(model circuit.Model, s stripe.Stripe, opts config.Options, regionBottom, regionTop float64) ([]*Cluster, bool) {
	reversed := append([]int(nil), s.Movable...)
	sort.SliceStable(reversed, func(a, b int) bool {
		ba, bb := model.Block(reversed[a]), model.Block(reversed[b])
		if ba.URY() != bb.URY() {
			return ba.URY() > bb.URY()
		}
		return ba.LLX < bb.LLX
	})

	var clusters []*Cluster
	contour := regionTop
	var front *Cluster

	for _, bi := range reversed {
		b := model.Block(bi)
		p, n := b.PWellHeight(), b.NWellHeight()

		openNew := front == nil || contour == regionTop
		if opts.ClusteringStyle == config.ClusteringLoose && b.URY() < contour {
			openNew = true
		}
		if front != nil && front.UsedWidth+b.Width() > s.Width() {
			openNew = true
		}

		if openNew {
			height := p + n
			yTop := min64(b.URY(), contour)
			c := &Cluster{
				Orientation: orientationFor(s, len(clusters)),
				LLX:         s.Left,
				LLY:         yTop - height,
				Width:       s.Width(),
				PHeight:     p,
				NHeight:     n,
				TapIndex:    -1,
			}
			c.Members = append(c.Members, bi)
			c.UsedWidth = b.Width()
			clusters = append(clusters, c)
			front = c
			contour = c.LLY
			continue
		}

		front.Members = append(front.Members, bi)
		front.UsedWidth += b.Width()
		top := front.URY()
		if p > front.PHeight {
			front.PHeight = p
		}
		if n > front.NHeight {
			front.NHeight = n
		}
		front.LLY = top - front.Height()
		contour = front.LLY
	}

	// packTopDown built clusters newest-first with members in URY-descending
	// (top-first) order; flip both to match packBottomUp's bottom-to-top,
	// left-to-right convention so downstream passes are orientation-agnostic.
	for _, c := range clusters {
		reverseInts(c.Members)
	}
	reverseClusters(clusters)
	for k, c := range clusters {
		c.Orientation = orientationFor(s, k)
	}

	return clusters, contour >= regionBottom
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseClusters(clusters []*Cluster) {
	for i, j := 0, len(clusters)-1; i < j; i, j = i+1, j-1 {
		clusters[i], clusters[j] = clusters[j], clusters[i]
	}
}

// orientationFor assigns cluster orientations: cluster 0 takes the
// stripe's first-row orientation, subsequent clusters alternate.
func orientationFor(s stripe.Stripe, clusterOrdinal int) circuit.Orientation {
	o := s.FirstRowOrientation
	for i := 0; i < clusterOrdinal; i++ {
		o = o.Flipped()
	}
	return o
}

// LegalizeLooseX sorts members by LLX, sweeps left to right pushing each
// block to max(contour, its LLX); if the
// rightmost URX overflows the stripe's right edge, sweep right to left
// pushing to min(contour, its URX). Exported so well-tap insertion can
// rerun it after inserting tap cells into a cluster's member list.
func LegalizeLooseX(model circuit.Model, c *Cluster) {
	sort.SliceStable(c.Members, func(a, b int) bool {
		return model.Block(c.Members[a]).LLX < model.Block(c.Members[b]).LLX
	})

	right := c.LLX + c.Width
	contour := c.LLX
	for _, bi := range c.Members {
		b := model.Block(bi)
		b.LLX = max64(contour, b.LLX)
		contour = b.URX()
	}

	if contour <= right {
		return
	}

	contour = right
	for i := len(c.Members) - 1; i >= 0; i-- {
		b := model.Block(c.Members[i])
		targetURX := min64(contour, b.URX())
		b.LLX = targetURX - b.Width()
		contour = b.LLX
	}
}

// trialCompactY compacts cluster y-positions within a stripe, preserving
// order: each cluster's LLY is pulled down to sit directly atop the
// previous cluster if a gap opened up during the bottom-up/top-down passes.
func trialCompactY(clusters []*Cluster, regionBottom float64) {
	contour := regionBottom
	for _, c := range clusters {
		if c.LLY > contour {
			c.LLY = contour
		}
		contour = c.URY()
	}
}

// assignMembers writes each member block's final LLY and orientation back
// onto the model and marks the block placed.
func assignMembers(model circuit.Model, c *Cluster) {
	for _, bi := range c.Members {
		b := model.Block(bi)
		b.LLY = c.LLY
		b.Orientation = c.Orientation
		b.Status = circuit.StatusPlaced
	}
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
