// Package welltap implements well-tap insertion and local wirelength-optimal
// reordering: the final finishing pass after the cluster legalizer has
// packed rows.
package welltap

import (
	"math"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/legalize"
)

// InsertTaps adds well-tap cells to every cluster in every stripe:
// ⌈stripe.width / (1.5 · max_plug_distance)⌉ taps at evenly spaced
// x-locations, then reruns LegalizeLooseX. If the technology record carries
// no tap-cell type, insertion is skipped entirely (there is nothing to
// instantiate). max_plug_distance itself is assumed positive — callers run
// this after Orchestrator.Run's checkTech has already rejected a
// non-positive value.
func InsertTaps(model circuit.Model, clusters [][]*legalize.Cluster, opts config.Options) error {
	tapType := model.Tech().TapCellType
	if tapType == nil {
		return nil
	}
	maxPlug := model.Tech().MaxPlugDistance

	for _, stripeClusters := range clusters {
		for _, c := range stripeClusters {
			if err := insertTapsIntoCluster(model, c, tapType, maxPlug); err != nil {
				return err
			}
			legalize.LegalizeLooseX(model, c)
		}
	}
	return nil
}

func insertTapsIntoCluster(model circuit.Model, c *legalize.Cluster, tapType *circuit.BlockType, maxPlug float64) error {
	numTaps := int(math.Ceil(c.Width / (1.5 * maxPlug)))
	if numTaps < 1 {
		numTaps = 1
	}
	spacing := c.Width / float64(numTaps)

	for k := 0; k < numTaps; k++ {
		x := c.LLX + (float64(k)+0.5)*spacing
		lly := tapLLY(c, tapType)

		idx, err := model.AddBlock(circuit.Block{
			Type:        tapType,
			LLX:         x - tapType.Width/2,
			LLY:         lly,
			Status:      circuit.StatusPlaced,
			Orientation: c.Orientation,
		})
		if err != nil {
			return err
		}
		c.Members = append(c.Members, idx)
		c.UsedWidth += tapType.Width
		if k == 0 {
			c.TapIndex = idx
		}
	}
	return nil
}

// tapLLY derives the tap cell's LLY from the cluster's LLY plus the tap's
// p-well height relative to the cluster orientation: for orientations
// with the p-well at the bottom (N, FN), the tap's own p-well
// aligns with the cluster's bottom edge; for orientations with the p-well at
// the top (S, FS), the tap aligns with the cluster's top edge instead so
// its well still abuts its neighbors' along the shared edge.
func tapLLY(c *legalize.Cluster, tapType *circuit.BlockType) float64 {
	switch c.Orientation {
	case circuit.OrientN, circuit.OrientFN:
		return c.LLY
	default:
		return c.LLY + c.Height() - tapType.Height
	}
}
