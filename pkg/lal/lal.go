package lal

import (
	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/errors"
)

// Run performs one full look-ahead legalization pass over model: rebins
// movable cells, detects over-filled clusters largest first, grows a
// minimum bounding box per cluster, and recursively spreads cells within
// it. If growth fails at full die bounds, it retries once by splitting the
// cluster along its longer bin span and growing each half; Run returns a
// ConvergenceError only if that retry also fails.
func (lz *Legalizer) Run(model circuit.Model) error {
	lz.updateState(model)
	clusters := lz.detectClusters()

	lz.log.Debug("look-ahead legalization pass", "clusters", len(clusters))

	for _, c := range clusters {
		boxes, ok := lz.growMinimumBoundingBox(c)
		if !ok {
			return errors.New(errors.ConvergenceError,
				"look-ahead legalizer could not grow a minimum bounding box for a cluster of area %.2f within die bounds", c.cellArea)
		}
		for _, box := range boxes {
			lz.spread(model, box)
		}
	}
	return nil
}

// HPWLAfter is a convenience for the orchestrator's convergence check,
// summing HPWL over every non-ignored net at the model's current positions.
func HPWLAfter(model circuit.Model, netIgnoreThreshold int) float64 {
	var total float64
	pos := func(p circuit.PinRef) (float64, float64) { return model.Position(p) }
	for i := 0; i < model.NumNets(); i++ {
		net := model.Net(i)
		if net.Ignored(netIgnoreThreshold) {
			continue
		}
		total += net.HPWL(pos)
	}
	return total
}
