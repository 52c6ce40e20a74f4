package welltap

import (
	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/legalize"
)

// windowLimit caps the local-reorder window so factorial(n) stays tractable;
// opts.LocalReorderRange is clamped to this before search.
const windowLimit = 8

// LocalReorder implements its local reorder: for every cluster and
// every sliding window of size opts.LocalReorderRange, enumerate all
// permutations, evenly distribute the window's cells across its bounds under
// each ordering, and keep whichever ordering minimizes HPWL over the nets
// touching the window (ignoring nets with more pins than net_ignore_threshold).
// Runs opts.LocalReorderPasses full passes over every cluster.
func LocalReorder(model circuit.Model, clusters [][]*legalize.Cluster, opts config.Options) {
	windowSize := opts.LocalReorderRange
	if windowSize < 2 {
		return
	}
	if windowSize > windowLimit {
		windowSize = windowLimit
	}

	for pass := 0; pass < opts.LocalReorderPasses; pass++ {
		for _, stripeClusters := range clusters {
			for _, c := range stripeClusters {
				reorderCluster(model, c, windowSize, opts.NetIgnoreThreshold)
			}
		}
	}
}

func reorderCluster(model circuit.Model, c *legalize.Cluster, windowSize, netIgnoreThreshold int) {
	n := len(c.Members)
	if n < 2 {
		return
	}
	w := windowSize
	if w > n {
		w = n
	}
	if w < 2 {
		return
	}

	for start := 0; start+w <= n; start++ {
		window := c.Members[start : start+w]
		left := model.Block(window[0]).LLX
		right := blockURX(model, window[len(window)-1])

		best := append([]int(nil), window...)
		applyOrdering(model, best, left, right)
		bestHPWL := windowHPWL(model, window, netIgnoreThreshold)

		for _, perm := range permutations(w, factorial(w)) {
			ordered := make([]int, w)
			for i, p := range perm {
				ordered[i] = window[p]
			}
			applyOrdering(model, ordered, left, right)
			h := windowHPWL(model, window, netIgnoreThreshold)
			if h < bestHPWL {
				bestHPWL = h
				best = ordered
			}
		}

		applyOrdering(model, best, left, right)
		copy(c.Members[start:start+w], best)
	}
}

func blockURX(model circuit.Model, blockIdx int) float64 {
	return model.Block(blockIdx).URX()
}

// applyOrdering distributes ordered's blocks left to right across [left,
// right] with a common gap between them.
func applyOrdering(model circuit.Model, ordered []int, left, right float64) {
	var totalWidth float64
	for _, bi := range ordered {
		totalWidth += model.Block(bi).Width()
	}
	n := float64(len(ordered))
	gap := (right - left - totalWidth) / (n + 1)
	if gap < 0 {
		gap = 0
	}

	x := left + gap
	for _, bi := range ordered {
		b := model.Block(bi)
		b.LLX = x
		x += b.Width() + gap
	}
}

// windowHPWL sums HPWL over every non-ignored net touching any block in
// window, at the model's current (candidate) positions.
func windowHPWL(model circuit.Model, window []int, netIgnoreThreshold int) float64 {
	touched := map[int]bool{}
	for _, bi := range window {
		for _, ni := range model.Block(bi).NetIndices {
			touched[ni] = true
		}
	}
	pos := func(p circuit.PinRef) (float64, float64) { return model.Position(p) }

	var total float64
	for ni := range touched {
		net := model.Net(ni)
		if net.Ignored(netIgnoreThreshold) {
			continue
		}
		total += net.HPWL(pos)
	}
	return total
}
