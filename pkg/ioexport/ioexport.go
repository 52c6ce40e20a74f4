// Package ioexport writes the placement engine's text output files: outline,
// cluster, well, and router-cluster rectangles. DEF emission itself is
// delegated to the external circuit collaborator; these are the engine's
// own auxiliary reports.
package ioexport

import (
	"fmt"
	"io"
	"math"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/legalize"
)

// WriteOutline writes one line giving the region's four corners.
func WriteOutline(w io.Writer, region circuit.Region) error {
	_, err := fmt.Fprintf(w, "%d %d %d %d\n", region.Left, region.Right, region.Bottom, region.Top)
	return err
}

// WriteClusterRects writes one octuple (x1 x2 x2 x1 y1 y1 y2 y2) per cluster
// across all stripes, in stripe then cluster order.
func WriteClusterRects(w io.Writer, clusters [][]*legalize.Cluster) error {
	for _, stripeClusters := range clusters {
		for _, c := range stripeClusters {
			x1, x2 := c.LLX, c.LLX+c.Width
			y1, y2 := c.LLY, c.URY()
			if _, err := fmt.Fprintf(w, "%g %g %g %g %g %g %g %g\n", x1, x2, x2, x1, y1, y1, y2, y2); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteWellRects writes one octuple per well rectangle of the given kind
// (p-well or n-well) across all clusters.
func WriteWellRects(w io.Writer, clusters [][]*legalize.Cluster, pWell bool) error {
	for _, stripeClusters := range clusters {
		for _, c := range stripeClusters {
			pLo, pHi := pWellBounds(c)
			var y1, y2 float64
			if pWell {
				y1, y2 = pLo, pHi
			} else if pLo == c.LLY {
				y1, y2 = pHi, c.URY()
			} else {
				y1, y2 = c.LLY, pLo
			}
			x1, x2 := c.LLX, c.LLX+c.Width
			if _, err := fmt.Fprintf(w, "%g %g %g %g %g %g %g %g\n", x1, x2, x2, x1, y1, y1, y2, y2); err != nil {
				return err
			}
		}
	}
	return nil
}

// pWellBounds returns a cluster's p-well [lo, hi) span: for orientations
// with the p-well at the bottom (N, FN) it is the cluster's bottom PHeight;
// for orientations with the p-well at the top (S, FS) it is the top
// PHeight, matching welltap.tapLLY's orientation handling.
func pWellBounds(c *legalize.Cluster) (float64, float64) {
	switch c.Orientation {
	case circuit.OrientN, circuit.OrientFN:
		return c.LLY, c.LLY + c.PHeight
	default:
		return c.URY() - c.PHeight, c.URY()
	}
}

// WriteWellRectManufacturingGrid writes `_well.rect`-format lines: one line
// per well rect as `{pwell GND | nwell Vdd} lx ly ux uy`, rounded to the
// manufacturing grid and offset by the die area's own lower-left corner.
func WriteWellRectManufacturingGrid(w io.Writer, region circuit.Region, clusters [][]*legalize.Cluster, manufacturingGrid float64) error {
	if manufacturingGrid <= 0 {
		manufacturingGrid = 1
	}
	offsetX, offsetY := float64(region.Left), float64(region.Bottom)

	round := func(v float64) int {
		return int(math.Round(v/manufacturingGrid) * manufacturingGrid)
	}

	for _, stripeClusters := range clusters {
		for _, c := range stripeClusters {
			lx, ux := round(c.LLX-offsetX), round(c.LLX+c.Width-offsetX)

			pLo, pHi := pWellBounds(c)
			pLy, pUy := round(pLo-offsetY), round(pHi-offsetY)
			if _, err := fmt.Fprintf(w, "pwell GND %d %d %d %d\n", lx, pLy, ux, pUy); err != nil {
				return err
			}

			var nLo, nHi float64
			if pLo == c.LLY {
				nLo, nHi = pHi, c.URY()
			} else {
				nLo, nHi = c.LLY, pLo
			}
			nLy, nUy := round(nLo-offsetY), round(nHi-offsetY)
			if _, err := fmt.Fprintf(w, "nwell Vdd %d %d %d %d\n", lx, nLy, ux, nUy); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRouterClusters writes `_router.cluster`-format output: one STRIP
// block per stripe, listing its column bounds and power rail, then one line
// per cluster's y-range.
func WriteRouterClusters(w io.Writer, stripeLefts, stripeRights []float64, clusters [][]*legalize.Cluster) error {
	for col, stripeClusters := range clusters {
		if _, err := fmt.Fprintf(w, "STRIP column%d\n", col); err != nil {
			return err
		}
		rail := "GND"
		if col%2 == 1 {
			rail = "Vdd"
		}
		if _, err := fmt.Fprintf(w, "  %g %g %s\n", stripeLefts[col], stripeRights[col], rail); err != nil {
			return err
		}
		for _, c := range stripeClusters {
			if _, err := fmt.Fprintf(w, "  %g %g\n", c.LLY, c.URY()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "END column%d\n", col); err != nil {
			return err
		}
	}
	return nil
}
