// Command placer runs the well-aware quadratic placement engine end to end
// against a small demonstration netlist: global placement, column-stripe
// legalization, well-tap insertion, and the engine's external file emitters.
//
// CLI argument plumbing and the circuit database itself are out of scope;
// production integrations wire circuit.Model against their own netlist
// store and call the same packages directly instead of shelling out to
// this binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/globalplace"
	"github.com/opendali/placer/pkg/ioexport"
	"github.com/opendali/placer/pkg/legalize"
	"github.com/opendali/placer/pkg/stripe"
	"github.com/opendali/placer/pkg/welltap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	opts := config.Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	logger := opts.NewLogger()

	model := buildDemoCircuit()

	orch := globalplace.New(opts, logger)
	report, err := orch.Run(ctx, model)
	if err != nil {
		return err
	}
	logger.Info("global placement done", "iterations", report.Iterations, "hpwl", report.FinalHPWL, "converged", report.Converged)

	stripes := stripe.Build(model, opts)
	clusters, err := legalize.Run(model, stripes, opts)
	if err != nil {
		return err
	}

	if err := welltap.InsertTaps(model, clusters, opts); err != nil {
		return err
	}
	welltap.LocalReorder(model, clusters, opts)

	return writeOutputs(model, stripes, clusters, "out")
}

// buildDemoCircuit assembles a small in-memory netlist: four rows worth of
// standard cells, one fixed macro, and a handful of nets, wide enough to
// exercise stripe partitioning and cluster legalization.
func buildDemoCircuit() circuit.Model {
	cell := &circuit.BlockType{
		Name:   "INVX1",
		Width:  2,
		Height: 4,
		Well:   circuit.WellDescriptor{PWellHeight: 2, NWellHeight: 2},
	}
	tap := &circuit.BlockType{
		Name:      "TAPCELL",
		Width:     2,
		Height:    4,
		Well:      circuit.WellDescriptor{PWellHeight: 2, NWellHeight: 2},
		IsWellTap: true,
	}
	macro := &circuit.BlockType{Name: "MACRO", Width: 12, Height: 8}

	region := circuit.Region{Left: 0, Right: 80, Bottom: 0, Top: 40}
	tech := circuit.Tech{
		MaxPlugDistance: 20,
		SameWellSpacing: 1,
		OppositeSpacing: 1,
		RowHeight:       4,
		TapCellType:     tap,
	}
	model := circuit.NewInMemoryModel(region, tech)

	macroIdx, _ := model.AddBlock(circuit.Block{Type: macro, LLX: 34, LLY: 16, Status: circuit.StatusFixed})

	const rows, perRow = 4, 10
	indices := make([]int, 0, rows*perRow)
	for r := 0; r < rows; r++ {
		for c := 0; c < perRow; c++ {
			idx, _ := model.AddBlock(circuit.Block{
				Type:   cell,
				LLX:    float64(c) * 3,
				LLY:    float64(r) * 4,
				Status: circuit.StatusUnplaced,
			})
			indices = append(indices, idx)
		}
	}

	// Chain consecutive cells, running on from the end of one row to the
	// start of the next, plus a fan-out net touching the
	// fixed macro so the quadratic solve has something to pull against it.
	for i := 0; i+1 < len(indices); i++ {
		_, _ = model.AddNet(circuit.Net{Weight: 1, Pins: []circuit.PinRef{
			{BlockIndex: indices[i]},
			{BlockIndex: indices[i+1]},
		}})
	}
	_, _ = model.AddNet(circuit.Net{Weight: 1, Pins: []circuit.PinRef{
		{BlockIndex: macroIdx},
		{BlockIndex: indices[0]},
		{BlockIndex: indices[len(indices)-1]},
	}})

	return model
}

func writeOutputs(model circuit.Model, stripes []stripe.Stripe, clusters [][]*legalize.Cluster, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := map[string]func(f *os.File) error{
		"_outline.txt": func(f *os.File) error { return ioexport.WriteOutline(f, model.Region()) },
		"_cluster.txt": func(f *os.File) error { return ioexport.WriteClusterRects(f, clusters) },
		"_pwell.txt":   func(f *os.File) error { return ioexport.WriteWellRects(f, clusters, true) },
		"_nwell.txt":   func(f *os.File) error { return ioexport.WriteWellRects(f, clusters, false) },
		"_well.rect": func(f *os.File) error {
			return ioexport.WriteWellRectManufacturingGrid(f, model.Region(), clusters, 1)
		},
		"_router.cluster": func(f *os.File) error {
			lefts := make([]float64, len(stripes))
			rights := make([]float64, len(stripes))
			for i, s := range stripes {
				lefts[i], rights[i] = s.Left, s.Right
			}
			return ioexport.WriteRouterClusters(f, lefts, rights, clusters)
		},
	}

	for name, write := range files {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = write(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
