package lal

import (
	"testing"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
)

func denseModel(t *testing.T) *circuit.InMemoryModel {
	t.Helper()
	typ := &circuit.BlockType{Width: 1, Height: 1}
	m := circuit.NewInMemoryModel(circuit.Region{Left: 0, Right: 10, Bottom: 0, Top: 10}, circuit.Tech{})
	// Overfill a small area: pack 40 unit cells into a 10x10 region, all
	// centered at the same point so LAL must spread them apart.
	for i := 0; i < 40; i++ {
		if _, err := m.AddBlock(circuit.Block{Type: typ, LLX: 4.5, LLY: 4.5, Status: circuit.StatusUnplaced}); err != nil {
			t.Fatalf("AddBlock: %v", err)
		}
	}
	return m
}

func opts(t *testing.T) config.Options {
	t.Helper()
	var o config.Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	o.NumberOfCellInBin = 5
	return o
}

func TestRunSpreadsOverfilledCells(t *testing.T) {
	m := denseModel(t)
	o := opts(t)
	lz := New(m, o, nil)

	if err := lz.Run(m); err != nil {
		t.Fatalf("Run: %v", err)
	}

	seen := map[[2]float64]bool{}
	distinct := 0
	for _, i := range m.MovableIndices() {
		b := m.Block(i)
		if b.LLX < 0 || b.LLX+b.Width() > 10 || b.LLY < 0 || b.LLY+b.EffHeight() > 10 {
			t.Errorf("block %d left region bounds: (%v,%v)", i, b.LLX, b.LLY)
		}
		key := [2]float64{b.LLX, b.LLY}
		if !seen[key] {
			seen[key] = true
			distinct++
		}
	}
	if distinct < 2 {
		t.Errorf("expected cells to spread to distinct positions, got %d distinct", distinct)
	}
}

func TestChooseGridDimsMinimumOne(t *testing.T) {
	x, y := chooseGridDims(regionRect(circuit.Region{Left: 0, Right: 10, Bottom: 0, Top: 10}), 0, 30)
	if x < 1 || y < 1 {
		t.Errorf("chooseGridDims(0 cells) = (%d,%d), want >= (1,1)", x, y)
	}
}

func TestHPWLAfterSkipsIgnoredNets(t *testing.T) {
	typ := &circuit.BlockType{Width: 1, Height: 1, PinOffsets: []circuit.Point{{X: 0.5, Y: 0.5}}}
	m := circuit.NewInMemoryModel(circuit.Region{Left: 0, Right: 10, Bottom: 0, Top: 10}, circuit.Tech{})
	var pins []circuit.PinRef
	for i := 0; i < 5; i++ {
		idx, _ := m.AddBlock(circuit.Block{Type: typ, LLX: float64(i), LLY: 0, Status: circuit.StatusUnplaced})
		pins = append(pins, circuit.PinRef{BlockIndex: idx, PinIndex: 0})
	}
	if _, err := m.AddNet(circuit.Net{Weight: 1, Pins: pins}); err != nil {
		t.Fatalf("AddNet: %v", err)
	}

	if hpwl := HPWLAfter(m, 3); hpwl != 0 {
		t.Errorf("HPWLAfter with threshold below pin count = %v, want 0", hpwl)
	}
	if hpwl := HPWLAfter(m, 10); hpwl <= 0 {
		t.Errorf("HPWLAfter with threshold above pin count = %v, want > 0", hpwl)
	}
}
