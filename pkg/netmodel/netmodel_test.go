package netmodel

import (
	"testing"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
)

func twoCellModel(t *testing.T) *circuit.InMemoryModel {
	t.Helper()
	typ := &circuit.BlockType{Width: 2, Height: 2, PinOffsets: []circuit.Point{{X: 1, Y: 1}}}
	m := circuit.NewInMemoryModel(circuit.Region{Left: 0, Right: 20, Bottom: 0, Top: 20}, circuit.Tech{})
	a, _ := m.AddBlock(circuit.Block{Type: typ, LLX: 0, LLY: 0, Status: circuit.StatusUnplaced})
	b, _ := m.AddBlock(circuit.Block{Type: typ, LLX: 10, LLY: 10, Status: circuit.StatusUnplaced})
	if _, err := m.AddNet(circuit.Net{Weight: 1, Pins: []circuit.PinRef{{BlockIndex: a, PinIndex: 0}, {BlockIndex: b, PinIndex: 0}}}); err != nil {
		t.Fatalf("AddNet: %v", err)
	}
	return m
}

func defaultOpts(t *testing.T) config.Options {
	t.Helper()
	var opts config.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	return opts
}

func TestBuildSystemB2BSymmetric(t *testing.T) {
	m := twoCellModel(t)
	opts := defaultOpts(t)
	fs := NewFreeSet(m)
	mat := BuildSystem(m, fs, AxisX, opts)

	if !mat.IsSymmetric(1e-9) {
		t.Error("expected symmetric matrix")
	}
	if !mat.HasPositiveDiagonal() {
		t.Error("expected non-negative diagonal")
	}
	for i, d := range mat.Diag {
		if d <= 0 {
			t.Errorf("diag[%d] = %v, want > 0 for a net-connected pair", i, d)
		}
	}
}

func TestBuildSystemStarModel(t *testing.T) {
	m := twoCellModel(t)
	opts := defaultOpts(t)
	opts.NetModel = config.NetModelStar
	fs := NewFreeSet(m)
	mat := BuildSystem(m, fs, AxisX, opts)

	if !mat.IsSymmetric(1e-9) {
		t.Error("expected symmetric matrix under star elimination")
	}
}

func TestApplyMatchesLaplacian(t *testing.T) {
	mat := NewMatrix(2, 2)
	mat.AddSpring(0, 1, 3.0)
	y := mat.Apply([]float64{1, 4})
	// A = [[3,-3],[-3,3]]; A*[1,4] = [3*1-3*4, -3*1+3*4] = [-9, 9]
	if y[0] != -9 || y[1] != 9 {
		t.Errorf("Apply = %v, want [-9 9]", y)
	}
}

func TestFreeSetOrdering(t *testing.T) {
	m := twoCellModel(t)
	fs := NewFreeSet(m)
	if len(fs.BlockOf) != 2 {
		t.Fatalf("expected 2 free variables, got %d", len(fs.BlockOf))
	}
	for k, b := range fs.BlockOf {
		if fs.FreeOf[b] != k {
			t.Errorf("FreeOf[%d] = %d, want %d", b, fs.FreeOf[b], k)
		}
	}
}

func TestEpsilonUsesEpsilonFactor(t *testing.T) {
	m := twoCellModel(t)
	opts := defaultOpts(t)
	eps := Epsilon(m, AxisX, opts)
	want := 2.0 / opts.EpsilonFactor
	if eps != want {
		t.Errorf("Epsilon = %v, want %v", eps, want)
	}
}
