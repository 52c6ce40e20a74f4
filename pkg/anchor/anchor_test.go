package anchor

import (
	"testing"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
	"github.com/opendali/placer/pkg/netmodel"
)

func oneBlockModel(t *testing.T) *circuit.InMemoryModel {
	t.Helper()
	typ := &circuit.BlockType{Width: 2, Height: 2}
	m := circuit.NewInMemoryModel(circuit.Region{Left: 0, Right: 10, Bottom: 0, Top: 10}, circuit.Tech{})
	if _, err := m.AddBlock(circuit.Block{Type: typ, LLX: 1, LLY: 1, Status: circuit.StatusUnplaced}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	return m
}

func defaultOpts(t *testing.T) config.Options {
	t.Helper()
	var o config.Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	return o
}

func TestAlphaGrowsAndCaps(t *testing.T) {
	m := oneBlockModel(t)
	o := defaultOpts(t)
	o.AlphaStep = 0.5
	o.AlphaMax = 1.0
	mgr := New(m, o)

	if mgr.Alpha() != 0 {
		t.Fatalf("initial alpha = %v, want 0", mgr.Alpha())
	}
	mgr.Capture(m)
	if mgr.Alpha() != 0.5 {
		t.Errorf("alpha after 1 capture = %v, want 0.5", mgr.Alpha())
	}
	mgr.Capture(m)
	mgr.Capture(m)
	if mgr.Alpha() != o.AlphaMax {
		t.Errorf("alpha should cap at %v, got %v", o.AlphaMax, mgr.Alpha())
	}
}

func TestAddSpringsNoopBeforeCapture(t *testing.T) {
	m := oneBlockModel(t)
	o := defaultOpts(t)
	mgr := New(m, o)
	fs := netmodel.NewFreeSet(m)
	mat := netmodel.NewMatrix(len(fs.BlockOf), 1)

	mgr.AddSprings(m, fs, mat, netmodel.AxisX, 1.0)
	if mat.Diag[0] != 0 {
		t.Errorf("expected no anchor spring before Capture, got diag %v", mat.Diag[0])
	}
}

func TestAddSpringsAfterCapture(t *testing.T) {
	m := oneBlockModel(t)
	o := defaultOpts(t)
	o.AlphaStep = 0.1
	mgr := New(m, o)
	mgr.Capture(m)

	fs := netmodel.NewFreeSet(m)
	mat := netmodel.NewMatrix(len(fs.BlockOf), 1)
	mgr.AddSprings(m, fs, mat, netmodel.AxisX, 1.0)

	if mat.Diag[0] <= 0 {
		t.Errorf("expected anchor spring on diag after Capture, got %v", mat.Diag[0])
	}
}
