package circuit

import "testing"

func twoCellModel(t *testing.T) (*InMemoryModel, int, int) {
	t.Helper()
	bt := &BlockType{Name: "T2X2", Width: 2, Height: 2, PinOffsets: []Point{{X: 1, Y: 1}}}
	m := NewInMemoryModel(Region{Left: 0, Right: 20, Bottom: 0, Top: 20}, Tech{MaxPlugDistance: 10, RowHeight: 2})

	ai, err := m.AddBlock(Block{Type: bt, LLX: 0, LLY: 0, Status: StatusUnplaced})
	if err != nil {
		t.Fatalf("AddBlock a: %v", err)
	}
	bi, err := m.AddBlock(Block{Type: bt, LLX: 10, LLY: 10, Status: StatusUnplaced})
	if err != nil {
		t.Fatalf("AddBlock b: %v", err)
	}
	if _, err := m.AddNet(Net{Weight: 1, Pins: []PinRef{{BlockIndex: ai, PinIndex: 0}, {BlockIndex: bi, PinIndex: 0}}}); err != nil {
		t.Fatalf("AddNet: %v", err)
	}
	return m, ai, bi
}

func TestInMemoryModelBasics(t *testing.T) {
	m, ai, bi := twoCellModel(t)

	if got := m.NumBlocks(); got != 2 {
		t.Errorf("NumBlocks() = %d, want 2", got)
	}
	if got := m.NumNets(); got != 1 {
		t.Errorf("NumNets() = %d, want 1", got)
	}

	movable := m.MovableIndices()
	if len(movable) != 2 || movable[0] != ai || movable[1] != bi {
		t.Errorf("MovableIndices() = %v, want [%d %d]", movable, ai, bi)
	}
	if len(m.FixedIndices()) != 0 {
		t.Errorf("FixedIndices() = %v, want empty", m.FixedIndices())
	}
}

func TestBlockRectAndCenters(t *testing.T) {
	m, ai, _ := twoCellModel(t)
	b := m.Block(ai)

	if w, h := b.Width(), b.EffHeight(); w != 2 || h != 2 {
		t.Errorf("Width/EffHeight = (%v, %v), want (2, 2)", w, h)
	}
	if cx, cy := b.CenterX(), b.CenterY(); cx != 1 || cy != 1 {
		t.Errorf("Center = (%v, %v), want (1, 1)", cx, cy)
	}
	r := b.Rect()
	if r.LLX != 0 || r.LLY != 0 || r.URX != 2 || r.URY != 2 {
		t.Errorf("Rect() = %+v, want {0 0 2 2}", r)
	}
}

func TestNetHPWLAndExtremes(t *testing.T) {
	m, _, _ := twoCellModel(t)
	n := m.Net(0)

	hpwl := n.HPWL(m.Position)
	// A(1,1) and B(11,11): dx=10, dy=10.
	if hpwl != 20 {
		t.Errorf("HPWL() = %v, want 20", hpwl)
	}

	e := n.ComputeExtremes(m.Position)
	if e.MinX != 1 || e.MaxX != 11 || e.MinY != 1 || e.MaxY != 11 {
		t.Errorf("ComputeExtremes() = %+v, want min/max (1,11)", e)
	}
}

func TestNetInvPMinus1AndIgnored(t *testing.T) {
	n := &Net{Pins: []PinRef{{}, {}, {}}}
	if got := n.InvPMinus1(); got != 0.5 {
		t.Errorf("InvPMinus1() = %v, want 0.5", got)
	}
	if n.Ignored(100) {
		t.Error("Ignored(100) = true for a 3-pin net, want false")
	}
	if !n.Ignored(2) {
		t.Error("Ignored(2) = false for a 3-pin net, want true")
	}
}

func TestRegionValid(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want bool
	}{
		{"valid", Region{Left: 0, Right: 10, Bottom: 0, Top: 10}, true},
		{"right<=left", Region{Left: 10, Right: 10, Bottom: 0, Top: 10}, false},
		{"top<=bottom", Region{Left: 0, Right: 10, Bottom: 10, Top: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrientationFlipped(t *testing.T) {
	tests := []struct {
		in, want Orientation
	}{
		{OrientN, OrientFS},
		{OrientFS, OrientN},
		{OrientS, OrientFN},
		{OrientFN, OrientS},
	}
	for _, tt := range tests {
		if got := tt.in.Flipped(); got != tt.want {
			t.Errorf("%v.Flipped() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
