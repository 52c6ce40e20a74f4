package stripe

import (
	"testing"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/config"
)

func testModel(t *testing.T) *circuit.InMemoryModel {
	t.Helper()
	tech := circuit.Tech{MaxPlugDistance: 5, RowHeight: 2}
	m := circuit.NewInMemoryModel(circuit.Region{Left: 0, Right: 40, Bottom: 0, Top: 10}, tech)

	fixedType := &circuit.BlockType{Width: 4, Height: 2}
	if _, err := m.AddBlock(circuit.Block{Type: fixedType, LLX: 18, LLY: 2, Status: circuit.StatusFixed}); err != nil {
		t.Fatalf("AddBlock fixed: %v", err)
	}

	movType := &circuit.BlockType{Width: 1, Height: 1}
	for i := 0; i < 5; i++ {
		if _, err := m.AddBlock(circuit.Block{Type: movType, LLX: float64(i * 6), LLY: 0, Status: circuit.StatusUnplaced}); err != nil {
			t.Fatalf("AddBlock movable: %v", err)
		}
	}
	return m
}

func testOpts(t *testing.T) config.Options {
	t.Helper()
	var o config.Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	o.StripeWidthFactor = 2.0
	o.MinBlkWidth = 1.0
	return o
}

func TestBuildPartitionsFullWidth(t *testing.T) {
	m := testModel(t)
	o := testOpts(t)
	stripes := Build(m, o)

	if len(stripes) == 0 {
		t.Fatal("expected at least one stripe")
	}
	if stripes[0].Left != 0 {
		t.Errorf("first stripe left = %v, want 0", stripes[0].Left)
	}
	if got := stripes[len(stripes)-1].Right; got != 40 {
		t.Errorf("last stripe right = %v, want 40", got)
	}
	for i := 1; i < len(stripes); i++ {
		if stripes[i].Left != stripes[i-1].Right {
			t.Errorf("gap between stripe %d and %d: %v != %v", i-1, i, stripes[i-1].Right, stripes[i].Left)
		}
	}
}

func TestRowSegmentsExcludeFixedBlocks(t *testing.T) {
	m := testModel(t)
	o := testOpts(t)
	stripes := Build(m, o)

	found := false
	for _, s := range stripes {
		for _, row := range s.Rows {
			if row.Bottom == 2 {
				for _, seg := range row.Segments {
					if seg.Left < 22 && seg.Right > 18 {
						t.Errorf("segment %v overlaps fixed block [18,22)", seg)
					}
				}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("no row at bottom=2 found across stripes")
	}
}

func TestRowSegmentsDropShortSegments(t *testing.T) {
	m := testModel(t)
	o := testOpts(t)
	o.MinBlkWidth = 100
	stripes := Build(m, o)

	for _, s := range stripes {
		for _, row := range s.Rows {
			if len(row.Segments) != 0 {
				t.Errorf("stripe %d row %v: expected all segments dropped, got %v", s.Index, row, row.Segments)
			}
		}
	}
}

func TestMovableAssignedToCorrectStripe(t *testing.T) {
	m := testModel(t)
	o := testOpts(t)
	stripes := Build(m, o)

	total := 0
	for _, s := range stripes {
		for _, mi := range s.Movable {
			b := m.Block(mi)
			if cx := b.CenterX(); cx < s.Left || cx >= s.Right {
				t.Errorf("block %d center %v outside stripe [%v,%v)", mi, cx, s.Left, s.Right)
			}
		}
		total += len(s.Movable)
	}
	if total != 5 {
		t.Errorf("total movable across stripes = %d, want 5", total)
	}
}
