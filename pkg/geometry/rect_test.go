package geometry

import "testing"

func TestRectArea(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want float64
	}{
		{"unit square", Rect{0, 0, 1, 1}, 1},
		{"2x3", Rect{0, 0, 2, 3}, 6},
		{"degenerate zero width", Rect{5, 0, 5, 3}, 0},
		{"inverted", Rect{5, 5, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Area(); got != tt.want {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 15, 15}
	c := Rect{10, 0, 20, 10} // touches a's right edge only

	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected a and c (edge-touching) to not overlap")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 15, 15}

	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected intersection to exist")
	}
	want := Rect{5, 5, 10, 10}
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	if _, ok := a.Intersect(Rect{20, 20, 30, 30}); ok {
		t.Error("expected no intersection for disjoint rects")
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	x, y := r.Clamp(-5, 15)
	if x != 0 || y != 10 {
		t.Errorf("Clamp() = (%v, %v), want (0, 10)", x, y)
	}
}

func TestGridIndexOf(t *testing.T) {
	g := NewGrid(Rect{0, 0, 100, 100}, 10, 10)
	idx := g.IndexOf(35, 72)
	if idx != (BinIndex{I: 3, J: 7}) {
		t.Errorf("IndexOf() = %v, want (3,7)", idx)
	}

	// Out-of-bounds points clamp to the nearest edge bin.
	if idx := g.IndexOf(-10, 500); idx != (BinIndex{I: 0, J: 9}) {
		t.Errorf("IndexOf() out-of-range = %v, want (0,9)", idx)
	}
}

func TestPrefixSum2DQuery(t *testing.T) {
	// 3x3 grid of bin values, all 1s => any inclusive window sums to its area.
	values := [][]float64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
	p := BuildPrefixSum2D(values, 3, 3)

	if got := p.Query(0, 0, 2, 2); got != 9 {
		t.Errorf("Query(full) = %v, want 9", got)
	}
	if got := p.Query(1, 1, 1, 1); got != 1 {
		t.Errorf("Query(single) = %v, want 1", got)
	}
	if got := p.Query(0, 0, 1, 1); got != 4 {
		t.Errorf("Query(2x2) = %v, want 4", got)
	}
}
