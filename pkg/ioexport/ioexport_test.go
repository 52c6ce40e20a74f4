package ioexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opendali/placer/pkg/circuit"
	"github.com/opendali/placer/pkg/legalize"
)

func testClusters() [][]*legalize.Cluster {
	return [][]*legalize.Cluster{
		{
			{LLX: 0, LLY: 0, Width: 10, PHeight: 5, NHeight: 5},
			{LLX: 0, LLY: 10, Width: 10, PHeight: 6, NHeight: 4},
		},
	}
}

func TestWriteOutline(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutline(&buf, circuit.Region{Left: 0, Right: 100, Bottom: 0, Top: 50}); err != nil {
		t.Fatalf("WriteOutline: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "0 100 0 50" {
		t.Errorf("got %q", got)
	}
}

func TestWriteClusterRects(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteClusterRects(&buf, testClusters()); err != nil {
		t.Fatalf("WriteClusterRects: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "0 10 10 0 0 0 10 10") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

func TestWriteWellRectsSplitsPAndN(t *testing.T) {
	var pBuf, nBuf bytes.Buffer
	if err := WriteWellRects(&pBuf, testClusters(), true); err != nil {
		t.Fatalf("WriteWellRects p: %v", err)
	}
	if err := WriteWellRects(&nBuf, testClusters(), false); err != nil {
		t.Fatalf("WriteWellRects n: %v", err)
	}
	if !strings.Contains(pBuf.String(), "0 0 5 5") {
		t.Errorf("p-well line missing expected y-range: %q", pBuf.String())
	}
	if !strings.Contains(nBuf.String(), "5 5 10 10") {
		t.Errorf("n-well line missing expected y-range: %q", nBuf.String())
	}
}

func TestWriteWellRectManufacturingGrid(t *testing.T) {
	var buf bytes.Buffer
	region := circuit.Region{Left: 5, Right: 105, Bottom: 5, Top: 55}
	if err := WriteWellRectManufacturingGrid(&buf, region, testClusters(), 1); err != nil {
		t.Fatalf("WriteWellRectManufacturingGrid: %v", err)
	}
	if !strings.Contains(buf.String(), "pwell GND") || !strings.Contains(buf.String(), "nwell Vdd") {
		t.Errorf("missing expected labels: %q", buf.String())
	}
}

func TestWriteRouterClusters(t *testing.T) {
	var buf bytes.Buffer
	clusters := testClusters()
	if err := WriteRouterClusters(&buf, []float64{0}, []float64{10}, clusters); err != nil {
		t.Fatalf("WriteRouterClusters: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "STRIP column0") || !strings.Contains(out, "END column0") {
		t.Errorf("missing STRIP/END markers: %q", out)
	}
}
