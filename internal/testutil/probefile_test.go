package testutil

import (
	"os"
	"strings"
	"testing"
)

func TestProbeFileText(t *testing.T) {
	pf := ProbeFile{
		Locations:     [][3]float64{{0, 0, 0}, {10, 0, 5}},
		Header:        []string{"#   Time"},
		Time:          []float64{0.1},
		Rows:          [][]float64{{1, 2, 3, 4, 5, 6}},
		Parenthesized: true,
	}

	want := "# Probe 0 (0 0 0)\n# Probe 1 (10 0 5)\n#   Time\n0.1 (1 2 3) (4 5 6)\n"
	if got := pf.Text(); got != want {
		t.Fatalf("Text() =\n%q\nwant\n%q", got, want)
	}
}

func TestProbeFileWrite(t *testing.T) {
	pf := UniformProbeFile([][3]float64{{0, 0, 1}}, []float64{5}, 0.01, 10, 1)

	path := pf.Write(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	if len(strings.Fields(lines[2])) != 4 {
		t.Fatalf("data row has %d columns, want 4", len(strings.Fields(lines[2])))
	}
}
