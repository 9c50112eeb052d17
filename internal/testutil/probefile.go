package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// ProbeFile describes a synthetic probe time-series file.
type ProbeFile struct {
	// Locations are written as "# Probe <i> (x y z)" header lines.
	Locations [][3]float64
	// Header lines are written verbatim after the probe declarations.
	Header []string
	Time   []float64
	// Rows holds 3*len(Locations) velocity values per time step.
	Rows [][]float64
	// Parenthesized writes each probe's velocity as "(u v w)".
	Parenthesized bool
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Text renders the file contents.
func (p ProbeFile) Text() string {
	var b strings.Builder
	for i, loc := range p.Locations {
		b.WriteString("# Probe ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" (")
		b.WriteString(formatFloat(loc[0]) + " " + formatFloat(loc[1]) + " " + formatFloat(loc[2]))
		b.WriteString(")\n")
	}
	for _, h := range p.Header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for r, t := range p.Time {
		b.WriteString(formatFloat(t))
		row := p.Rows[r]
		for j, v := range row {
			b.WriteByte(' ')
			if p.Parenthesized && j%3 == 0 {
				b.WriteByte('(')
			}
			b.WriteString(formatFloat(v))
			if p.Parenthesized && j%3 == 2 {
				b.WriteByte(')')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Write stores the file in a test temp directory and returns its path.
func (p ProbeFile) Write(t testing.TB) string {
	t.Helper()
	return WriteText(t, "U", p.Text())
}

// WriteText stores raw text under name in a test temp directory.
func WriteText(t testing.TB, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// UniformProbeFile builds a file whose probes record constant mean flow
// plus deterministic noise: u = meanU[p] + noise, v = w = noise/2.
func UniformProbeFile(locations [][3]float64, meanU []float64, dt float64, steps int, seed int64) ProbeFile {
	pf := ProbeFile{
		Locations: locations,
		Header:    []string{"#   Time"},
		Time:      TimeAxis(dt, dt, steps),
		Rows:      make([][]float64, steps),
	}
	noise := DeterministicNoise(seed, 1, steps*3*len(locations))
	k := 0
	for r := range pf.Rows {
		row := make([]float64, 0, 3*len(locations))
		for p := range locations {
			row = append(row, meanU[p]+noise[k], noise[k+1]/2, noise[k+2]/2)
			k += 3
		}
		pf.Rows[r] = row
	}
	return pf
}
