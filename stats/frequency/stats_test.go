package frequency

import (
	"math"
	"testing"

	"github.com/cwbudde/windprobe/dsp/spectrum"
	"github.com/cwbudde/windprobe/internal/testutil"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func TestCalculate_Flat(t *testing.T) {
	freqs := linspace(1, 11, 11)
	psd := testutil.DC(2, 11)

	s := Calculate(freqs, psd)

	if s.BinCount != 11 {
		t.Errorf("BinCount: got %d, want 11", s.BinCount)
	}
	if !almostEqual(s.Variance, 20, tolerance) {
		t.Errorf("Variance: got %g, want 20", s.Variance)
	}
	if !almostEqual(s.Centroid, 6, tolerance) {
		t.Errorf("Centroid: got %g, want 6", s.Centroid)
	}
	if !almostEqual(s.Flatness, 1, tolerance) {
		t.Errorf("Flatness: got %g, want 1", s.Flatness)
	}
	if s.PeakFrequency != 1 {
		t.Errorf("PeakFrequency: got %g, want first bin for a flat spectrum", s.PeakFrequency)
	}
	if !almostEqual(s.Bandwidth, 10, tolerance) {
		t.Errorf("Bandwidth: got %g, want full span 10", s.Bandwidth)
	}
}

func TestCalculate_SingleLine(t *testing.T) {
	freqs := linspace(0.5, 5, 10)
	psd := make([]float64, 10)
	psd[3] = 4

	s := Calculate(freqs, psd)

	if s.Peak != 4 || s.PeakFrequency != 2 {
		t.Errorf("peak %g at %g, want 4 at 2", s.Peak, s.PeakFrequency)
	}
	if !almostEqual(s.Centroid, 2, tolerance) || s.Spread != 0 {
		t.Errorf("Centroid/Spread: got %g/%g", s.Centroid, s.Spread)
	}
	if s.Flatness != 0 {
		t.Errorf("Flatness: got %g, want 0 with zero bins", s.Flatness)
	}
	if s.Rolloff != 2 {
		t.Errorf("Rolloff: got %g, want 2", s.Rolloff)
	}
	// Half-power crossings at 1.75 and 2.25 Hz.
	if !almostEqual(s.Bandwidth, 0.5, tolerance) {
		t.Errorf("Bandwidth: got %g, want 0.5", s.Bandwidth)
	}
}

func TestCalculate_Empty(t *testing.T) {
	if s := Calculate(nil, nil); s != (Stats{}) {
		t.Fatalf("expected zero Stats, got %+v", s)
	}
}

func TestRolloff(t *testing.T) {
	freqs := []float64{1, 2, 3, 4}
	psd := []float64{1, 1, 1, 1}

	if got := Rolloff(freqs, psd, 0.5); got != 2 {
		t.Fatalf("Rolloff(0.5)=%g want 2", got)
	}
	if got := Rolloff(freqs, psd, 0.85); got != 4 {
		t.Fatalf("Rolloff(0.85)=%g want 4", got)
	}
}

func TestVarianceMatchesWelchNoise(t *testing.T) {
	// The integrated Welch density of white noise recovers its variance.
	x := testutil.DeterministicNoise(8, 1, 20000)
	time := testutil.TimeAxis(0, 0.01, len(x))

	freqs, psd, err := spectrum.WelchPSD(time, x)
	if err != nil {
		t.Fatalf("WelchPSD error: %v", err)
	}

	s := Calculate(freqs, psd)
	if math.Abs(s.Variance-1.0/3) > 0.02 {
		t.Fatalf("Variance=%g want ~1/3", s.Variance)
	}

	if s.Flatness < 0.5 {
		t.Fatalf("white noise should be spectrally flat, got %g", s.Flatness)
	}
}

func BenchmarkCalculate(b *testing.B) {
	const n = 4096

	freqs := linspace(0.01, 50, n)
	psd := testutil.DeterministicNoise(4, 1, n)
	for i := range psd {
		psd[i] = psd[i]*psd[i] + 1e-6
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Calculate(freqs, psd)
	}
}
