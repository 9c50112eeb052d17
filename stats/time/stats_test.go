package time

import (
	"math"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

// generateUniform creates a uniformly spaced signal from -1 to +1 (inclusive).
func generateUniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = -1 + 2*float64(i)/float64(n-1)
	}
	return out
}

func TestCalculate_Constant(t *testing.T) {
	s := Calculate([]float64{5, 5, 5, 5, 5})

	if s.Length != 5 {
		t.Errorf("Length: got %d, want 5", s.Length)
	}
	if !almostEqual(s.Mean, 5, tolerance) {
		t.Errorf("Mean: got %g, want 5", s.Mean)
	}
	if s.Variance != 0 || s.Std != 0 {
		t.Errorf("Variance/Std: got %g/%g, want 0", s.Variance, s.Std)
	}
	if s.Skewness != 0 || s.Kurtosis != 0 {
		t.Errorf("higher moments must be 0 for zero variance: %g %g", s.Skewness, s.Kurtosis)
	}
}

func TestCalculate_KnownValues(t *testing.T) {
	s := Calculate([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if !almostEqual(s.Mean, 5, tolerance) {
		t.Errorf("Mean: got %g, want 5", s.Mean)
	}
	if !almostEqual(s.Std, 2, tolerance) {
		t.Errorf("Std: got %g, want 2 (population)", s.Std)
	}
	if s.Min != 2 || s.MinPos != 0 || s.Max != 9 || s.MaxPos != 7 {
		t.Errorf("extrema: %+v", s)
	}
	if !almostEqual(s.RMS, math.Sqrt(29), tolerance) {
		t.Errorf("RMS: got %g, want sqrt(29)", s.RMS)
	}
}

func TestCalculate_UniformKurtosis(t *testing.T) {
	// A dense uniform distribution has excess kurtosis -1.2 and zero skew.
	s := Calculate(generateUniform(100001))

	if !almostEqual(s.Skewness, 0, 1e-9) {
		t.Errorf("Skewness: got %g, want 0", s.Skewness)
	}
	if !almostEqual(s.Kurtosis, -1.2, 1e-3) {
		t.Errorf("Kurtosis: got %g, want -1.2", s.Kurtosis)
	}
}

func TestCalculate_Empty(t *testing.T) {
	if s := Calculate(nil); s != (Stats{}) {
		t.Fatalf("expected zero Stats, got %+v", s)
	}
}

func TestMean_Compensated(t *testing.T) {
	signal := make([]float64, 1_000_000)
	for i := range signal {
		signal[i] = 0.1
	}

	if got := Mean(signal); !almostEqual(got, 0.1, 1e-15) {
		t.Fatalf("Mean: got %.17g, want 0.1", got)
	}

	if Mean(nil) != 0 {
		t.Fatal("Mean(nil) must be 0")
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{1, 3})
	if !almostEqual(mean, 2, tolerance) || !almostEqual(std, 1, tolerance) {
		t.Fatalf("MeanStd: got %g,%g want 2,1", mean, std)
	}
}

func TestMoments_OrderInvariant(t *testing.T) {
	a := []float64{3.2, 1.1, 8.5, 4.4, 2.9, 7.3}
	b := []float64{7.3, 2.9, 4.4, 8.5, 1.1, 3.2}

	ma, va, _, _ := Moments(a)
	mb, vb, _, _ := Moments(b)

	if !almostEqual(ma, mb, 1e-12) || !almostEqual(va, vb, 1e-12) {
		t.Fatalf("moments depend on order: %g/%g vs %g/%g", ma, va, mb, vb)
	}
}

func TestAccumulator_MatchesCalculate(t *testing.T) {
	signal := generateUniform(1000)
	for i := range signal {
		signal[i] = signal[i]*signal[i] + 0.3*signal[i]
	}

	var acc Accumulator
	acc.Update(signal[:100])
	acc.Update(signal[100:777])
	acc.Update(signal[777:])

	if got, want := acc.Result(), Calculate(signal); got != want {
		t.Fatalf("accumulator mismatch:\n got  %+v\n want %+v", got, want)
	}

	acc.Reset()
	if acc.Len() != 0 {
		t.Fatalf("Len after Reset: %d", acc.Len())
	}
}

func BenchmarkCalculate(b *testing.B) {
	sizes := []int{256, 4096, 65536}
	for _, n := range sizes {
		signal := generateUniform(n)
		b.Run(itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for range b.N {
				Calculate(signal)
			}
		})
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
