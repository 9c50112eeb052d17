package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/windprobe/dsp/window"
	"github.com/cwbudde/windprobe/internal/testutil"
)

func TestWelchSinePeak(t *testing.T) {
	const fs = 100.0
	const f0 = 12.5

	x := testutil.DeterministicSine(f0, fs, 2, 4096)

	d, err := Welch(x, fs)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	if len(d.Frequencies) != DefaultFFTSize/2+1 || len(d.Power) != len(d.Frequencies) {
		t.Fatalf("unexpected lengths: %d %d", len(d.Frequencies), len(d.Power))
	}

	if d.Segments != (4096-DefaultOverlap)/(DefaultSegment-DefaultOverlap) {
		t.Fatalf("segments=%d", d.Segments)
	}

	peak := 0
	for k, p := range d.Power {
		if p > d.Power[peak] {
			peak = k
		}
	}

	if math.Abs(d.Frequencies[peak]-f0) > 1e-9 {
		t.Fatalf("peak at %v Hz, want %v Hz", d.Frequencies[peak], f0)
	}

	testutil.RequireFinite(t, d.Power)
	for k, p := range d.Power {
		if p < 0 {
			t.Fatalf("negative power at bin %d: %v", k, p)
		}
	}
}

func TestWelchParsevalIdentity(t *testing.T) {
	// With density scaling, integrating the one-sided spectrum recovers the
	// mean windowed segment energy divided by sum(w^2).
	const fs = 50.0

	x := testutil.DeterministicNoise(11, 1, 3000)

	d, err := Welch(x, fs)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	df := fs / DefaultFFTSize
	integral := 0.0
	for _, p := range d.Power {
		integral += p * df
	}

	win := window.Generate(window.TypeHann, DefaultSegment, window.WithPeriodic())
	s2, _ := window.SumOfSquares(win)
	step := DefaultSegment - DefaultOverlap

	energy := 0.0
	for s := 0; s < d.Segments; s++ {
		seg := append([]float64(nil), x[s*step:s*step+DefaultSegment]...)
		DetrendInPlace(seg, DetrendConstant)
		for i, v := range seg {
			energy += (v * win[i]) * (v * win[i])
		}
	}
	want := energy / s2 / float64(d.Segments)

	testutil.RequireRelativelyEqual(t, integral, want, 1e-9)

	// Uniform noise on [-1, 1] has variance 1/3.
	if math.Abs(integral-1.0/3) > 0.03 {
		t.Fatalf("integrated power %v far from variance 1/3", integral)
	}
}

func TestWelchMatchesReferenceFFT(t *testing.T) {
	const fs = 20.0

	x := testutil.DeterministicNoise(5, 2, DefaultSegment)
	for i := range x {
		x[i] += 7
	}

	d, err := Welch(x, fs)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	if d.Segments != 1 {
		t.Fatalf("segments=%d want 1", d.Segments)
	}

	seg := append([]float64(nil), x...)
	DetrendInPlace(seg, DetrendConstant)
	win := window.Generate(window.TypeHann, DefaultSegment, window.WithPeriodic())
	s2, _ := window.SumOfSquares(win)

	padded := make([]float64, DefaultFFTSize)
	for i := range seg {
		padded[i] = seg[i] * win[i]
	}

	ref := dspfft.FFTReal(padded)
	want := make([]float64, DefaultFFTSize/2+1)
	maxWant := 0.0
	for k := range want {
		a := cmplx.Abs(ref[k])
		want[k] = a * a / (fs * s2)
		if k != 0 && k != len(want)-1 {
			want[k] *= 2
		}
		maxWant = math.Max(maxWant, want[k])
	}

	testutil.RequireSliceNearlyEqual(t, d.Power, want, 1e-9*maxWant)
}

func TestWelchConstantSignalIsFlatZero(t *testing.T) {
	d, err := Welch(testutil.DC(5, 1000), 10)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	for k, p := range d.Power {
		if p > 1e-20 {
			t.Fatalf("bin %d: power %v, want ~0 after detrending", k, p)
		}
	}
}

func TestWelchShortSignal(t *testing.T) {
	d, err := Welch(testutil.DeterministicNoise(2, 1, 200), 10)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	if d.SegmentLength != 200 || d.Segments != 1 {
		t.Fatalf("segment=%d segments=%d, want 200/1", d.SegmentLength, d.Segments)
	}

	if _, err := Welch(testutil.DeterministicNoise(2, 1, 128), 10); !errors.Is(err, ErrSignalTooShort) {
		t.Fatalf("expected ErrSignalTooShort, got %v", err)
	}
}

func TestWelchOptions(t *testing.T) {
	x := testutil.DeterministicNoise(9, 1, 1024)

	d, err := Welch(x, 8,
		WithSegment(64),
		WithOverlap(32),
		WithFFTSize(128),
		WithWindow(window.TypeHamming),
		WithDetrend(DetrendLinear),
	)
	if err != nil {
		t.Fatalf("Welch error: %v", err)
	}

	if len(d.Power) != 65 {
		t.Fatalf("bins=%d want 65", len(d.Power))
	}

	if d.Segments != (1024-32)/32 {
		t.Fatalf("segments=%d", d.Segments)
	}

	if math.Abs(d.Frequencies[64]-4) > 1e-12 {
		t.Fatalf("nyquist=%v want 4", d.Frequencies[64])
	}
}

func TestWelchErrors(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 512)

	cases := []struct {
		name string
		sig  []float64
		fs   float64
		opts []WelchOption
		want error
	}{
		{"empty", nil, 1, nil, ErrEmptyInput},
		{"zero fs", x, 0, nil, ErrInvalidSampleRate},
		{"nan fs", x, math.NaN(), nil, ErrInvalidSampleRate},
		{"inf fs", x, math.Inf(1), nil, ErrInvalidSampleRate},
		{"zero segment", x, 1, []WelchOption{WithSegment(0)}, ErrInvalidConfig},
		{"negative overlap", x, 1, []WelchOption{WithOverlap(-1)}, ErrInvalidConfig},
		{"non power of two", x, 1, []WelchOption{WithFFTSize(1000)}, ErrInvalidConfig},
		{"fft shorter than segment", x, 1, []WelchOption{WithFFTSize(128)}, ErrInvalidConfig},
		{"overlap covers segment", x, 1, []WelchOption{WithSegment(64), WithOverlap(64)}, ErrSignalTooShort},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Welch(c.sig, c.fs, c.opts...); !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestWelchPSDDropsZeroFrequency(t *testing.T) {
	time := testutil.TimeAxis(0, 0.02, 5000)
	u := testutil.DeterministicNoise(3, 1, 5000)

	freqs, power, err := WelchPSD(time, u)
	if err != nil {
		t.Fatalf("WelchPSD error: %v", err)
	}

	if len(freqs) != DefaultFFTSize/2 || len(power) != len(freqs) {
		t.Fatalf("len=%d want %d", len(freqs), DefaultFFTSize/2)
	}

	for i, f := range freqs {
		if f == 0 {
			t.Fatalf("zero frequency at index %d", i)
		}
	}

	if math.Abs(freqs[len(freqs)-1]-25) > 1e-6 {
		t.Fatalf("last frequency %v, want Nyquist 25", freqs[len(freqs)-1])
	}
}

func TestWelchPSDOptions(t *testing.T) {
	time := testutil.TimeAxis(0, 0.02, 2000)
	u := testutil.DeterministicNoise(4, 1, 2000)

	freqs, power, err := WelchPSD(time, u, WithFFTSize(512), WithWindow(window.TypeBlackman))
	if err != nil {
		t.Fatalf("WelchPSD error: %v", err)
	}

	if len(freqs) != 256 || len(power) != 256 {
		t.Fatalf("len=%d/%d want 256", len(freqs), len(power))
	}

	def, _, err := WelchPSD(time, u)
	if err != nil {
		t.Fatalf("WelchPSD error: %v", err)
	}

	if len(def) != DefaultFFTSize/2 {
		t.Fatalf("options leaked into the default estimate: len=%d", len(def))
	}
}

func TestWelchPSDLengthMismatch(t *testing.T) {
	if _, _, err := WelchPSD([]float64{0, 1}, []float64{1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func BenchmarkWelch(b *testing.B) {
	x := testutil.DeterministicNoise(1, 1, 1<<15)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Welch(x, 100)
	}
}
