package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/windprobe/dsp/window"
)

// Fixed analysis parameters for probe velocity spectra.
const (
	DefaultSegment = 256
	DefaultOverlap = 128
	DefaultFFTSize = 8192
)

// WelchConfig holds Welch estimator parameters.
type WelchConfig struct {
	// Segment is the number of samples per periodogram.
	Segment int
	// Overlap is the number of samples shared by consecutive segments.
	Overlap int
	// FFTSize is the zero-padded transform length. Must be a power of two.
	FFTSize int
	Window  window.Type
	Detrend Detrend
}

// WelchOption mutates a WelchConfig.
type WelchOption func(*WelchConfig)

// DefaultWelchConfig returns the 256/128/8192 Hann configuration with
// constant detrending.
func DefaultWelchConfig() WelchConfig {
	return WelchConfig{
		Segment: DefaultSegment,
		Overlap: DefaultOverlap,
		FFTSize: DefaultFFTSize,
		Window:  window.TypeHann,
		Detrend: DetrendConstant,
	}
}

// WithSegment sets the segment length.
func WithSegment(n int) WelchOption {
	return func(cfg *WelchConfig) {
		cfg.Segment = n
	}
}

// WithOverlap sets the segment overlap.
func WithOverlap(n int) WelchOption {
	return func(cfg *WelchConfig) {
		cfg.Overlap = n
	}
}

// WithFFTSize sets the zero-padded FFT length.
func WithFFTSize(n int) WelchOption {
	return func(cfg *WelchConfig) {
		cfg.FFTSize = n
	}
}

// WithWindow sets the segment window.
func WithWindow(t window.Type) WelchOption {
	return func(cfg *WelchConfig) {
		cfg.Window = t
	}
}

// WithDetrend sets the per-segment detrend mode.
func WithDetrend(d Detrend) WelchOption {
	return func(cfg *WelchConfig) {
		cfg.Detrend = d
	}
}

// Density is a one-sided power spectral density estimate.
type Density struct {
	// Frequencies in Hz, k*fs/FFTSize for k = 0..FFTSize/2.
	Frequencies []float64
	Power       []float64
	// Segments is the number of averaged periodograms.
	Segments int
	// SegmentLength is the segment length actually used.
	SegmentLength int
}

// Welch estimates the one-sided power spectral density of signal sampled at
// fs Hz.
//
// If the signal is shorter than the configured segment, the segment shrinks to
// the signal length. ErrSignalTooShort is returned when the overlap then
// covers the whole segment.
func Welch(signal []float64, fs float64, opts ...WelchOption) (*Density, error) {
	cfg := DefaultWelchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if err := validateSampleRate(fs); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	seg := cfg.Segment
	if len(signal) < seg {
		seg = len(signal)
	}

	if cfg.Overlap >= seg {
		return nil, fmt.Errorf("%w: %d samples, overlap %d", ErrSignalTooShort, len(signal), cfg.Overlap)
	}

	win := window.Generate(cfg.Window, seg, window.WithPeriodic())

	winPower, err := window.SumOfSquares(win)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	step := seg - cfg.Overlap
	segments := (len(signal) - cfg.Overlap) / step
	bins := cfg.FFTSize/2 + 1

	var (
		segBuf  = make([]float64, seg)
		in      = make([]complex128, cfg.FFTSize)
		out     = make([]complex128, cfg.FFTSize)
		binPow  = make([]float64, bins)
		average = make([]float64, bins)
	)

	for s := 0; s < segments; s++ {
		copy(segBuf, signal[s*step:s*step+seg])
		DetrendInPlace(segBuf, cfg.Detrend)

		if err := window.ApplyCoefficientsInPlace(segBuf, win); err != nil {
			return nil, err
		}

		for i, v := range segBuf {
			in[i] = complex(v, 0)
		}

		for i := seg; i < len(in); i++ {
			in[i] = 0
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
		}

		PowerTo(binPow, out)

		for k, p := range binPow {
			average[k] += p
		}
	}

	scale := 1 / (fs * winPower * float64(segments))
	nyquist := -1
	if cfg.FFTSize%2 == 0 {
		nyquist = bins - 1
	}

	freqs := make([]float64, bins)
	for k := range average {
		average[k] *= scale
		if k != 0 && k != nyquist {
			average[k] *= 2
		}

		freqs[k] = float64(k) * fs / float64(cfg.FFTSize)
	}

	return &Density{
		Frequencies:   freqs,
		Power:         average,
		Segments:      segments,
		SegmentLength: seg,
	}, nil
}

// WelchPSD estimates the spectrum of a velocity record with the fixed
// 256/128/8192 Hann configuration, which opts may override. The sampling
// rate is derived from time and the 0 Hz bin is dropped.
func WelchPSD(time, signal []float64, opts ...WelchOption) (freqs, power []float64, err error) {
	if len(time) != len(signal) {
		return nil, nil, fmt.Errorf("%w: time/signal length mismatch: %d != %d",
			ErrInvalidConfig, len(time), len(signal))
	}

	fs, err := SampleRate(time)
	if err != nil {
		return nil, nil, err
	}

	d, err := Welch(signal, fs, opts...)
	if err != nil {
		return nil, nil, err
	}

	freqs, power = DropZeroFrequency(d.Frequencies, d.Power)

	return freqs, power, nil
}
