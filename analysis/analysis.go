package analysis

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/cwbudde/windprobe/dsp/filter/moving"
	"github.com/cwbudde/windprobe/dsp/spectrum"
	"github.com/cwbudde/windprobe/measure/turbulence"
	"github.com/cwbudde/windprobe/probe"
	"github.com/cwbudde/windprobe/probe/cache"
)

// LoadProbeFile parses the probe file at path.
func LoadProbeFile(path string) (*probe.Dataset, error) {
	return probe.Parse(path)
}

// LoadOption configures LoadCached.
type LoadOption func(*loadConfig)

type loadConfig struct {
	onCacheError func(error)
}

// WithCacheErrorHandler registers fn to receive cache read failures that
// LoadCached recovered from by re-parsing the probe file.
func WithCacheErrorHandler(fn func(error)) LoadOption {
	return func(c *loadConfig) { c.onCacheError = fn }
}

// LoadCached returns the dataset cached at cachePath if that file is at
// least as new as the probe file; otherwise it parses path and refreshes the
// cache. An unreadable cache is treated like a stale one. fromCache reports
// which source was used.
func LoadCached(ctx context.Context, path, cachePath string, opts ...LoadOption) (ds *probe.Dataset, fromCache bool, err error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	src, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", probe.ErrFileNotFound, err)
	}

	if c, err := os.Stat(cachePath); err == nil && !c.ModTime().Before(src.ModTime()) {
		ds, err := cache.Load(ctx, cachePath)
		if err == nil {
			return ds, true, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}

		if cfg.onCacheError != nil {
			cfg.onCacheError(err)
		}
	}

	ds, err = probe.Parse(path)
	if err != nil {
		return nil, false, err
	}

	if err := cache.Save(ctx, cachePath, ds); err != nil {
		return nil, false, err
	}

	return ds, false, nil
}

// TurbulenceIntensity returns std/mean*100 of samples.
func TurbulenceIntensity(samples []float64) float64 {
	return turbulence.Intensity(samples)
}

// MovingAverage smooths samples with a centered window of windowSamples,
// shrinking the window at the edges.
func MovingAverage(samples []float64, windowSamples int) ([]float64, error) {
	if windowSamples <= 0 {
		return nil, fmt.Errorf("%w: window must be >= 1 sample: %d", ErrInvalidParameter, windowSamples)
	}

	return moving.Centered(samples, windowSamples)
}

// WelchPSD returns the one-sided power spectral density of samples without
// the 0 Hz bin.
func WelchPSD(time, samples []float64, opts ...spectrum.WelchOption) (freqs, power []float64, err error) {
	return spectrum.WelchPSD(time, samples, opts...)
}

// SweepIntervals computes Iu of the u component of probeIndex (1-based)
// within [t0, t1] for each averaging interval.
func SweepIntervals(ds *probe.Dataset, probeIndex int, t0, t1 float64, intervals []float64) (turbulence.SweepResult, error) {
	if err := checkProbeIndex(ds, probeIndex); err != nil {
		return turbulence.SweepResult{}, err
	}

	time, u, err := turbulence.FilterRange(ds.Time(), ds.Component(probeIndex-1, probe.U), t0, t1)
	if err != nil {
		return turbulence.SweepResult{}, err
	}

	return turbulence.Sweep(time, u, intervals)
}

func checkProbeIndex(ds *probe.Dataset, p int) error {
	if p < 1 || p > ds.NumProbes() {
		return fmt.Errorf("%w: probe %d not in 1..%d", ErrInvalidParameter, p, ds.NumProbes())
	}

	return nil
}

// ParseProbeIndex parses a 1-based probe index and checks it against n
// probes. Non-integral input such as "2.5" is rejected.
func ParseProbeIndex(s string, n int) (int, error) {
	s = strings.TrimSpace(s)

	p, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: probe index %q is not an integer", ErrInvalidParameter, s)
		}

		p = int(f)
	}

	if p < 1 || p > n {
		return 0, fmt.Errorf("%w: probe %d not in 1..%d", ErrInvalidParameter, p, n)
	}

	return p, nil
}

// ParseIntervals parses a comma-separated list of positive interval lengths
// in seconds, e.g. "0.5, 1, 2". The result is sorted ascending.
func ParseIntervals(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty entry in interval list %q", ErrInvalidParameter, s)
		}

		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: interval %q is not a number", ErrInvalidParameter, part)
		}

		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: interval must be positive: %v", ErrInvalidParameter, v)
		}

		out = append(out, v)
	}

	slices.Sort(out)

	return out, nil
}
