package turbulence

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/windprobe/dsp/filter/moving"
	timestats "github.com/cwbudde/windprobe/stats/time"
)

// Intensity returns std(samples)/mean(samples)*100 using the population
// standard deviation. A zero mean yields ±Inf or NaN; use [IsDegenerate] to
// detect it.
func Intensity(samples []float64) float64 {
	mean, std := timestats.MeanStd(samples)

	return std / mean * 100
}

// IsDegenerate reports whether an intensity value is not finite.
func IsDegenerate(iu float64) bool {
	return math.IsNaN(iu) || math.IsInf(iu, 0)
}

// TimeStep returns the mean spacing of time, or 0 for fewer than two stamps.
func TimeStep(time []float64) float64 {
	if len(time) < 2 {
		return 0
	}

	return (time[len(time)-1] - time[0]) / float64(len(time)-1)
}

// WindowSamples converts an averaging interval in seconds into a moving
// average length: max(1, round(interval/dt)) with dt the mean time step.
// Halves round to even. The result never exceeds 2*len(time).
func WindowSamples(interval float64, time []float64) (int, error) {
	if err := validateInterval(interval); err != nil {
		return 0, err
	}

	dt := TimeStep(time)
	if len(time) < 2 {
		return 1, nil
	}

	if !(dt > 0) {
		return 0, fmt.Errorf("%w: time step must be positive: %v", ErrInvalidParameter, dt)
	}

	// From 2n samples on the window covers the whole record at every
	// position, so larger counts are clamped before the int conversion.
	r := math.RoundToEven(interval / dt)
	if limit := float64(2 * len(time)); r > limit {
		r = limit
	}

	return max(1, int(r)), nil
}

// Range returns the index range [lo, hi) of samples with t0 <= time <= t1.
// time must be non-decreasing.
func Range(time []float64, t0, t1 float64) (lo, hi int, err error) {
	if math.IsNaN(t0) || math.IsNaN(t1) || t0 > t1 {
		return 0, 0, fmt.Errorf("%w: time range [%v, %v]", ErrInvalidParameter, t0, t1)
	}

	lo = sort.SearchFloat64s(time, t0)
	hi = sort.Search(len(time), func(i int) bool { return time[i] > t1 })

	if lo >= hi {
		return 0, 0, fmt.Errorf("%w: time range [%v, %v] contains no samples", ErrInvalidParameter, t0, t1)
	}

	return lo, hi, nil
}

// FilterRange returns the samples with t0 <= time <= t1. The returned slices
// alias the inputs.
func FilterRange(time, signal []float64, t0, t1 float64) (ts, xs []float64, err error) {
	if err := validateLengths(time, signal); err != nil {
		return nil, nil, err
	}

	lo, hi, err := Range(time, t0, t1)
	if err != nil {
		return nil, nil, err
	}

	return time[lo:hi], signal[lo:hi], nil
}

// Smoothed holds velocity components averaged over one interval.
type Smoothed struct {
	U, V, W []float64
	// Window is the moving-average length in samples.
	Window int
}

// Smooth averages u, v and w over interval seconds with a centered moving
// average. A window of one sample leaves the components unchanged.
func Smooth(time, u, v, w []float64, interval float64) (Smoothed, error) {
	if err := validateLengths(time, u, v, w); err != nil {
		return Smoothed{}, err
	}

	window, err := WindowSamples(interval, time)
	if err != nil {
		return Smoothed{}, err
	}

	out := Smoothed{
		U:      make([]float64, len(u)),
		V:      make([]float64, len(v)),
		W:      make([]float64, len(w)),
		Window: window,
	}

	if window == 1 {
		copy(out.U, u)
		copy(out.V, v)
		copy(out.W, w)

		return out, nil
	}

	prefix := make([]float64, len(time)+1)
	moving.CenteredTo(out.U, u, window, prefix)
	moving.CenteredTo(out.V, v, window, prefix)
	moving.CenteredTo(out.W, w, window, prefix)

	return out, nil
}
