package turbulence

import (
	"fmt"
	"slices"

	"github.com/cwbudde/windprobe/dsp/filter/moving"
)

// SweepPoint is the turbulence intensity of u averaged over Interval seconds.
type SweepPoint struct {
	Interval float64
	Iu       float64
	Window   int
}

// SweepResult holds an Iu(L) curve and the unsmoothed baseline Iu(0).
type SweepResult struct {
	Baseline float64
	Points   []SweepPoint
}

// Sweep computes Iu of u smoothed over each interval. Points are returned in
// ascending interval order; v and w do not take part.
func Sweep(time, u []float64, intervals []float64) (SweepResult, error) {
	if len(intervals) == 0 {
		return SweepResult{}, fmt.Errorf("%w: empty interval list", ErrInvalidParameter)
	}

	for _, l := range intervals {
		if err := validateInterval(l); err != nil {
			return SweepResult{}, err
		}
	}

	if err := validateLengths(time, u); err != nil {
		return SweepResult{}, err
	}

	sorted := slices.Clone(intervals)
	slices.Sort(sorted)

	res := SweepResult{
		Baseline: Intensity(u),
		Points:   make([]SweepPoint, len(sorted)),
	}

	var (
		smoothed = make([]float64, len(u))
		prefix   = make([]float64, len(u)+1)
	)

	for i, l := range sorted {
		window, err := WindowSamples(l, time)
		if err != nil {
			return SweepResult{}, err
		}

		iu := res.Baseline
		if window > 1 {
			moving.CenteredTo(smoothed, u, window, prefix)
			iu = Intensity(smoothed)
		}

		res.Points[i] = SweepPoint{Interval: l, Iu: iu, Window: window}
	}

	return res, nil
}
