package moving

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the signal has no samples.
var ErrEmptyInput = errors.New("moving: empty input")

// Bounds returns the inclusive sample range [lo, hi] averaged for output
// index i of an n-sample signal with the given window length.
//
// For even windows the extra sample sits before i, so window 4 covers
// i-2..i+1.
func Bounds(i, n, window int) (lo, hi int) {
	lo = i - window/2
	hi = lo + window - 1

	if lo < 0 {
		lo = 0
	}

	if hi > n-1 {
		hi = n - 1
	}

	return lo, hi
}

// Centered returns the centered moving average of x using window samples.
//
// The result always has len(x) samples. A window of 1 returns a copy of x.
func Centered(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("moving: window must be > 0: %d", window)
	}

	if len(x) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]float64, len(x))
	if window == 1 {
		copy(out, x)
		return out, nil
	}

	CenteredTo(out, x, window, make([]float64, len(x)+1))

	return out, nil
}

// CenteredTo writes the centered moving average of src into dst.
//
// prefix is scratch space of at least len(src)+1 samples, letting callers
// smooth several components without reallocating. dst and src must have the
// same length and window must be positive.
func CenteredTo(dst, src []float64, window int, prefix []float64) {
	n := len(src)
	_ = dst[n-1] // bounds check hint
	prefix = prefix[:n+1]

	// Kahan-compensated running sum keeps long records from drifting.
	prefix[0] = 0

	var sum, c float64
	for i, x := range src {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		prefix[i+1] = sum
	}

	for i := range dst {
		lo, hi := Bounds(i, n, window)
		dst[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
}
