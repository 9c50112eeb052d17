package turbulence

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned for non-positive intervals, empty interval
// lists and empty or out-of-bounds time ranges.
var ErrInvalidParameter = errors.New("turbulence: invalid parameter")

func validateInterval(interval float64) error {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return fmt.Errorf("%w: interval must be a positive number of seconds: %v", ErrInvalidParameter, interval)
	}

	return nil
}

func validateLengths(time []float64, signals ...[]float64) error {
	if len(time) == 0 {
		return fmt.Errorf("%w: empty time series", ErrInvalidParameter)
	}

	for _, s := range signals {
		if len(s) != len(time) {
			return fmt.Errorf("%w: signal has %d samples, time has %d", ErrInvalidParameter, len(s), len(time))
		}
	}

	return nil
}
