package analysis

import (
	"errors"
	"fmt"

	"github.com/cwbudde/windprobe/measure/turbulence"
)

var (
	// ErrInvalidParameter is returned for non-positive intervals, empty or
	// out-of-bounds time ranges, bad probe indices and malformed lists.
	ErrInvalidParameter = turbulence.ErrInvalidParameter
	// ErrDegenerate marks a non-finite turbulence intensity, produced when
	// the mean velocity is zero.
	ErrDegenerate = errors.New("analysis: degenerate computation")
	// ErrBusy is returned when a computation for the session is already
	// running.
	ErrBusy = errors.New("analysis: computation in progress")
)

// CheckDegenerate returns an error wrapping ErrDegenerate if iu is not
// finite. Computations themselves return such values as-is.
func CheckDegenerate(iu float64) error {
	if turbulence.IsDegenerate(iu) {
		return fmt.Errorf("%w: turbulence intensity is %v (zero mean velocity)", ErrDegenerate, iu)
	}

	return nil
}
