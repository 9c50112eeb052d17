package spectrum

import "fmt"

// Detrend selects the per-segment trend removal applied before windowing.
type Detrend int

const (
	DetrendNone Detrend = iota
	DetrendConstant
	DetrendLinear
)

// String returns the detrend mode name.
func (d Detrend) String() string {
	switch d {
	case DetrendNone:
		return "none"
	case DetrendConstant:
		return "constant"
	case DetrendLinear:
		return "linear"
	default:
		return fmt.Sprintf("detrend(%d)", int(d))
	}
}

// DetrendInPlace removes the selected trend from x.
func DetrendInPlace(x []float64, mode Detrend) {
	n := len(x)
	if n == 0 {
		return
	}

	switch mode {
	case DetrendConstant:
		mean := 0.0
		for _, v := range x {
			mean += v
		}
		mean /= float64(n)

		for i := range x {
			x[i] -= mean
		}
	case DetrendLinear:
		if n == 1 {
			x[0] = 0
			return
		}

		// Least-squares line over sample index, centered so the normal
		// equations decouple.
		center := float64(n-1) / 2

		var mean, sxy, sxx float64
		for i, v := range x {
			mean += v
			d := float64(i) - center
			sxy += d * v
			sxx += d * d
		}
		mean /= float64(n)
		slope := sxy / sxx

		for i := range x {
			x[i] -= mean + slope*(float64(i)-center)
		}
	}
}
