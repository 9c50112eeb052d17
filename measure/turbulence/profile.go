package turbulence

import (
	"slices"

	"github.com/cwbudde/windprobe/probe"
	timestats "github.com/cwbudde/windprobe/stats/time"
)

// ProfilePoint summarizes one probe over a time range.
type ProfilePoint struct {
	// Probe is the 0-based probe index.
	Probe    int
	Location [3]float64
	MeanU    float64
	MeanV    float64
	MeanW    float64
	Iu       float64
}

// Profile returns mean velocities and Iu of every probe within [t0, t1],
// ordered by height (z) and then by probe index.
func Profile(ds *probe.Dataset, t0, t1 float64) ([]ProfilePoint, error) {
	lo, hi, err := Range(ds.Time(), t0, t1)
	if err != nil {
		return nil, err
	}

	out := make([]ProfilePoint, ds.NumProbes())
	for p := range out {
		u := ds.ComponentRange(p, probe.U, lo, hi)
		meanU, std := timestats.MeanStd(u)

		out[p] = ProfilePoint{
			Probe:    p,
			Location: ds.Location(p),
			MeanU:    meanU,
			MeanV:    timestats.Mean(ds.ComponentRange(p, probe.V, lo, hi)),
			MeanW:    timestats.Mean(ds.ComponentRange(p, probe.W, lo, hi)),
			Iu:       std / meanU * 100,
		}
	}

	slices.SortStableFunc(out, func(a, b ProfilePoint) int {
		switch {
		case a.Location[2] < b.Location[2]:
			return -1
		case a.Location[2] > b.Location[2]:
			return 1
		}

		return 0
	})

	return out, nil
}
