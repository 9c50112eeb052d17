package probe

import (
	"fmt"
	"slices"
)

// Velocity component indices.
const (
	U = iota
	V
	W
)

// Dataset is an immutable set of probe velocity records.
//
// Velocities are stored in single precision, time stamps in double
// precision. Accessors return copies.
type Dataset struct {
	time      []float64
	locations [][3]float64
	// velocities holds T*3*N values indexed (t*3+c)*N+p.
	velocities []float32
}

// NewDataset builds a dataset from raw arrays. velocities must hold
// len(time)*3*len(locations) values laid out time-major, then component,
// then probe. The arrays are copied.
func NewDataset(time []float64, locations [][3]float64, velocities []float32) (*Dataset, error) {
	if err := validateShape(len(time), len(locations), len(velocities)); err != nil {
		return nil, err
	}

	return &Dataset{
		time:       slices.Clone(time),
		locations:  slices.Clone(locations),
		velocities: slices.Clone(velocities),
	}, nil
}

// NumSteps returns the number of time steps T.
func (d *Dataset) NumSteps() int { return len(d.time) }

// NumProbes returns the number of probes N.
func (d *Dataset) NumProbes() int { return len(d.locations) }

// Time returns a copy of the time stamps.
func (d *Dataset) Time() []float64 { return slices.Clone(d.time) }

// Locations returns a copy of the N×3 probe coordinates.
func (d *Dataset) Locations() [][3]float64 { return slices.Clone(d.locations) }

// Location returns the coordinates of probe p (0-based).
func (d *Dataset) Location(p int) [3]float64 { return d.locations[p] }

// Velocity returns component c of probe p at time step t (all 0-based).
func (d *Dataset) Velocity(t, c, p int) float32 {
	return d.velocities[(t*3+c)*len(d.locations)+p]
}

// Velocities returns a copy of the flat T×3×N velocity array.
func (d *Dataset) Velocities() []float32 { return slices.Clone(d.velocities) }

// Component returns the time series of component c for probe p promoted to
// float64.
func (d *Dataset) Component(p, c int) []float64 {
	n := len(d.locations)
	out := make([]float64, len(d.time))
	for t := range out {
		out[t] = float64(d.velocities[(t*3+c)*n+p])
	}

	return out
}

// ComponentRange is like Component but only covers time steps [lo, hi).
func (d *Dataset) ComponentRange(p, c, lo, hi int) []float64 {
	n := len(d.locations)
	out := make([]float64, hi-lo)
	for i := range out {
		out[i] = float64(d.velocities[((lo+i)*3+c)*n+p])
	}

	return out
}

// TimeSpan returns the smallest and largest time stamps.
func (d *Dataset) TimeSpan() (lo, hi float64) {
	if len(d.time) == 0 {
		return 0, 0
	}

	return slices.Min(d.time), slices.Max(d.time)
}

// CheckProbe reports whether p is a valid 0-based probe index.
func (d *Dataset) CheckProbe(p int) error {
	if p < 0 || p >= len(d.locations) {
		return fmt.Errorf("probe: index %d out of range [0, %d)", p, len(d.locations))
	}

	return nil
}
