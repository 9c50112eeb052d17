package probe

import (
	"errors"
	"testing"
)

func TestNewDatasetValidatesShape(t *testing.T) {
	if _, err := NewDataset([]float64{0, 1}, [][3]float64{{0, 0, 0}}, make([]float32, 5)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}

	ds, err := NewDataset([]float64{0, 1}, [][3]float64{{0, 0, 0}}, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewDataset error: %v", err)
	}

	if ds.Velocity(1, W, 0) != 6 {
		t.Fatalf("w(t=1)=%v want 6", ds.Velocity(1, W, 0))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	ds, err := NewDataset([]float64{0}, [][3]float64{{1, 2, 3}}, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("NewDataset error: %v", err)
	}

	ds.Time()[0] = 99
	ds.Locations()[0][0] = 99
	ds.Velocities()[0] = 99

	if ds.Time()[0] != 0 || ds.Location(0)[0] != 1 || ds.Velocity(0, U, 0) != 1 {
		t.Fatal("dataset was mutated through an accessor")
	}
}

func TestComponentRange(t *testing.T) {
	// Two probes, three steps; u of probe 1 is 10*t.
	vel := []float32{
		0, 0, 0, 0, 0, 0,
		0, 10, 0, 0, 0, 0,
		0, 20, 0, 0, 0, 0,
	}

	ds, err := NewDataset([]float64{0, 1, 2}, [][3]float64{{}, {}}, vel)
	if err != nil {
		t.Fatalf("NewDataset error: %v", err)
	}

	got := ds.ComponentRange(1, U, 1, 3)
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("ComponentRange=%v", got)
	}

	if err := ds.CheckProbe(2); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
