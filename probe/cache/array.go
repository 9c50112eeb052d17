package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Element types.
const (
	Float64 = "f64"
	Float32 = "f32"
)

// ErrCorrupt is returned when a stored array does not match its declared
// shape or type.
var ErrCorrupt = errors.New("cache: corrupt array")

// Array is a named numeric array of up to three dimensions. Exactly one of
// F64 and F32 is populated, matching DType.
type Array struct {
	Name  string
	DType string
	Rows  int
	Cols  int
	Depth int
	F64   []float64
	F32   []float32
}

// NewFloat64 returns a float64 array with the given shape.
func NewFloat64(name string, rows, cols int, data []float64) Array {
	return Array{Name: name, DType: Float64, Rows: rows, Cols: cols, Depth: 1, F64: data}
}

// NewFloat32 returns a float32 array with the given shape.
func NewFloat32(name string, rows, cols, depth int, data []float32) Array {
	return Array{Name: name, DType: Float32, Rows: rows, Cols: cols, Depth: depth, F32: data}
}

// Len returns the number of elements implied by the shape.
func (a Array) Len() int { return a.Rows * a.Cols * max(a.Depth, 1) }

// Is2D reports whether the array is a matrix with at least two columns.
// Column vectors count as one-dimensional.
func (a Array) Is2D() bool { return a.Depth <= 1 && a.Cols >= 2 && a.Rows >= 1 }

// At returns element (r, c) of a 2-D array as float64.
func (a Array) At(r, c int) float64 {
	i := r*a.Cols + c
	if a.DType == Float32 {
		return float64(a.F32[i])
	}

	return a.F64[i]
}

func (a Array) validate() error {
	switch a.DType {
	case Float64:
		if len(a.F64) != a.Len() {
			return fmt.Errorf("%w: %s has %d values, shape %dx%dx%d", ErrCorrupt, a.Name, len(a.F64), a.Rows, a.Cols, a.Depth)
		}
	case Float32:
		if len(a.F32) != a.Len() {
			return fmt.Errorf("%w: %s has %d values, shape %dx%dx%d", ErrCorrupt, a.Name, len(a.F32), a.Rows, a.Cols, a.Depth)
		}
	default:
		return fmt.Errorf("%w: %s has unknown dtype %q", ErrCorrupt, a.Name, a.DType)
	}

	return nil
}

func (a Array) encode() []byte {
	if a.DType == Float32 {
		buf := make([]byte, 0, 4*len(a.F32))
		for _, v := range a.F32 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}

		return buf
	}

	buf := make([]byte, 0, 8*len(a.F64))
	for _, v := range a.F64 {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func (a *Array) decode(blob []byte) error {
	n := a.Len()

	switch a.DType {
	case Float32:
		if len(blob) != 4*n {
			return fmt.Errorf("%w: %s payload is %d bytes, want %d", ErrCorrupt, a.Name, len(blob), 4*n)
		}

		a.F32 = make([]float32, n)
		for i := range a.F32 {
			a.F32[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
		}
	case Float64:
		if len(blob) != 8*n {
			return fmt.Errorf("%w: %s payload is %d bytes, want %d", ErrCorrupt, a.Name, len(blob), 8*n)
		}

		a.F64 = make([]float64, n)
		for i := range a.F64 {
			a.F64[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
		}
	default:
		return fmt.Errorf("%w: %s has unknown dtype %q", ErrCorrupt, a.Name, a.DType)
	}

	return nil
}
