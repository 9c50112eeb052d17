package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// PowerTo writes |X[k]|^2 for the first len(dst) bins of in into dst.
func PowerTo(dst []float64, in []complex128) {
	n := len(dst)
	re, im, buf := getScratch(n)

	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst, re, im)
	putScratch(buf)
}

// SampleRate returns 1/mean(diff(time)), the sampling rate implied by a
// uniformly sampled time axis.
func SampleRate(time []float64) (float64, error) {
	if len(time) < 2 {
		return 0, ErrEmptyInput
	}

	sum := 0.0
	for i := 1; i < len(time); i++ {
		sum += time[i] - time[i-1]
	}

	fs := float64(len(time)-1) / sum
	if err := validateSampleRate(fs); err != nil {
		return 0, err
	}

	return fs, nil
}

// DropZeroFrequency removes a leading 0 Hz bin so the spectrum can be shown
// on logarithmic axes. Other inputs are returned unchanged.
func DropZeroFrequency(freqs, power []float64) ([]float64, []float64) {
	if len(freqs) > 0 && freqs[0] == 0 {
		return freqs[1:], power[1:]
	}

	return freqs, power
}
