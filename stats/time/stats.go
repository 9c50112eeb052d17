package time

import "math"

// Stats holds sample statistics of a velocity record.
type Stats struct {
	Length   int
	Mean     float64
	Variance float64 // population variance
	Std      float64
	Min      float64
	MinPos   int
	Max      float64
	MaxPos   int
	RMS      float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for numerical stability on higher-order moments.
func Calculate(signal []float64) Stats {
	var acc Accumulator
	acc.Update(signal)

	return acc.Result()
}

// Mean returns the Kahan-compensated mean of the signal, or 0 when empty.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// MeanStd returns the mean and the population standard deviation
// (normalized by N, not N-1).
func MeanStd(signal []float64) (mean, std float64) {
	mean, variance, _, _ := Moments(signal)

	return mean, math.Sqrt(variance)
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of the signal.
func Moments(signal []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(signal)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}

// Accumulator collects statistics incrementally across multiple blocks of
// samples. Results are identical to [Calculate] over the concatenated blocks.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	m3     float64
	m4     float64
	sumSq  float64
	minVal float64
	minPos int
	maxVal float64
	maxPos int
}

// Update adds a block of samples to the running statistics.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		if a.n == 0 || x < a.minVal {
			a.minVal, a.minPos = x, a.n
		}

		if a.n == 0 || x > a.maxVal {
			a.maxVal, a.maxPos = x, a.n
		}

		a.n++
		ni := float64(a.n)

		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		a.sumSq += x * x
	}
}

// Len returns the number of samples seen.
func (a *Accumulator) Len() int { return a.n }

// Result computes the statistics from the accumulated data.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return Stats{}
	}

	nf := float64(a.n)
	variance := a.m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (a.m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Length:   a.n,
		Mean:     a.mean,
		Variance: variance,
		Std:      math.Sqrt(variance),
		Min:      a.minVal,
		MinPos:   a.minPos,
		Max:      a.maxVal,
		MaxPos:   a.maxPos,
		RMS:      math.Sqrt(a.sumSq / nf),
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

// Reset clears all accumulated data.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
