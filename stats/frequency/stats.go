package frequency

import "math"

// Stats holds shape statistics of a one-sided power spectral density.
type Stats struct {
	BinCount int
	// Peak is the largest density and PeakFrequency its frequency in Hz.
	Peak          float64
	PeakFrequency float64
	// Variance is the density integrated over frequency (trapezoidal rule),
	// the signal variance the spectrum accounts for.
	Variance  float64
	Centroid  float64 // power-weighted mean frequency (Hz)
	Spread    float64 // power-weighted standard deviation around Centroid (Hz)
	Flatness  float64 // geometric over arithmetic mean, 0..1
	Rolloff   float64 // frequency below which 85% of the power lies (Hz)
	Bandwidth float64 // half-power bandwidth around the peak (Hz)
}

// RolloffFraction is the power fraction used for [Stats].Rolloff.
const RolloffFraction = 0.85

// Calculate computes statistics of psd sampled at the ascending frequencies
// freqs. Both slices must have equal length; extra values are ignored.
func Calculate(freqs, psd []float64) Stats {
	n := min(len(freqs), len(psd))
	if n == 0 {
		return Stats{}
	}

	freqs, psd = freqs[:n], psd[:n]

	s := Stats{BinCount: n, Peak: psd[0], PeakFrequency: freqs[0]}

	var sum float64
	for i, v := range psd {
		sum += v
		if v > s.Peak {
			s.Peak = v
			s.PeakFrequency = freqs[i]
		}
	}

	s.Variance = Integrate(freqs, psd)
	s.Centroid = centroid(freqs, psd, sum)
	s.Spread = spread(freqs, psd, s.Centroid, sum)
	s.Flatness = Flatness(psd)
	s.Rolloff = Rolloff(freqs, psd, RolloffFraction)
	s.Bandwidth = Bandwidth(freqs, psd)

	return s
}

// Integrate returns the trapezoidal integral of psd over freqs.
func Integrate(freqs, psd []float64) float64 {
	n := min(len(freqs), len(psd))

	var area float64
	for i := 1; i < n; i++ {
		area += 0.5 * (psd[i] + psd[i-1]) * (freqs[i] - freqs[i-1])
	}

	return area
}

// Centroid returns the power-weighted mean frequency in Hz.
func Centroid(freqs, psd []float64) float64 {
	sum := 0.0
	for _, v := range psd {
		sum += v
	}

	return centroid(freqs, psd, sum)
}

func centroid(freqs, psd []float64, sum float64) float64 {
	if sum == 0 {
		return 0
	}

	weighted := 0.0
	for i, v := range psd {
		weighted += freqs[i] * v
	}

	return weighted / sum
}

func spread(freqs, psd []float64, cent, sum float64) float64 {
	if sum == 0 {
		return 0
	}

	weighted := 0.0
	for i, v := range psd {
		d := freqs[i] - cent
		weighted += d * d * v
	}

	return math.Sqrt(weighted / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
// Any zero bin makes the geometric mean, and thus the flatness, zero.
func Flatness(psd []float64) float64 {
	if len(psd) == 0 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for _, v := range psd {
		if v <= 0 {
			return 0
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	n := float64(len(psd))

	return math.Exp(sumLog/n) / (sumLin / n)
}

// Rolloff returns the first frequency at which the cumulative power reaches
// fraction (0..1) of the total.
func Rolloff(freqs, psd []float64, fraction float64) float64 {
	n := min(len(freqs), len(psd))
	if n == 0 {
		return 0
	}

	total := 0.0
	for _, v := range psd[:n] {
		total += v
	}

	if total == 0 {
		return 0
	}

	threshold := fraction * total
	cum := 0.0
	for i, v := range psd[:n] {
		cum += v
		if cum >= threshold {
			return freqs[i]
		}
	}

	return freqs[n-1]
}

// Bandwidth returns the width in Hz of the region around the spectral peak
// where the density stays above half the peak value. Crossings are linearly
// interpolated between bins.
func Bandwidth(freqs, psd []float64) float64 {
	n := min(len(freqs), len(psd))
	if n < 2 {
		return 0
	}

	peakBin := 0
	for i, v := range psd[:n] {
		if v > psd[peakBin] {
			peakBin = i
		}
	}

	if psd[peakBin] <= 0 {
		return 0
	}

	threshold := psd[peakBin] / 2

	lower := freqs[0]
	for i := peakBin; i >= 1; i-- {
		if psd[i-1] <= threshold && psd[i] > threshold {
			lower = interpFreq(freqs[i-1], freqs[i], psd[i-1], psd[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peakBin; i < n-1; i++ {
		if psd[i+1] <= threshold && psd[i] > threshold {
			upper = interpFreq(freqs[i], freqs[i+1], psd[i], psd[i+1], threshold)
			break
		}
	}

	return max(upper-lower, 0)
}

// interpFreq linearly interpolates the frequency where the density crosses
// threshold between two bins.
func interpFreq(fLow, fHigh, pLow, pHigh, threshold float64) float64 {
	denom := pHigh - pLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}

	t := (threshold - pLow) / denom

	return fLow + t*(fHigh-fLow)
}
