// Package spectrum estimates power spectral density of sampled signals.
//
// [Welch] averages modified periodograms of overlapping, windowed and
// detrended segments. Each segment is zero-padded to the FFT length and
// transformed with algo-fft. Results are one-sided and density scaled, in
// signal units squared per hertz.
package spectrum
