// Package turbulence computes turbulence intensity of probe velocity
// records under variable-length time averaging.
//
// Turbulence intensity is the population standard deviation of a velocity
// component divided by its mean, in percent. Averaging intervals are given
// in seconds and converted to sample counts from the mean time step of the
// analysed range.
package turbulence
