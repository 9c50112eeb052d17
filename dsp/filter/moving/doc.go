// Package moving provides centered moving-average smoothing for sampled
// signals.
//
// The averaging window is truncated at the signal boundaries: the output has
// the same length as the input and edge samples average over the part of the
// window that overlaps the signal. No padding or reflection is applied.
package moving
