// Package probe reads wind-simulation probe time series.
//
// A probe file starts with a header of '#' comment lines. Header lines that
// mention "Probe" together with a parenthesized coordinate triple declare
// probe locations in file order:
//
//	# Probe 0 (0 0 0)
//	# Probe 1 (10 0 5)
//	#   Time
//	0.1 1.0 0.0 0.0 2.0 0.1 0.0
//
// Each data row holds the time stamp followed by u, v, w for every declared
// probe. Parentheses in the body are treated as delimiters, so rows written
// as "0.1 (1 0 0) (2 0.1 0)" parse identically.
package probe
