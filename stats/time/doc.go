// Package time provides sample statistics for velocity time series: Welford
// moments, compensated means and a streaming accumulator.
//
// Variances are population variances (normalized by N), matching the
// turbulence-intensity definition.
package time
