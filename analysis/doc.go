// Package analysis is the entry point for viewers of probe data. It exposes
// the parse/intensity/smoothing/spectrum operations as plain functions and
// keeps per-viewer selection state in a [Session].
package analysis
