// Package export writes probe data and analysis results as CSV tables and
// xlsx workbooks. All files are written to a temporary file in the target
// directory and renamed into place.
package export
