// Package cache persists probe datasets as named numeric arrays in a SQLite
// database for fast reloading.
//
// Each array is one row of the arrays table:
//
//	CREATE TABLE arrays (name TEXT PRIMARY KEY, dtype TEXT,
//	                     rows INT, cols INT, depth INT, data BLOB)
//
// Payloads are little-endian IEEE 754 values in row-major order. A dataset
// uses the names "locations" (N×3 f64), "time" (T×1 f64) and "velocities"
// (T×3×N f32).
package cache
