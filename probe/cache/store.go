package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cwbudde/windprobe/probe"
)

// Standard array names of a cached dataset.
const (
	NameLocations  = "locations"
	NameTime       = "time"
	NameVelocities = "velocities"
)

var (
	// ErrNotFound is returned when the cache file does not exist.
	ErrNotFound = errors.New("cache: file not found")
	// ErrMissingArray is returned when a required array is absent.
	ErrMissingArray = errors.New("cache: missing array")
)

const schema = `CREATE TABLE arrays (
	name  TEXT PRIMARY KEY,
	dtype TEXT NOT NULL,
	rows  INTEGER NOT NULL,
	cols  INTEGER NOT NULL,
	depth INTEGER NOT NULL,
	data  BLOB NOT NULL
)`

// WriteArrays stores arrays in a new database at path, replacing any
// existing file. The database is built in a temporary file next to path and
// renamed into place, so a failed write leaves the previous file intact.
func WriteArrays(ctx context.Context, path string, arrays ...Array) (err error) {
	for _, a := range arrays {
		if err := a.validate(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cache: close temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeDB(ctx, tmpPath, arrays); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cache: rename into place: %w", err)
	}

	return nil
}

func writeDB(ctx context.Context, path string, arrays []Array) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cache: open %s: %w", path, err)
	}

	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cache: close: %w", cerr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cache: create schema: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO arrays (name, dtype, rows, cols, depth, data) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cache: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range arrays {
		if _, err := stmt.ExecContext(ctx, a.Name, a.DType, a.Rows, a.Cols, max(a.Depth, 1), a.encode()); err != nil {
			return fmt.Errorf("cache: insert %s: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit: %w", err)
	}

	return nil
}

// ReadArrays returns every array stored in the database at path, keyed by
// name.
func ReadArrays(ctx context.Context, path string) (map[string]Array, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name, dtype, rows, cols, depth, data FROM arrays`)
	if err != nil {
		return nil, fmt.Errorf("cache: query arrays: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Array)

	for rows.Next() {
		var (
			a    Array
			blob []byte
		)

		if err := rows.Scan(&a.Name, &a.DType, &a.Rows, &a.Cols, &a.Depth, &blob); err != nil {
			return nil, fmt.Errorf("cache: scan: %w", err)
		}

		if err := a.decode(blob); err != nil {
			return nil, err
		}

		out[a.Name] = a
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: read arrays: %w", err)
	}

	return out, nil
}

// Save writes ds to path under the standard array names.
func Save(ctx context.Context, path string, ds *probe.Dataset) error {
	t, n := ds.NumSteps(), ds.NumProbes()

	locs := ds.Locations()
	flat := make([]float64, 0, 3*n)
	for _, l := range locs {
		flat = append(flat, l[0], l[1], l[2])
	}

	return WriteArrays(ctx, path,
		NewFloat64(NameLocations, n, 3, flat),
		NewFloat64(NameTime, t, 1, ds.Time()),
		NewFloat32(NameVelocities, t, 3, n, ds.Velocities()),
	)
}

// Load reads a dataset written by Save.
func Load(ctx context.Context, path string) (*probe.Dataset, error) {
	arrays, err := ReadArrays(ctx, path)
	if err != nil {
		return nil, err
	}

	timeArr, ok := arrays[NameTime]
	if !ok || timeArr.DType != Float64 {
		return nil, fmt.Errorf("%w: %s", ErrMissingArray, NameTime)
	}

	vel, ok := arrays[NameVelocities]
	if !ok || vel.DType != Float32 {
		return nil, fmt.Errorf("%w: %s", ErrMissingArray, NameVelocities)
	}

	locs, _, err := Resolve(arrays, ByName(NameLocations))
	if err != nil {
		return nil, err
	}

	return probe.NewDataset(timeArr.F64, locs, vel.F32)
}

// LoadLocations reads only probe locations from path. name selects the
// array to try first; an empty name skips straight to the defaults.
func LoadLocations(ctx context.Context, path, name string) ([][3]float64, error) {
	arrays, err := ReadArrays(ctx, path)
	if err != nil {
		return nil, err
	}

	locs, _, err := Resolve(arrays, DefaultResolvers(name)...)

	return locs, err
}
