package cache

import (
	"errors"
	"slices"
)

// ErrNoLocations is returned when no resolver finds a locations array.
var ErrNoLocations = errors.New("cache: no locations array found")

// Resolver looks up probe locations among stored arrays. It returns the name
// of the array it used, or ok=false if it found nothing.
type Resolver interface {
	Resolve(arrays map[string]Array) (locs [][3]float64, name string, ok bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(arrays map[string]Array) ([][3]float64, string, bool)

// Resolve calls f(arrays).
func (f ResolverFunc) Resolve(arrays map[string]Array) ([][3]float64, string, bool) {
	return f(arrays)
}

// ByName resolves the array with the given name if it is locations-like.
func ByName(name string) Resolver {
	return ResolverFunc(func(arrays map[string]Array) ([][3]float64, string, bool) {
		a, ok := arrays[name]
		if !ok {
			return nil, "", false
		}

		locs, ok := asLocations(a)

		return locs, name, ok
	})
}

// Scan resolves the first locations-like array in name order.
func Scan() Resolver {
	return ResolverFunc(func(arrays map[string]Array) ([][3]float64, string, bool) {
		names := make([]string, 0, len(arrays))
		for name := range arrays {
			names = append(names, name)
		}
		slices.Sort(names)

		for _, name := range names {
			if locs, ok := asLocations(arrays[name]); ok {
				return locs, name, true
			}
		}

		return nil, "", false
	})
}

// DefaultResolvers returns the lookup order requested name, then
// "locations", then a scan over all arrays.
func DefaultResolvers(name string) []Resolver {
	var rs []Resolver
	if name != "" && name != NameLocations {
		rs = append(rs, ByName(name))
	}

	return append(rs, ByName(NameLocations), Scan())
}

// Resolve tries resolvers in order; the first match wins.
func Resolve(arrays map[string]Array, resolvers ...Resolver) ([][3]float64, string, error) {
	for _, r := range resolvers {
		if locs, name, ok := r.Resolve(arrays); ok {
			return locs, name, nil
		}
	}

	return nil, "", ErrNoLocations
}

// asLocations interprets a 2-D array with a dimension of 3 as N×3
// coordinates, transposing 3×N input.
func asLocations(a Array) ([][3]float64, bool) {
	if !a.Is2D() {
		return nil, false
	}

	switch {
	case a.Cols == 3:
		out := make([][3]float64, a.Rows)
		for r := range out {
			out[r] = [3]float64{a.At(r, 0), a.At(r, 1), a.At(r, 2)}
		}

		return out, true
	case a.Rows == 3:
		out := make([][3]float64, a.Cols)
		for c := range out {
			out[c] = [3]float64{a.At(0, c), a.At(1, c), a.At(2, c)}
		}

		return out, true
	}

	return nil, false
}
