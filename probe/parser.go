package probe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// maxLineSize bounds a single line; rows of many-probe files are long.
const maxLineSize = 64 << 20

// Parse reads the probe file at path.
func Parse(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer f.Close()

	return ParseReader(f)
}

// ParseReader reads probe file content from r. No dataset is returned when
// any line is malformed.
func ParseReader(r io.Reader) (*Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		line      int
		locations [][3]float64
		inHeader  = true
		time      []float64
		vel       []float32
		block     []float32
		width     int
	)

	for sc.Scan() {
		line++
		text := sc.Text()

		if inHeader {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				loc, ok, err := parseLocation(trimmed)
				if err != nil {
					return nil, formatErrorf(line, "%v", err)
				}

				if ok {
					locations = append(locations, loc)
				}

				continue
			}

			inHeader = false
			if len(locations) == 0 {
				return nil, formatErrorf(line, "no probe locations declared in header")
			}

			width = 3*len(locations) + 1
			block = make([]float32, 3*len(locations))
		}

		fields := strings.FieldsFunc(text, isDelimiter)
		if len(fields) == 0 {
			continue
		}

		if len(fields) != width {
			return nil, formatErrorf(line, "got %d columns, want %d for %d probes",
				len(fields), width, len(locations))
		}

		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, formatErrorf(line, "invalid time %q", fields[0])
		}

		n := len(locations)
		for j, tok := range fields[1:] {
			// Magnitudes beyond float32 saturate to ±Inf, as a float32
			// conversion would.
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, formatErrorf(line, "invalid value %q in column %d", tok, j+2)
			}

			p, c := j/3, j%3
			block[c*n+p] = float32(v)
		}

		time = append(time, t)
		vel = append(vel, block...)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("probe: read failed after line %d: %w", line, err)
	}

	if len(locations) == 0 {
		return nil, formatErrorf(0, "no probe locations declared in header")
	}

	if len(time) == 0 {
		return nil, formatErrorf(0, "no data rows")
	}

	return &Dataset{time: time, locations: locations, velocities: vel}, nil
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || unicode.IsSpace(r)
}

// parseLocation extracts the coordinate triple of a "Probe ... (x y z)"
// header line. ok is false for header lines that declare no probe.
func parseLocation(line string) (loc [3]float64, ok bool, err error) {
	if !strings.Contains(line, "Probe") {
		return loc, false, nil
	}

	open := strings.IndexByte(line, '(')
	if open < 0 {
		return loc, false, nil
	}

	end := strings.IndexByte(line[open:], ')')
	if end < 0 {
		return loc, false, nil
	}

	tokens := strings.Fields(line[open+1 : open+end])
	if len(tokens) < 3 {
		return loc, false, fmt.Errorf("probe location %q needs three coordinates", line[open:open+end+1])
	}

	for i := range loc {
		loc[i], err = strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return loc, false, fmt.Errorf("invalid probe coordinate %q", tokens[i])
		}
	}

	return loc, true, nil
}
