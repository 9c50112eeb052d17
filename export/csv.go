package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrLengthMismatch is returned when table columns differ in length.
var ErrLengthMismatch = errors.New("export: column length mismatch")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EncodeLocationsCSV writes probe locations with the header ProbeID,X,Y,Z.
// Probe IDs are 1-based.
func EncodeLocationsCSV(w io.Writer, locations [][3]float64) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ProbeID", "X", "Y", "Z"}); err != nil {
		return err
	}

	for i, loc := range locations {
		record := []string{
			strconv.Itoa(i + 1),
			formatFloat(loc[0]),
			formatFloat(loc[1]),
			formatFloat(loc[2]),
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteLocationsCSV writes probe locations to path.
func WriteLocationsCSV(path string, locations [][3]float64) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeLocationsCSV(w, locations)
	})
}

// EncodePSDCSV writes the spectra of u, v and w with the header
// Frequency,PSD_u,PSD_v,PSD_w.
func EncodePSDCSV(w io.Writer, freqs, u, v, wc []float64) error {
	if len(u) != len(freqs) || len(v) != len(freqs) || len(wc) != len(freqs) {
		return fmt.Errorf("%w: %d frequencies, PSD lengths %d/%d/%d",
			ErrLengthMismatch, len(freqs), len(u), len(v), len(wc))
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Frequency", "PSD_u", "PSD_v", "PSD_w"}); err != nil {
		return err
	}

	for k, f := range freqs {
		record := []string{formatFloat(f), formatFloat(u[k]), formatFloat(v[k]), formatFloat(wc[k])}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WritePSDCSV writes the spectra of u, v and w to path.
func WritePSDCSV(path string, freqs, u, v, w []float64) error {
	if len(u) != len(freqs) || len(v) != len(freqs) || len(w) != len(freqs) {
		return fmt.Errorf("%w: %d frequencies, PSD lengths %d/%d/%d",
			ErrLengthMismatch, len(freqs), len(u), len(v), len(w))
	}

	return writeAtomic(path, func(out io.Writer) error {
		return EncodePSDCSV(out, freqs, u, v, w)
	})
}
