package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/windprobe/analysis"
	"github.com/cwbudde/windprobe/measure/turbulence"
)

// Sheet names of a velocity workbook.
const (
	SheetRaw = "Raw"
	SheetIu  = "Iu"
)

// Components is a velocity record on a time axis.
type Components struct {
	Time    []float64
	U, V, W []float64
}

func (c Components) validate() error {
	n := len(c.Time)
	if len(c.U) != n || len(c.V) != n || len(c.W) != n {
		return fmt.Errorf("%w: %d time stamps, components %d/%d/%d",
			ErrLengthMismatch, n, len(c.U), len(c.V), len(c.W))
	}

	return nil
}

// Averaged is a velocity record smoothed over Interval seconds.
type Averaged struct {
	Interval float64
	Components
}

// VelocityWorkbook is the content of a velocity export: the raw record, one
// smoothed record per averaging interval and the Iu(L) table.
type VelocityWorkbook struct {
	Raw      Components
	Averaged []Averaged
	// Baseline is Iu of the unsmoothed record, written as interval 0.
	Baseline float64
	Sweep    []turbulence.SweepPoint
}

// AveragedSheetName returns the sheet name used for interval seconds.
func AveragedSheetName(interval float64) string {
	return "Avg " + strconv.FormatFloat(interval, 'g', -1, 64) + "s"
}

// FromSession collects the selected probe's raw record, its smoothed record
// for every session interval and the interval sweep.
func FromSession(s *analysis.Session) (*VelocityWorkbook, error) {
	res, err := s.Sweep()
	if err != nil {
		return nil, err
	}

	view, err := s.Analyze()
	if err != nil {
		return nil, err
	}

	wb := &VelocityWorkbook{
		Raw: Components{
			Time: view.Time,
			U:    view.Raw.U,
			V:    view.Raw.V,
			W:    view.Raw.W,
		},
		Baseline: res.Baseline,
		Sweep:    res.Points,
	}

	for _, p := range res.Points {
		sm, err := turbulence.Smooth(view.Time, view.Raw.U, view.Raw.V, view.Raw.W, p.Interval)
		if err != nil {
			return nil, err
		}

		wb.Averaged = append(wb.Averaged, Averaged{
			Interval:   p.Interval,
			Components: Components{Time: view.Time, U: sm.U, V: sm.V, W: sm.W},
		})
	}

	return wb, nil
}

// Encode writes the workbook as xlsx to w.
func (wb *VelocityWorkbook) Encode(w io.Writer) error {
	if err := wb.Raw.validate(); err != nil {
		return err
	}

	for _, a := range wb.Averaged {
		if err := a.validate(); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRaw); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := writeComponents(f, SheetRaw, wb.Raw); err != nil {
		return err
	}

	for _, a := range wb.Averaged {
		name := AveragedSheetName(a.Interval)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("export: add sheet %q: %w", name, err)
		}

		if err := writeComponents(f, name, a.Components); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetIu); err != nil {
		return fmt.Errorf("export: add sheet %q: %w", SheetIu, err)
	}

	if err := writeSweep(f, wb.Baseline, wb.Sweep); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteVelocityWorkbook writes wb as an xlsx file to path.
func WriteVelocityWorkbook(path string, wb *VelocityWorkbook) error {
	return writeAtomic(path, wb.Encode)
}

func writeComponents(f *excelize.File, sheet string, c Components) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("export: stream %q: %w", sheet, err)
	}

	if err := sw.SetRow("A1", []any{"Time", "u", "v", "w"}); err != nil {
		return fmt.Errorf("export: %q header: %w", sheet, err)
	}

	for i, t := range c.Time {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, []any{t, c.U[i], c.V[i], c.W[i]}); err != nil {
			return fmt.Errorf("export: %q row %d: %w", sheet, i+2, err)
		}
	}

	return sw.Flush()
}

func writeSweep(f *excelize.File, baseline float64, points []turbulence.SweepPoint) error {
	sw, err := f.NewStreamWriter(SheetIu)
	if err != nil {
		return fmt.Errorf("export: stream %q: %w", SheetIu, err)
	}

	if err := sw.SetRow("A1", []any{"Interval (s)", "Window (samples)", "Iu (%)"}); err != nil {
		return err
	}

	if err := sw.SetRow("A2", []any{0.0, 1, cellValue(baseline)}); err != nil {
		return err
	}

	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, []any{p.Interval, p.Window, cellValue(p.Iu)}); err != nil {
			return err
		}
	}

	return sw.Flush()
}

// cellValue writes non-finite intensities as text; xlsx has no NaN or Inf.
func cellValue(v float64) any {
	if turbulence.IsDegenerate(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return v
}
