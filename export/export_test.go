package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/windprobe/analysis"
	"github.com/cwbudde/windprobe/internal/testutil"
	"github.com/cwbudde/windprobe/measure/turbulence"
)

func TestEncodeLocationsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeLocationsCSV(&buf, [][3]float64{{0, 0, 0}, {10, 0, 5.5}}); err != nil {
		t.Fatalf("EncodeLocationsCSV error: %v", err)
	}

	want := "ProbeID,X,Y,Z\n1,0,0,0\n2,10,0,5.5\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestWriteLocationsCSVAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.csv")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteLocationsCSV(path, [][3]float64{{1, 2, 3}}); err != nil {
		t.Fatalf("WriteLocationsCSV error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "ProbeID,X,Y,Z\n1,1,2,3\n" {
		t.Fatalf("unexpected content %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestWriteFailsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	if err := WriteLocationsCSV(path, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPSDCSV(t *testing.T) {
	var buf bytes.Buffer
	err := EncodePSDCSV(&buf, []float64{0.5, 1}, []float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	if err != nil {
		t.Fatalf("EncodePSDCSV error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if !slices.Equal(records[0], []string{"Frequency", "PSD_u", "PSD_v", "PSD_w"}) {
		t.Fatalf("header=%v", records[0])
	}

	if len(records) != 3 || !slices.Equal(records[2], []string{"1", "2", "4", "6"}) {
		t.Fatalf("records=%v", records)
	}

	path := filepath.Join(t.TempDir(), "psd.csv")
	if err := WritePSDCSV(path, []float64{1}, nil, []float64{1}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no file must be written on error")
	}
}

func sampleSession(t *testing.T) *analysis.Session {
	t.Helper()

	pf := testutil.UniformProbeFile([][3]float64{{0, 0, 1}}, []float64{7}, 0.05, 120, 5)

	ds, err := analysis.LoadProbeFile(pf.Write(t))
	if err != nil {
		t.Fatalf("LoadProbeFile error: %v", err)
	}

	s := analysis.NewSession(ds)
	if err := s.SetIntervals([]float64{1, 0.5}); err != nil {
		t.Fatalf("SetIntervals error: %v", err)
	}

	return s
}

func TestVelocityWorkbookLayout(t *testing.T) {
	wb, err := FromSession(sampleSession(t))
	if err != nil {
		t.Fatalf("FromSession error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "velocities.xlsx")
	if err := WriteVelocityWorkbook(path, wb); err != nil {
		t.Fatalf("WriteVelocityWorkbook error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer f.Close()

	wantSheets := []string{SheetRaw, "Avg 0.5s", "Avg 1s", SheetIu}
	if got := f.GetSheetList(); !slices.Equal(got, wantSheets) {
		t.Fatalf("sheets=%v want %v", got, wantSheets)
	}

	raw, err := f.GetRows(SheetRaw)
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}

	if len(raw) != 121 || !slices.Equal(raw[0], []string{"Time", "u", "v", "w"}) {
		t.Fatalf("raw sheet: %d rows, header %v", len(raw), raw[0])
	}

	iu, err := f.GetRows(SheetIu)
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}

	if len(iu) != 4 || iu[0][0] != "Interval (s)" {
		t.Fatalf("Iu sheet rows=%v", iu)
	}

	base, err := strconv.ParseFloat(iu[1][2], 64)
	if err != nil || math.Abs(base-wb.Baseline) > 1e-9*math.Abs(wb.Baseline) {
		t.Fatalf("baseline cell %q, want %v", iu[1][2], wb.Baseline)
	}

	if iu[2][0] != "0.5" || iu[3][0] != "1" {
		t.Fatalf("interval column %q %q", iu[2][0], iu[3][0])
	}
}

func TestVelocityWorkbookDegenerateIu(t *testing.T) {
	wb := &VelocityWorkbook{
		Raw:      Components{Time: []float64{0}, U: []float64{0}, V: []float64{0}, W: []float64{0}},
		Baseline: math.NaN(),
		Sweep:    []turbulence.SweepPoint{{Interval: 1, Iu: math.Inf(1), Window: 1}},
	}

	var buf bytes.Buffer
	if err := wb.Encode(&buf); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetIu)
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}

	if rows[1][2] != "NaN" || !strings.Contains(rows[2][2], "Inf") {
		t.Fatalf("degenerate cells %q %q", rows[1][2], rows[2][2])
	}
}

func TestVelocityWorkbookRejectsRaggedColumns(t *testing.T) {
	wb := &VelocityWorkbook{Raw: Components{Time: []float64{0, 1}, U: []float64{1}}}

	if err := wb.Encode(&bytes.Buffer{}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestAveragedSheetName(t *testing.T) {
	for in, want := range map[float64]string{0.5: "Avg 0.5s", 2: "Avg 2s", 0.25: "Avg 0.25s"} {
		if got := AveragedSheetName(in); got != want {
			t.Fatalf("AveragedSheetName(%v)=%q want %q", in, got, want)
		}
	}
}
