package analysis

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cwbudde/windprobe/dsp/spectrum"
	"github.com/cwbudde/windprobe/measure/turbulence"
	"github.com/cwbudde/windprobe/probe"
)

// Session holds one viewer's selection over a dataset: probe, time range,
// averaging intervals and the current interval. A sweep result is cached
// until the probe, range or interval list changes.
//
// Setters are safe for concurrent use. Computations are guarded so that a
// second computation started while one is running fails with ErrBusy.
type Session struct {
	ID uuid.UUID

	ds   *probe.Dataset
	busy atomic.Bool

	mu        sync.Mutex
	probe     int
	t0, t1    float64
	intervals []float64
	current   float64
	sweep     *turbulence.SweepResult
}

// NewSession selects probe 1 and the full time span of ds. The current
// interval starts at 0, meaning no averaging.
func NewSession(ds *probe.Dataset) *Session {
	t0, t1 := ds.TimeSpan()

	return &Session{
		ID:    uuid.New(),
		ds:    ds,
		probe: 1,
		t0:    t0,
		t1:    t1,
	}
}

// Dataset returns the session's dataset.
func (s *Session) Dataset() *probe.Dataset { return s.ds }

// Probe returns the selected 1-based probe index.
func (s *Session) Probe() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.probe
}

// TimeRange returns the selected range.
func (s *Session) TimeRange() (t0, t1 float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.t0, s.t1
}

// Intervals returns a copy of the sorted sweep intervals.
func (s *Session) Intervals() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.intervals)
}

// Interval returns the current averaging interval; 0 means none.
func (s *Session) Interval() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// SetProbe selects a 1-based probe index.
func (s *Session) SetProbe(p int) error {
	if err := checkProbeIndex(s.ds, p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p != s.probe {
		s.probe = p
		s.sweep = nil
	}

	return nil
}

// SetTimeRange selects [t0, t1]. The range must lie within the dataset's
// time span and contain at least one sample.
func (s *Session) SetTimeRange(t0, t1 float64) error {
	lo, hi := s.ds.TimeSpan()
	if math.IsNaN(t0) || math.IsNaN(t1) || t0 > t1 || t0 < lo || t1 > hi {
		return fmt.Errorf("%w: time range [%v, %v] not a part of [%v, %v]",
			ErrInvalidParameter, t0, t1, lo, hi)
	}

	if _, _, err := turbulence.Range(s.ds.Time(), t0, t1); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t0 != s.t0 || t1 != s.t1 {
		s.t0, s.t1 = t0, t1
		s.sweep = nil
	}

	return nil
}

// SetIntervals replaces the sweep interval list. Intervals must be positive;
// they are stored sorted ascending.
func (s *Session) SetIntervals(intervals []float64) error {
	if len(intervals) == 0 {
		return fmt.Errorf("%w: empty interval list", ErrInvalidParameter)
	}

	for _, l := range intervals {
		if !(l > 0) || math.IsInf(l, 0) {
			return fmt.Errorf("%w: interval must be positive: %v", ErrInvalidParameter, l)
		}
	}

	sorted := slices.Clone(intervals)
	slices.Sort(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Equal(sorted, s.intervals) {
		s.intervals = sorted
		s.sweep = nil
	}

	return nil
}

// SetInterval sets the current averaging interval in seconds.
func (s *Session) SetInterval(l float64) error {
	if !(l > 0) || math.IsInf(l, 0) {
		return fmt.Errorf("%w: interval must be positive: %v", ErrInvalidParameter, l)
	}

	s.mu.Lock()
	s.current = l
	s.mu.Unlock()

	return nil
}

// Begin marks a computation as running and returns the function that ends
// it. It fails with ErrBusy if one is already running.
func (s *Session) Begin() (end func(), err error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	var once sync.Once

	return func() { once.Do(func() { s.busy.Store(false) }) }, nil
}

// Busy reports whether a computation is running.
func (s *Session) Busy() bool { return s.busy.Load() }

type selection struct {
	probe     int
	t0, t1    float64
	intervals []float64
	current   float64
}

func (s *Session) selection() selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return selection{
		probe:     s.probe,
		t0:        s.t0,
		t1:        s.t1,
		intervals: slices.Clone(s.intervals),
		current:   s.current,
	}
}

// Sweep returns Iu(L) for the session's intervals, computing it only when
// the selection changed since the last call.
func (s *Session) Sweep() (turbulence.SweepResult, error) {
	end, err := s.Begin()
	if err != nil {
		return turbulence.SweepResult{}, err
	}
	defer end()

	s.mu.Lock()
	cached := s.sweep
	s.mu.Unlock()

	if cached != nil {
		return *cached, nil
	}

	sel := s.selection()

	res, err := SweepIntervals(s.ds, sel.probe, sel.t0, sel.t1, sel.intervals)
	if err != nil {
		return turbulence.SweepResult{}, err
	}

	s.mu.Lock()
	if s.probe == sel.probe && s.t0 == sel.t0 && s.t1 == sel.t1 && slices.Equal(s.intervals, sel.intervals) {
		s.sweep = &res
	}
	s.mu.Unlock()

	return res, nil
}

// View is the single-interval analysis of the selected probe and range.
type View struct {
	Probe    int
	Time     []float64
	Raw      turbulence.Smoothed
	Smoothed turbulence.Smoothed
	// IuRaw and IuSmoothed are the intensities of the u component.
	IuRaw      float64
	IuSmoothed float64
}

// Analyze smooths u, v and w of the selected probe over the current
// interval.
func (s *Session) Analyze() (View, error) {
	end, err := s.Begin()
	if err != nil {
		return View{}, err
	}
	defer end()

	sel := s.selection()

	return s.analyze(sel)
}

func (s *Session) analyze(sel selection) (View, error) {
	time, u, v, w, err := s.components(sel)
	if err != nil {
		return View{}, err
	}

	v0 := View{
		Probe: sel.probe,
		Time:  time,
		Raw:   turbulence.Smoothed{U: u, V: v, W: w, Window: 1},
		IuRaw: turbulence.Intensity(u),
	}

	if sel.current == 0 {
		v0.Smoothed = v0.Raw
		v0.IuSmoothed = v0.IuRaw

		return v0, nil
	}

	v0.Smoothed, err = turbulence.Smooth(time, u, v, w, sel.current)
	if err != nil {
		return View{}, err
	}

	v0.IuSmoothed = turbulence.Intensity(v0.Smoothed.U)

	return v0, nil
}

func (s *Session) components(sel selection) (time, u, v, w []float64, err error) {
	time = s.ds.Time()

	lo, hi, err := turbulence.Range(time, sel.t0, sel.t1)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	p := sel.probe - 1

	return time[lo:hi],
		s.ds.ComponentRange(p, probe.U, lo, hi),
		s.ds.ComponentRange(p, probe.V, lo, hi),
		s.ds.ComponentRange(p, probe.W, lo, hi),
		nil
}

// Spectra holds the power spectral densities of u, v and w on a shared
// frequency axis.
type Spectra struct {
	Frequencies []float64
	U, V, W     []float64
}

// Spectra estimates the PSD of each component of the selected probe. When
// smoothed is set, the components are first averaged over the current
// interval. opts adjust the Welch estimator.
func (s *Session) Spectra(smoothed bool, opts ...spectrum.WelchOption) (Spectra, error) {
	end, err := s.Begin()
	if err != nil {
		return Spectra{}, err
	}
	defer end()

	sel := s.selection()
	if !smoothed {
		sel.current = 0
	}

	view, err := s.analyze(sel)
	if err != nil {
		return Spectra{}, err
	}

	var out Spectra

	for i, x := range [][]float64{view.Smoothed.U, view.Smoothed.V, view.Smoothed.W} {
		freqs, power, err := spectrum.WelchPSD(view.Time, x, opts...)
		if err != nil {
			return Spectra{}, err
		}

		out.Frequencies = freqs

		switch i {
		case 0:
			out.U = power
		case 1:
			out.V = power
		default:
			out.W = power
		}
	}

	return out, nil
}
