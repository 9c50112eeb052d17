package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/windprobe/analysis"
	"github.com/cwbudde/windprobe/probe"
)

func loadDataset(ctx context.Context, opts *options, path string) (*probe.Dataset, error) {
	start := time.Now()

	var (
		ds        *probe.Dataset
		fromCache bool
		err       error
	)

	if opts.cache != "" {
		ds, fromCache, err = analysis.LoadCached(ctx, path, opts.cache,
			analysis.WithCacheErrorHandler(func(err error) {
				slog.Warn("ignoring unreadable cache", "cache", opts.cache, "err", err)
			}))
	} else {
		ds, err = analysis.LoadProbeFile(path)
	}

	if err != nil {
		return nil, err
	}

	slog.Debug("loaded probe file",
		"path", path,
		"steps", ds.NumSteps(),
		"probes", ds.NumProbes(),
		"cached", fromCache,
		"elapsed", time.Since(start))

	return ds, nil
}

// newSession applies the selection flags to a fresh session.
func newSession(cmd *cobra.Command, opts *options, ds *probe.Dataset, needIntervals bool) (*analysis.Session, error) {
	s := analysis.NewSession(ds)

	p, err := analysis.ParseProbeIndex(opts.probe, ds.NumProbes())
	if err != nil {
		return nil, err
	}

	if err := s.SetProbe(p); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("from") || flags.Changed("to") {
		t0, t1 := s.TimeRange()
		if flags.Changed("from") {
			t0 = opts.from
		}

		if flags.Changed("to") {
			t1 = opts.to
		}

		if err := s.SetTimeRange(t0, t1); err != nil {
			return nil, err
		}
	}

	if needIntervals {
		intervals, err := analysis.ParseIntervals(opts.intervals)
		if err != nil {
			return nil, err
		}

		if err := s.SetIntervals(intervals); err != nil {
			return nil, err
		}
	}

	if opts.interval != 0 {
		if err := s.SetInterval(opts.interval); err != nil {
			return nil, err
		}
	}

	t0, t1 := s.TimeRange()
	slog.Debug("session",
		"id", s.ID,
		"probe", s.Probe(),
		"from", t0,
		"to", t1,
		"intervals", s.Intervals(),
		"interval", s.Interval())

	return s, nil
}

func warnDegenerate(s *analysis.Session, label string, iu float64) {
	if err := analysis.CheckDegenerate(iu); err != nil {
		slog.Warn("turbulence intensity not finite", "id", s.ID, "what", label, "err", err)
	}
}
