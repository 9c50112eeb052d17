package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/windprobe/dsp/spectrum"
	"github.com/cwbudde/windprobe/dsp/window"
	"github.com/cwbudde/windprobe/export"
	"github.com/cwbudde/windprobe/measure/turbulence"
	"github.com/cwbudde/windprobe/probe"
	"github.com/cwbudde/windprobe/probe/cache"
	freqstats "github.com/cwbudde/windprobe/stats/frequency"
	timestats "github.com/cwbudde/windprobe/stats/time"
)

var errNoOutput = errors.New("--out is required")

var componentNames = [3]string{"u", "v", "w"}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <probe-file>",
		Short: "Print dataset shape and per-probe velocity statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			lo, hi := ds.TimeSpan()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "steps:  %d\nprobes: %d\ntime:   %g .. %g s\n", ds.NumSteps(), ds.NumProbes(), lo, hi)

			if fs, err := spectrum.SampleRate(ds.Time()); err == nil {
				fmt.Fprintf(out, "rate:   %.6g Hz\n", fs)
			}

			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Probe\tComp\tMean\tStd\tRMS\tMin\tMax\tSkew\tKurt\n")
			fmt.Fprintf(tw, "-----\t----\t----\t---\t---\t---\t---\t----\t----\n")

			for p := range ds.NumProbes() {
				for c, name := range componentNames {
					s := timestats.Calculate(ds.Component(p, c))
					fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.3f\n",
						p+1, name, s.Mean, s.Std, s.RMS, s.Min, s.Max, s.Skewness, s.Kurtosis)
				}
			}

			return tw.Flush()
		},
	}
}

func newLocationsCmd(opts *options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "locations <probe-file|cache.db>",
		Short: "List probe locations or write them as CSV",
		Long: `Lists probe locations. A .db argument is read as a cache database; the
array given by --name is tried first, then "locations", then any array
with a dimension of 3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				locs [][3]float64
				err  error
			)

			if strings.EqualFold(filepath.Ext(args[0]), ".db") {
				locs, err = cache.LoadLocations(cmd.Context(), args[0], name)
			} else {
				var ds *probe.Dataset
				ds, err = loadDataset(cmd.Context(), opts, args[0])
				if ds != nil {
					locs = ds.Locations()
				}
			}

			if err != nil {
				return err
			}

			if opts.out != "" {
				if err := export.WriteLocationsCSV(opts.out, locs); err != nil {
					return err
				}

				slog.Info("wrote locations", "path", opts.out, "probes", len(locs))

				return nil
			}

			return export.EncodeLocationsCSV(cmd.OutOrStdout(), locs)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "array name to look up in a cache database")

	return cmd
}

func newIuCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "iu <probe-file>",
		Short: "Turbulence intensity of one probe, raw and averaged over --interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, false)
			if err != nil {
				return err
			}

			v, err := s.Analyze()
			if err != nil {
				return err
			}

			warnDegenerate(s, "raw", v.IuRaw)
			warnDegenerate(s, "smoothed", v.IuSmoothed)

			t0, t1 := s.TimeRange()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "probe %d, t = %g .. %g s, %d samples\n", v.Probe, t0, t1, len(v.Time))
			fmt.Fprintf(out, "Iu raw:      %.4f %%\n", v.IuRaw)
			fmt.Fprintf(out, "Iu averaged: %.4f %% (L = %g s, %d samples)\n", v.IuSmoothed, s.Interval(), v.Smoothed.Window)

			return nil
		},
	}
}

func newSweepCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep <probe-file>",
		Short: "Turbulence intensity of u for each averaging interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, true)
			if err != nil {
				return err
			}

			res, err := s.Sweep()
			if err != nil {
				return err
			}

			return printSweep(cmd.OutOrStdout(), s.ID.String(), res)
		},
	}
}

func printSweep(w io.Writer, id string, res turbulence.SweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Interval [s]\tWindow\tIu [%%]\n")
	fmt.Fprintf(tw, "------------\t------\t------\n")
	fmt.Fprintf(tw, "0\t1\t%.4f\n", res.Baseline)

	for _, p := range res.Points {
		if turbulence.IsDegenerate(p.Iu) {
			slog.Warn("turbulence intensity not finite", "id", id, "interval", p.Interval)
		}

		fmt.Fprintf(tw, "%g\t%d\t%.4f\n", p.Interval, p.Window, p.Iu)
	}

	return tw.Flush()
}

func newPSDCmd(opts *options) *cobra.Command {
	var (
		smoothed bool
		winName  string
	)

	cmd := &cobra.Command{
		Use:   "psd <probe-file>",
		Short: "Welch power spectral density of u, v and w",
		Long: `Estimates the one-sided PSD of each velocity component with a 256-sample
periodic Hann window, 128 samples overlap and an 8192-point FFT. The 0 Hz
bin is omitted. With --out the spectra are written as CSV, otherwise the
spectral peak, integrated variance, centroid and 85% rolloff of each
component are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, false)
			if err != nil {
				return err
			}

			winType, err := window.ParseType(winName)
			if err != nil {
				return err
			}

			if enbw, err := window.EquivalentNoiseBandwidth(
				window.Generate(winType, spectrum.DefaultSegment, window.WithPeriodic())); err == nil {
				slog.Debug("psd window", "type", winName, "enbw_bins", enbw)
			}

			sp, err := s.Spectra(smoothed, spectrum.WithWindow(winType))
			if err != nil {
				return err
			}

			if opts.out != "" {
				if err := export.WritePSDCSV(opts.out, sp.Frequencies, sp.U, sp.V, sp.W); err != nil {
					return err
				}

				slog.Info("wrote spectra", "path", opts.out, "bins", len(sp.Frequencies))

				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Comp\tPeak [Hz]\tPSD at peak\tVariance\tCentroid [Hz]\tRolloff [Hz]\tBins\n")
			fmt.Fprintf(tw, "----\t---------\t-----------\t--------\t-------------\t------------\t----\n")

			for i, power := range [][]float64{sp.U, sp.V, sp.W} {
				st := freqstats.Calculate(sp.Frequencies, power)
				fmt.Fprintf(tw, "%s\t%.5g\t%.5g\t%.5g\t%.5g\t%.5g\t%d\n",
					componentNames[i], st.PeakFrequency, st.Peak, st.Variance, st.Centroid, st.Rolloff, st.BinCount)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&smoothed, "smoothed", false, "average over --interval before estimating")
	cmd.Flags().StringVar(&winName, "window", "hann", "segment window: hann, hamming, blackman or rectangular")

	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <probe-file>",
		Short: "Write raw and averaged velocities plus the Iu table as xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out == "" {
				return errNoOutput
			}

			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, true)
			if err != nil {
				return err
			}

			wb, err := export.FromSession(s)
			if err != nil {
				return err
			}

			if err := export.WriteVelocityWorkbook(opts.out, wb); err != nil {
				return err
			}

			slog.Info("wrote workbook", "id", s.ID, "path", opts.out, "sheets", len(wb.Averaged)+2)

			return nil
		},
	}
}

func newCacheCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cache <probe-file>",
		Short: "Parse a probe file and store it as a cache database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out == "" {
				return errNoOutput
			}

			ds, err := probe.Parse(args[0])
			if err != nil {
				return err
			}

			if err := cache.Save(cmd.Context(), opts.out, ds); err != nil {
				return err
			}

			slog.Info("wrote cache", "path", opts.out, "steps", ds.NumSteps(), "probes", ds.NumProbes())

			return nil
		},
	}
}

func newProfileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <probe-file>",
		Short: "Mean velocity and Iu of every probe, ordered by height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, false)
			if err != nil {
				return err
			}

			t0, t1 := s.TimeRange()

			prof, err := turbulence.Profile(ds, t0, t1)
			if err != nil {
				return err
			}

			return printProfile(cmd.OutOrStdout(), prof)
		},
	}
}

func printProfile(w io.Writer, prof []turbulence.ProfilePoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Probe\tZ\tMean u\tMean v\tMean w\tIu [%%]\n")
	fmt.Fprintf(tw, "-----\t-\t------\t------\t------\t------\n")

	for _, p := range prof {
		fmt.Fprintf(tw, "%d\t%g\t%.4f\t%.4f\t%.4f\t%.4f\n",
			p.Probe+1, p.Location[2], p.MeanU, p.MeanV, p.MeanW, p.Iu)
	}

	return tw.Flush()
}
