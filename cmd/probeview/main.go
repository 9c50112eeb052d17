// Command probeview inspects wind-simulation probe files: probe locations,
// turbulence intensity under time averaging, Welch spectra, vertical
// profiles and exports.
//
// Usage:
//
//	probeview <command> [flags] <probe-file>
//
// Examples:
//
//	probeview info postProcessing/probes/0/U
//	probeview sweep --probe 3 --from 10 --to 60 --intervals 0.5,1,2,5 U
//	probeview psd --probe 2 --interval 1 --smoothed --out psd.csv U
//	probeview export --intervals 1,5 --out velocities.xlsx U
//	probeview locations --name probeLocations cache.db
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	probe     string
	from, to  float64
	intervals string
	interval  float64
	out       string
	cache     string
	verbose   bool
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "probeview",
		Short: "Inspect probe velocity time series",
		Long: `probeview reads probe time-series files and reports probe locations,
turbulence intensity under moving-average smoothing, Welch power spectral
densities and vertical profiles. Results can be exported as CSV or xlsx.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.probe, "probe", "p", "1", "probe index (1-based)")
	pf.Float64Var(&opts.from, "from", 0, "start of the time range (default: first time stamp)")
	pf.Float64Var(&opts.to, "to", 0, "end of the time range (default: last time stamp)")
	pf.StringVarP(&opts.intervals, "intervals", "i", "0.5,1,2,5", "comma-separated averaging intervals in seconds")
	pf.Float64VarP(&opts.interval, "interval", "L", 0, "current averaging interval in seconds (0: none)")
	pf.StringVarP(&opts.out, "out", "o", "", "output file")
	pf.StringVar(&opts.cache, "cache", "", "cache database used to speed up reloading")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newInfoCmd(opts),
		newLocationsCmd(opts),
		newIuCmd(opts),
		newSweepCmd(opts),
		newPSDCmd(opts),
		newExportCmd(opts),
		newCacheCmd(opts),
		newProfileCmd(opts),
		newPlayCmd(opts),
	)

	return root
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
