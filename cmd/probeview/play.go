package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/windprobe/internal/schedule"
	"github.com/cwbudde/windprobe/measure/turbulence"
)

var errLastFrame = errors.New("last frame")

func newPlayCmd(opts *options) *cobra.Command {
	var (
		period time.Duration
		frame  float64
	)

	cmd := &cobra.Command{
		Use:   "play <probe-file>",
		Short: "Step a time window through the record and print the vertical profile",
		Long: `Plays back the record: every --period the next --frame seconds of data are
summarized per probe (mean velocity and Iu ordered by height). Playback
stops at the end of the selected range or on interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(frame > 0) {
				return fmt.Errorf("--frame must be positive: %v", frame)
			}

			ds, err := loadDataset(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, ds, false)
			if err != nil {
				return err
			}

			start, stop := s.TimeRange()
			out := cmd.OutOrStdout()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			tk, err := schedule.Start(ctx, period, func(_ context.Context, tick int64) error {
				t0 := start + float64(tick)*frame
				if t0 >= stop {
					return errLastFrame
				}

				t1 := min(t0+frame, stop)

				prof, err := turbulence.Profile(ds, t0, t1)
				if err != nil {
					slog.Debug("empty frame", "id", s.ID, "from", t0, "to", t1, "err", err)
					return nil
				}

				fmt.Fprintf(out, "frame %d: t = %g .. %g s\n", tick, t0, t1)

				return printProfile(out, prof)
			})
			if err != nil {
				return err
			}

			<-tk.Done()

			if err := tk.Err(); err != nil && !errors.Is(err, errLastFrame) {
				return err
			}

			slog.Debug("playback finished", "id", s.ID, "frames", tk.Ticks(), "skipped", tk.Skipped())

			return nil
		},
	}

	cmd.Flags().DurationVar(&period, "period", 200*time.Millisecond, "time between frames")
	cmd.Flags().Float64Var(&frame, "frame", 1, "frame length in seconds of data")

	return cmd
}
