package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"firesim/internal/logging"
	"firesim/internal/sims/fire"
)

type runOptions struct {
	sim    simOptions
	record recordOptions
	out    string
	fields []string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [scenario.hcl]",
		Short: "Run a simulation for a fixed number of ticks.",
		Long: `Run a scenario file, or a random layout when no file is given, for --ticks ` +
			`ticks. With --record every tick's statistics go into a SQLite database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	fs := cmd.Flags()
	opts.sim.bind(fs)
	opts.record.bind(fs)
	fs.StringVar(&opts.out, "out", "", "write a JSON export of the final grid to this file")
	fs.StringSliceVar(&opts.fields, "fields", nil, "fields written by --out, all fields when empty")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	s, err := o.sim.build(cmd, args)
	if err != nil {
		return err
	}
	clock := fire.NewClock(s.grid, s.cfg)
	rec, err := o.record.attach(s, clock)
	if err != nil {
		return err
	}
	if rec != nil {
		defer closeInto(&err, rec)
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		clock.Observe(fire.TickObserverFunc(func(info fire.TickInfo) {
			st := info.Grid.Stats()
			logger.Debug("tick", "tick", info.Tick, "time", info.Time, "burning", st.Burning, "burned", st.Burned, "max_temp", st.MaxTemp)
		}))
	}

	logger.Info("run started", "scenario", s.name, "width", s.cfg.Width, "height", s.cfg.Height, "dt", s.cfg.DeltaTime, "ticks", s.ticks)
	if err := advance(ctx, clock, s.ticks, s.cfg.DeltaTime); err != nil {
		return err
	}
	if rec != nil {
		if err := rec.Flush(); err != nil {
			return err
		}
		logger.Info("run recorded", "path", rec.Path(), "run_id", rec.RunID())
	}

	st := s.grid.Stats()
	logger.Info("run finished", "ticks", clock.Tick(), "time", clock.Elapsed(), "burning", st.Burning, "burned", st.Burned)
	printStats(cmd.OutOrStdout(), clock, st)

	if o.out == "" {
		return nil
	}
	fields, err := parseFields(o.fields)
	if err != nil {
		return err
	}
	return writeExport(cmd.OutOrStdout(), o.out, clock, s.cfg.DeltaTime, fields)
}

// advance steps the clock n times, stopping early when ctx is cancelled.
func advance(ctx context.Context, clock *fire.Clock, n int, dt float64) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := clock.Step(dt); err != nil {
			return err
		}
	}
	return nil
}

func printStats(w io.Writer, clock *fire.Clock, st fire.Stats) {
	fmt.Fprintf(w, "tick=%d time=%.2fs burning=%d burned=%d mean_temp=%.1f max_temp=%.1f fuel=%.1f oxygen=%.2f\n",
		clock.Tick(), clock.Elapsed(), st.Burning, st.Burned, st.MeanTemp, st.MaxTemp, st.Fuel, st.Oxygen)
}

func writeExport(stdout io.Writer, path string, clock *fire.Clock, dt float64, fields []fire.Field) error {
	exp, err := fire.ExportClock(clock, dt, fields...)
	if err != nil {
		return err
	}
	if path == "-" {
		return exp.Encode(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exp.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
