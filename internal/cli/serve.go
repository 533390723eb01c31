package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firesim/internal/logging"
	"firesim/internal/monitor"
	"firesim/internal/sims/fire"
)

type serveOptions struct {
	sim    simOptions
	record recordOptions
	port   int
	open   bool
	tps    int
	limit  uint64
	paused bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve [scenario.hcl]",
		Short: "Run a simulation behind the HTTP and websocket monitor.",
		Long: `Serve runs the simulation in real time and exposes it on /api and /ws so ` +
			`external renderers can watch field frames, pause, step and ignite cells.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	fs := cmd.Flags()
	opts.sim.bind(fs)
	opts.record.bind(fs)
	fs.IntVar(&opts.port, "port", 0, "listening port, below 1000 picks a free one")
	fs.BoolVar(&opts.open, "open", false, "open the monitor in a browser")
	fs.IntVar(&opts.tps, "tps", 30, "ticks per wall-clock second")
	fs.Uint64Var(&opts.limit, "limit", 0, "pause once this tick is reached, 0 runs forever")
	fs.BoolVar(&opts.paused, "paused", false, "start paused")
	return cmd
}

func (o *serveOptions) run(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
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

	runner := monitor.NewRunner(clock, s.cfg.DeltaTime, o.tps)
	runner.SetLogger(logger)
	runner.SetLimit(o.limit)

	url, err := monitor.New(runner).WithPortNumber(o.port).WithLogger(logger).Start(ctx)
	if err != nil {
		return err
	}
	logger.Info("monitor listening", "url", url, "scenario", s.name, "width", s.cfg.Width, "height", s.cfg.Height, "dt", s.cfg.DeltaTime)
	if o.open {
		if err := monitor.OpenBrowser(url); err != nil {
			logger.Warn("cannot open browser", "error", err)
		}
	}
	if !o.paused {
		runner.Continue()
	}
	if err := runner.Run(ctx); err != nil {
		return err
	}

	st := runner.Stats()
	status := runner.Status()
	logger.Info("monitor stopped", "ticks", status.Tick, "burning", st.Burning, "burned", st.Burned)
	return nil
}
