package cli

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"firesim/internal/logging"
	"firesim/internal/scenario"
	"firesim/internal/sims/fire"
)

type sweepOptions struct {
	sim      simOptions
	humidity []float64
	workers  int
}

// sweepResult summarizes one run of a sweep.
type sweepResult struct {
	humidity    float64
	burned      int
	cells       int
	peakBurning int
	peakTick    uint64
	extinctTick uint64 // 0 when the fire was still burning at the end
	maxTemp     float64
	err         error
}

func newSweepCmd() *cobra.Command {
	opts := &sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep [scenario.hcl]",
		Short: "Run one simulation per ambient humidity and compare the outcomes.",
		Long: `Sweep runs the same layout once per --humidity value on a pool of --workers ` +
			`goroutines and prints burned area, peak fire size and extinction tick. ` +
			`Regions that set their own humidity keep it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	fs := cmd.Flags()
	fs.Float64SliceVar(&opts.humidity, "humidity", []float64{0, 20, 40, 60, 80}, "ambient humidity values in percent")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of worker goroutines (env "+envWorkers+")")
	sim := pflag.NewFlagSet("sim", pflag.ContinueOnError)
	opts.sim.bind(sim)
	fs.AddFlagSet(sim)
	return cmd
}

func (o *sweepOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	base, err := o.sim.recipe(cmd, args)
	if err != nil {
		return err
	}
	// Parallelism comes from the pool, every run steps on one goroutine.
	base.Config.Workers = 1
	workers := max(o.workers, 1)

	logger.Info("sweep started", "scenario", base.Name, "runs", len(o.humidity), "workers", workers, "ticks", base.Ticks)
	start := time.Now()

	jobs := make(chan float64)
	results := make(chan sweepResult)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				results <- sweepOne(*base, h)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		defer close(jobs)
		for _, h := range o.humidity {
			select {
			case jobs <- h:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []sweepResult
	for res := range results {
		if res.err != nil {
			err = res.err
			continue
		}
		logger.Debug("sweep run done", "humidity", res.humidity, "burned", res.burned)
		all = append(all, res)
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].humidity < all[j].humidity })
	logger.Info("sweep finished", "runs", len(all), "elapsed", time.Since(start))
	return printSweep(cmd.OutOrStdout(), all)
}

// sweepOne runs s at ambient humidity h. s is a copy; its layout slices are
// only read.
func sweepOne(s scenario.Scenario, h float64) sweepResult {
	s.Config.Ambient.Humidity = h
	res := sweepResult{humidity: h}
	g, err := s.Build()
	if err != nil {
		res.err = err
		return res
	}
	res.cells = g.Len()
	clock := fire.NewClock(g, s.Config)
	clock.Observe(fire.TickObserverFunc(func(info fire.TickInfo) {
		st := info.Grid.Stats()
		if st.Burning > res.peakBurning {
			res.peakBurning = st.Burning
			res.peakTick = info.Tick
		}
		if st.Burning == 0 && st.Burned > 0 && res.extinctTick == 0 {
			res.extinctTick = info.Tick
		}
		res.maxTemp = max(res.maxTemp, st.MaxTemp)
	}))
	if err := clock.Run(s.Ticks, s.Config.DeltaTime); err != nil {
		res.err = err
		return res
	}
	res.burned = g.Stats().Burned
	return res
}

func printSweep(w io.Writer, all []sweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "humidity\tburned\tburned%\tpeak_burning\tpeak_tick\textinct_tick\tmax_temp")
	for _, r := range all {
		extinct := "-"
		if r.extinctTick > 0 {
			extinct = fmt.Sprint(r.extinctTick)
		}
		fmt.Fprintf(tw, "%.1f\t%d\t%.1f\t%d\t%d\t%s\t%.1f\n",
			r.humidity, r.burned, 100*float64(r.burned)/float64(max(r.cells, 1)), r.peakBurning, r.peakTick, extinct, r.maxTemp)
	}
	return tw.Flush()
}
