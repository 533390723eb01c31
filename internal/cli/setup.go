package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"firesim/internal/recording"
	"firesim/internal/scenario"
	"firesim/internal/sims/fire"
)

// simOptions are the flags shared by every command that builds a grid.
type simOptions struct {
	ticks    int
	dt       float64
	width    int
	height   int
	seed     int64
	workers  int
	humidity float64
	ignite   []string
}

func (o *simOptions) bind(fs *pflag.FlagSet) {
	def := fire.DefaultConfig()
	fs.IntVar(&o.ticks, "ticks", scenario.DefaultTicks, "ticks to simulate")
	fs.Float64Var(&o.dt, "dt", def.DeltaTime, "seconds per tick")
	fs.IntVar(&o.width, "width", def.Width, "grid width for random layouts")
	fs.IntVar(&o.height, "height", def.Height, "grid height for random layouts")
	fs.Int64Var(&o.seed, "seed", def.Seed, "layout seed for random layouts")
	fs.IntVar(&o.workers, "workers", 0, "goroutines per step, 0 uses GOMAXPROCS (env "+envWorkers+")")
	fs.Float64Var(&o.humidity, "humidity", def.Ambient.Humidity, "ambient humidity in percent")
	fs.StringSliceVar(&o.ignite, "ignite", nil, "ignition points as row:col, the grid center when empty")
}

// simSetup is a ready-to-run grid with its configuration.
type simSetup struct {
	name  string
	grid  *fire.Grid
	cfg   fire.Config
	ticks int
}

// recipe resolves the scenario named by args, or describes a random layout
// when args is empty. Flags set on the command line override scenario values.
func (o *simOptions) recipe(cmd *cobra.Command, args []string) (*scenario.Scenario, error) {
	points, err := parsePoints(o.ignite)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if len(args) == 0 {
		cfg := fire.DefaultConfig()
		cfg.Width, cfg.Height = o.width, o.height
		cfg.DeltaTime = o.dt
		cfg.Seed = o.seed
		cfg.Workers = o.workers
		cfg.Ambient.Humidity = o.humidity
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, &fire.ConfigError{Op: "layout", Err: fire.ErrInvalidDimensions}
		}
		if len(points) == 0 {
			points = []scenario.Point{{Row: cfg.Height / 2, Col: cfg.Width / 2}}
		}
		return &scenario.Scenario{
			Name:       "random",
			Config:     cfg,
			Assignment: rows(fire.RandomLayout(cfg.Width, cfg.Height, cfg.Mix, cfg.Seed), cfg.Width),
			Ignitions:  points,
			Ticks:      o.ticks,
		}, nil
	}

	s, err := scenario.Load(args[0])
	if err != nil {
		return nil, err
	}
	if changed("dt") {
		s.Config.DeltaTime = o.dt
	}
	if changed("ticks") {
		s.Ticks = o.ticks
	}
	if changed("humidity") {
		s.Config.Ambient.Humidity = o.humidity
	}
	if o.workers > 0 {
		s.Config.Workers = o.workers
	}
	s.Ignitions = append(s.Ignitions, points...)
	return s, nil
}

// build resolves the recipe and constructs its grid.
func (o *simOptions) build(cmd *cobra.Command, args []string) (*simSetup, error) {
	s, err := o.recipe(cmd, args)
	if err != nil {
		return nil, err
	}
	g, err := s.Build()
	if err != nil {
		return nil, err
	}
	return &simSetup{name: s.Name, grid: g, cfg: s.Config, ticks: s.Ticks}, nil
}

func rows(flat []fire.Material, width int) [][]fire.Material {
	out := make([][]fire.Material, 0, len(flat)/width)
	for lo := 0; lo < len(flat); lo += width {
		out = append(out, flat[lo:lo+width])
	}
	return out
}

func parsePoints(specs []string) ([]scenario.Point, error) {
	var out []scenario.Point
	for _, spec := range specs {
		row, col, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("ignition %q: want row:col", spec)
		}
		r, err := strconv.Atoi(strings.TrimSpace(row))
		if err != nil {
			return nil, fmt.Errorf("ignition %q: %w", spec, err)
		}
		c, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return nil, fmt.Errorf("ignition %q: %w", spec, err)
		}
		out = append(out, scenario.Point{Row: r, Col: c})
	}
	return out, nil
}

func parseFields(names []string) ([]fire.Field, error) {
	out := make([]fire.Field, 0, len(names))
	for _, name := range names {
		f, err := fire.ParseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// recordOptions attach a SQLite recorder to a clock.
type recordOptions struct {
	path   string
	every  uint64
	fields []string
}

func (o *recordOptions) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.path, "record", "", "record the run into this SQLite file or directory")
	fs.Uint64Var(&o.every, "every", 0, "store field frames every N ticks, 0 stores none")
	fs.StringSliceVar(&o.fields, "frame-fields", []string{"temperature", "burning", "burned"}, "fields stored in frames")
}

func (o *recordOptions) attach(s *simSetup, clock *fire.Clock) (*recording.Recorder, error) {
	if o.path == "" {
		return nil, nil
	}
	fields, err := parseFields(o.fields)
	if err != nil {
		return nil, err
	}
	rec, err := recording.New(o.path, recording.RunInfo{
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		DeltaTime: s.cfg.DeltaTime,
		Seed:      s.cfg.Seed,
		Scenario:  s.name,
	})
	if err != nil {
		return nil, err
	}
	rec.RecordFrames(o.every, fields...)
	clock.Observe(rec)
	return rec, nil
}

// closeInto closes c and joins its error into *err.
func closeInto(err *error, c io.Closer) {
	*err = errors.Join(*err, c.Close())
}
