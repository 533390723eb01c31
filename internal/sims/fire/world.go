package fire

import (
	"fmt"
	"log/slog"

	"firesim/internal/core"
	pcore "firesim/pkg/core"
)

// World adapts the engine to the core.Sim contract used by the viewer and
// the monitor: it owns a randomly laid out grid, a clock and a display
// buffer that is rebuilt after every tick.
type World struct {
	cfg Config

	grid  *Grid
	clock *Clock

	display []uint8
	logger  *slog.Logger
}

// New returns a fire world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from the provided options. The
// grid is laid out immediately with cfg.Seed.
func NewWithConfig(cfg Config) *World {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	w := &World{
		cfg:     cfg,
		display: make([]uint8, cfg.Width*cfg.Height),
		logger:  slog.Default(),
	}
	w.Reset(0)
	return w
}

// NewFromGrid wraps an existing grid, e.g. one built from a scenario file.
func NewFromGrid(g *Grid, cfg Config) *World {
	cfg.Width = g.Width()
	cfg.Height = g.Height()
	w := &World{
		cfg:     cfg,
		grid:    g,
		clock:   NewClock(g, cfg),
		display: make([]uint8, g.Len()),
		logger:  slog.Default(),
	}
	w.rebuildDisplay()
	return w
}

// SetLogger replaces the logger used to report rejected steps.
func (w *World) SetLogger(l *slog.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "fire" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Grid exposes the engine grid.
func (w *World) Grid() *Grid { return w.grid }

// Clock exposes the engine clock.
func (w *World) Clock() *Clock { return w.clock }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Reset lays out a fresh grid using deterministic randomness. A zero seed
// falls back to the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	materials := RandomLayout(w.cfg.Width, w.cfg.Height, w.cfg.Mix, effective)
	g, err := NewGrid(w.cfg.Width, w.cfg.Height, materials, Seed{
		Ambient: w.cfg.Ambient,
		MinTemp: w.cfg.Constants.MinTemp,
		MaxTemp: w.cfg.Constants.MaxTemp,
	})
	if err != nil {
		// RandomLayout only produces catalog materials for a valid shape.
		panic(err)
	}
	w.grid = g
	w.clock = NewClock(g, w.cfg)
	w.rebuildDisplay()
}

// Step advances the world by one tick of the configured Δt.
func (w *World) Step() {
	if err := w.clock.Step(w.cfg.DeltaTime); err != nil {
		w.logger.Warn("step rejected", "error", err)
		return
	}
	w.rebuildDisplay()
}

// Ignite heats the cell at column x, row y above its ignition point.
func (w *World) Ignite(x, y int) error {
	if err := w.clock.Ignite(y, x); err != nil {
		return err
	}
	w.rebuildDisplay()
	return nil
}

// Inspect describes the cell at column x, row y.
func (w *World) Inspect(x, y int) (string, error) {
	c, err := w.grid.CellAt(y, x)
	if err != nil {
		return "", err
	}
	eff, _ := w.grid.EffectiveIgnitionTemp(y, x, w.cfg.Constants)
	return fmt.Sprintf("%s ignites at %.1f°C", c, eff), nil
}

// Stats reports tick counters and fire progress for the HUD.
func (w *World) Stats() []core.Stat {
	s := w.grid.Stats()
	return []core.Stat{
		{Label: "Tick", Value: fmt.Sprintf("%d", w.clock.Tick())},
		{Label: "Time", Value: fmt.Sprintf("%.2fs", w.clock.Elapsed())},
		{Label: "Burning", Value: fmt.Sprintf("%d", s.Burning)},
		{Label: "Burned", Value: fmt.Sprintf("%d", s.Burned)},
		{Label: "Max temp", Value: fmt.Sprintf("%.0f°C", s.MaxTemp)},
	}
}

// RandomLayout draws a material for every cell from mix. The same seed always
// yields the same layout.
func RandomLayout(width, height int, mix Mix, seed int64) []Material {
	n := width * height
	if n <= 0 {
		return nil
	}
	rng := pcore.NewRNG(seed)
	order := Materials()
	weights := mix.weights()
	out := make([]Material, n)
	for i := range out {
		out[i] = order[rng.Weighted(weights)]
	}
	return out
}

func init() {
	core.Register("fire", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}

// TemperatureField exposes the live temperature field for overlays. Callers
// must not modify it.
func (w *World) TemperatureField() []float64 { return w.grid.Temperature() }

// TemperatureBounds returns the clamping range of the temperature field.
func (w *World) TemperatureBounds() (float64, float64) {
	return w.cfg.Constants.MinTemp, w.cfg.Constants.MaxTemp
}

// OxygenDepletion reports per cell how much of the ambient oxygen has been
// consumed, from 0 (untouched) to 1 (none left).
func (w *World) OxygenDepletion() []float32 {
	oxygen := w.grid.Oxygen()
	out := make([]float32, len(oxygen))
	ambient := w.cfg.Ambient.Oxygen
	if ambient <= 0 {
		return out
	}
	for i, o := range oxygen {
		out[i] = float32(clamp(1-o/ambient, 0, 1))
	}
	return out
}
