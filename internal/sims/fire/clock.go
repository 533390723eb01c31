package fire

import "math"

// TickInfo describes a completed tick. Grid may be read by observers but must
// not be retained past the callback.
type TickInfo struct {
	Tick      uint64
	Time      float64 // simulated seconds after the tick
	DeltaTime float64
	Grid      *Grid
}

// TickObserver is notified after every completed tick.
type TickObserver interface {
	OnTick(TickInfo)
}

// TickObserverFunc adapts a function to TickObserver.
type TickObserverFunc func(TickInfo)

// OnTick calls f.
func (f TickObserverFunc) OnTick(info TickInfo) { f(info) }

// Clock advances a grid in fixed steps, running conduction, ignition and
// combustion strictly in that order.
type Clock struct {
	grid      *Grid
	constants Constants
	workers   int

	tick      uint64
	elapsed   float64
	observers []TickObserver
}

// NewClock binds a clock to g. The constants and worker count are copied out
// of cfg and stay fixed for the clock's lifetime; g's temperatures are
// saturated into the constants' range.
func NewClock(g *Grid, cfg Config) *Clock {
	g.setTempRange(cfg.Constants)
	return &Clock{grid: g, constants: cfg.Constants, workers: cfg.workers()}
}

// Observe registers o to be called after every tick.
func (c *Clock) Observe(o TickObserver) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

// Grid returns the grid driven by the clock.
func (c *Clock) Grid() *Grid { return c.grid }

// Constants returns the constants applied by every step.
func (c *Clock) Constants() Constants { return c.constants }

// Tick returns the number of completed ticks.
func (c *Clock) Tick() uint64 { return c.tick }

// Elapsed returns the simulated seconds since the clock started.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Step runs one tick of dt seconds. A non-positive or non-finite dt is
// rejected before anything is touched.
func (c *Clock) Step(dt float64) error {
	if err := checkTimestep(dt); err != nil {
		return err
	}
	advance(c.grid, c.constants, dt, c.workers)
	c.tick++
	c.elapsed += dt
	info := TickInfo{Tick: c.tick, Time: c.elapsed, DeltaTime: dt, Grid: c.grid}
	for _, o := range c.observers {
		o.OnTick(info)
	}
	return nil
}

// Run performs n ticks of dt seconds.
func (c *Clock) Run(n int, dt float64) error {
	for i := 0; i < n; i++ {
		if err := c.Step(dt); err != nil {
			return err
		}
	}
	return nil
}

// Ignite forces a cell above its ignition threshold using the clock's
// constants.
func (c *Clock) Ignite(row, col int) error {
	return c.grid.Ignite(row, col, c.constants)
}

// Step advances g by one tick without a Clock.
func Step(g *Grid, c Constants, dt float64) error {
	if err := checkTimestep(dt); err != nil {
		return err
	}
	advance(g, c, dt, Config{}.workers())
	return nil
}

func advance(g *Grid, c Constants, dt float64, workers int) {
	Conduct(g, c, dt, workers)
	UpdateIgnition(g, c, workers)
	Combust(g, c, dt, workers)
}

func checkTimestep(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return configErr("step", ErrInvalidTimestep, "%v", dt)
	}
	return nil
}
