package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"firesim/internal/core"
	"firesim/internal/sims/fire"
)

// Status is the externally visible progress of a run.
type Status struct {
	Tick   uint64  `json:"tick"`
	Time   float64 `json:"time"`
	Paused bool    `json:"paused"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// Controller is the simulation surface driven by the monitor.
type Controller interface {
	Status() Status
	Pause()
	Continue()
	StepOnce() (Status, error)
	Ignite(row, col int) error
	// Field copies one field together with the status of the tick it
	// belongs to.
	Field(f fire.Field) (Status, fire.Snapshot, error)
	Stats() fire.Stats
	// Subscribe delivers the status after every tick until cancel is
	// called. Slow subscribers miss updates instead of blocking the run.
	Subscribe() (updates <-chan Status, cancel func())
}

// Runner owns a clock and advances it on its own goroutine at a fixed tick
// rate. Every read goes through the same mutex as the tick, so callers only
// ever observe between-tick state.
type Runner struct {
	mu     sync.Mutex
	clock  *fire.Clock
	dt     float64
	paused bool
	limit  uint64
	timer  *core.FixedStep
	logger *slog.Logger

	subsMu  sync.Mutex
	subs    map[int]chan Status
	nextSub int
}

// NewRunner drives clock with ticks of dt simulated seconds at tps ticks per
// wall-clock second. The runner starts paused.
func NewRunner(clock *fire.Clock, dt float64, tps int) *Runner {
	return &Runner{
		clock:  clock,
		dt:     dt,
		paused: true,
		timer:  core.NewFixedStep(tps),
		logger: slog.Default(),
		subs:   map[int]chan Status{},
	}
}

// SetLogger replaces the logger used for run events.
func (r *Runner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// SetLimit pauses the run once the clock reaches ticks. Zero means no limit.
func (r *Runner) SetLimit(ticks uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = ticks
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	poll := max(r.timer.Interval()/4, time.Millisecond)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.mu.Lock()
			due := !r.paused && r.timer.ShouldStep()
			r.mu.Unlock()
			if !due {
				continue
			}
			if _, err := r.StepOnce(); err != nil {
				r.logger.Error("tick failed, pausing", "error", err)
				r.Pause()
			}
		}
	}
}

func (r *Runner) statusLocked() Status {
	g := r.clock.Grid()
	return Status{
		Tick:   r.clock.Tick(),
		Time:   r.clock.Elapsed(),
		Paused: r.paused,
		Width:  g.Width(),
		Height: g.Height(),
	}
}

// Status reports the current tick.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusLocked()
}

// Pause stops automatic ticking.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Continue resumes automatic ticking.
func (r *Runner) Continue() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && r.clock.Tick() >= r.limit {
		return
	}
	r.paused = false
	r.timer.Reset()
}

// StepOnce advances exactly one tick regardless of the pause state.
func (r *Runner) StepOnce() (Status, error) {
	r.mu.Lock()
	if err := r.clock.Step(r.dt); err != nil {
		r.mu.Unlock()
		return Status{}, err
	}
	if r.limit > 0 && r.clock.Tick() >= r.limit && !r.paused {
		r.paused = true
		r.logger.Info("tick limit reached", "tick", r.clock.Tick())
	}
	st := r.statusLocked()
	r.mu.Unlock()

	r.publish(st)
	return st, nil
}

// Ignite heats one cell above its ignition threshold.
func (r *Runner) Ignite(row, col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.Ignite(row, col)
}

// Field copies one field of the grid and the status it was taken at.
func (r *Runner) Field(f fire.Field) (Status, fire.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, err := r.clock.Grid().ReadField(f)
	return r.statusLocked(), snap, err
}

// Stats summarizes the grid.
func (r *Runner) Stats() fire.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.Grid().Stats()
}

// Subscribe registers a status listener.
func (r *Runner) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 8)
	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subsMu.Lock()
			delete(r.subs, id)
			r.subsMu.Unlock()
			close(ch)
		})
	}
}

func (r *Runner) publish(st Status) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- st:
		default:
		}
	}
}
