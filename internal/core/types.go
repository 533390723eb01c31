package core

import (
	"maps"
	"slices"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a grid simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Igniter is implemented by sims that accept an external heat source at a
// cell, such as a mouse click in the viewer.
type Igniter interface {
	Ignite(x, y int) error
}

// Inspector reports a human readable description of a single cell.
type Inspector interface {
	Inspect(x, y int) (string, error)
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Names lists the registered simulations in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(sims))
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := sims[name]
	return f, ok
}
