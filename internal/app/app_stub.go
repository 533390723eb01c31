//go:build !ebiten

package app

import (
	"errors"
	"log/slog"

	"firesim/internal/core"
)

// errNoViewer is returned by every entry point of the headless build.
var errNoViewer = errors.New("app: the fire viewer needs the 'ebiten' build tag")

// Game stands in for the viewer in headless builds.
type Game struct{}

// New panics; the viewer cannot be constructed without ebiten.
func New(core.Sim, *Config, *slog.Logger) *Game {
	panic(errNoViewer)
}

// Update reports errNoViewer.
func (g *Game) Update() error { return errNoViewer }

// Draw does nothing.
func (g *Game) Draw(any) {}

// Layout reports an empty window.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
