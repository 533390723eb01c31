//go:build ebiten

package main

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"firesim/internal/app"
	"firesim/internal/core"
	"firesim/internal/logging"
	"firesim/internal/scenario"
	_ "firesim/internal/sims/fire"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	level := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	pflag.Parse()

	logger := logging.New(*level, "text", os.Stderr)

	var sim core.Sim
	if cfg.Scenario != "" {
		s, err := scenario.Load(cfg.Scenario)
		if err != nil {
			log.Fatal(err)
		}
		w, err := s.World()
		if err != nil {
			log.Fatal(err)
		}
		w.SetLogger(logger)
		sim = w
	} else {
		factory, ok := core.Lookup(cfg.Sim)
		if !ok {
			log.Fatalf("unknown sim %q (available: %s)", cfg.Sim, strings.Join(core.Names(), ", "))
		}
		sim = factory(map[string]string{"seed": strconv.FormatInt(cfg.Seed, 10)})
	}

	game := app.New(sim, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("firesim - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
