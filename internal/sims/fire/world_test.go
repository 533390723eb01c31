package fire

import (
	"slices"
	"strings"
	"testing"

	"firesim/internal/core"
)

func TestWorldRegistered(t *testing.T) {
	factory, ok := core.Lookup("fire")
	if !ok {
		t.Fatal("fire simulation is not registered")
	}
	sim := factory(map[string]string{"w": "12", "h": "8"})
	if sim.Name() != "fire" {
		t.Fatalf("registered sim is %q", sim.Name())
	}
	if got := sim.Size(); got.W != 12 || got.H != 8 {
		t.Fatalf("size = %+v", got)
	}
	if len(sim.Cells()) != 96 {
		t.Fatalf("display has %d cells", len(sim.Cells()))
	}
}

func TestWorldResetIsDeterministic(t *testing.T) {
	a := New(20, 15)
	b := New(20, 15)
	if !slices.Equal(a.Grid().MaterialsField(), b.Grid().MaterialsField()) {
		t.Fatal("same seed produced different layouts")
	}
	b.Reset(99)
	if slices.Equal(a.Grid().MaterialsField(), b.Grid().MaterialsField()) {
		t.Fatal("different seeds produced the same layout")
	}
	if b.Clock().Tick() != 0 {
		t.Fatalf("reset clock at tick %d", b.Clock().Tick())
	}
}

func TestWorldIgniteSpreadsAfterSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.Mix = Mix{Grass: 1}
	w := NewWithConfig(cfg)
	if err := w.Ignite(4, 6); err != nil {
		t.Fatal(err)
	}
	w.Step()
	state, err := w.Grid().StateAt(6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if state != Burning {
		t.Fatalf("ignited cell state = %v", state)
	}
	if w.Cells()[6*10+4]&displayBurningBit == 0 {
		t.Fatal("display does not mark the burning cell")
	}
	if err := w.Ignite(10, 0); err == nil {
		t.Fatal("igniting outside the grid must fail")
	}
}

func TestWorldInspect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.Mix = Mix{Wood: 1}
	w := NewWithConfig(cfg)
	desc, err := w.Inspect(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(desc, "wood") || !strings.Contains(desc, "(2,1)") {
		t.Fatalf("unexpected description %q", desc)
	}
}

func TestWorldParameters(t *testing.T) {
	w := New(6, 6)
	snap := w.Parameters()
	if p, ok := snap.Lookup("dt"); !ok || p.Value != "0.08" {
		t.Fatalf("dt parameter = %+v, %v", p, ok)
	}

	if !w.SetFloatParameter("ambient_humidity", 150) {
		t.Fatal("ambient humidity rejected")
	}
	for _, h := range w.Grid().Humidity() {
		if h != 100 {
			t.Fatalf("humidity = %v, want clamped 100", h)
		}
	}
	if !w.SetFloatParameter("ignite_excess", 100) || w.Clock().Constants().IgniteExcess != 100 {
		t.Fatal("ignite excess not applied to the clock")
	}
	if w.SetFloatParameter("dt", 0) {
		t.Fatal("zero dt accepted")
	}
	if w.SetFloatParameter("unknown", 1) {
		t.Fatal("unknown parameter accepted")
	}
}

func TestWorldStats(t *testing.T) {
	w := New(5, 5)
	w.Step()
	stats := w.Stats()
	if len(stats) == 0 || stats[0].Label != "Tick" || stats[0].Value != "1" {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRandomLayoutFollowsMix(t *testing.T) {
	layout := RandomLayout(50, 40, Mix{Water: 1}, 1)
	for i, m := range layout {
		if m != Water {
			t.Fatalf("cell %d = %v, want water", i, m)
		}
	}
	if RandomLayout(0, 5, DefaultConfig().Mix, 1) != nil {
		t.Fatal("empty layout should be nil")
	}
}

func TestWorldOverlayFields(t *testing.T) {
	w := New(3, 3)
	if len(w.TemperatureField()) != 9 {
		t.Fatalf("temperature field has %d cells", len(w.TemperatureField()))
	}
	lo, hi := w.TemperatureBounds()
	if lo != 20 || hi != 2138 {
		t.Fatalf("bounds = %v..%v", lo, hi)
	}
	oxygen := make([]float64, 9)
	if err := w.Grid().SetField(FieldOxygen, oxygen); err != nil {
		t.Fatal(err)
	}
	for i, d := range w.OxygenDepletion() {
		if d != 1 {
			t.Fatalf("cell %d depletion = %v, want 1", i, d)
		}
	}
}
