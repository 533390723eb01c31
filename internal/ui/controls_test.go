package ui

import (
	"image"
	"testing"

	"firesim/internal/core"
)

func TestAdjustTargetClampsToBounds(t *testing.T) {
	c := core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.02, Min: 0.02, Max: 1, HasMin: true, HasMax: true}

	if got, ok := adjustTarget(c, 0.08, 1); !ok || got < 0.0999 || got > 0.1001 {
		t.Fatalf("step up = %v, %v", got, ok)
	}
	if got, ok := adjustTarget(c, 0.03, -1); !ok || got != 0.02 {
		t.Fatalf("step below min = %v, %v", got, ok)
	}
	if _, ok := adjustTarget(c, 1, 1); ok {
		t.Fatal("step above max should be a no-op")
	}
	if _, ok := adjustTarget(c, 0.5, 0); ok {
		t.Fatal("zero direction should be a no-op")
	}
}

func TestFormatControlValue(t *testing.T) {
	tests := []struct {
		c    core.ParameterControl
		v    float64
		want string
	}{
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.02}, 0.08, "0.08"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 50}, 500, "500.0"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.0005}, 0.25, "0.2500"},
		{core.ParameterControl{Type: core.ParamTypeInt, Step: 1}, 41.6, "42"},
	}
	for _, tt := range tests {
		if got := formatControlValue(tt.c, tt.v); got != tt.want {
			t.Fatalf("formatControlValue(%+v, %v) = %q, want %q", tt.c, tt.v, got, tt.want)
		}
	}
}

func TestRefreshControlsReadsSnapshot(t *testing.T) {
	states := newControls([]core.ParameterControl{
		{Key: "dt", Type: core.ParamTypeFloat, Step: 0.02},
		{Key: "missing", Type: core.ParamTypeFloat},
	})
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:   "World",
		Params: []core.Parameter{{Key: "dt", Type: core.ParamTypeFloat, Value: "0.08"}},
	}}}
	refreshControls(states, snap)

	if !states[0].ok || states[0].current != 0.08 || states[0].value != "0.08" {
		t.Fatalf("dt control = %+v", states[0])
	}
	if states[1].ok || states[1].value != "--" {
		t.Fatalf("missing control = %+v", states[1])
	}
}

func TestLayoutControlsPlacesButtonsInsidePanel(t *testing.T) {
	states := newControls(make([]core.ParameterControl, 3))
	layoutControls(states, 240)
	panel := image.Rect(0, 0, 240, 400)
	for i, s := range states {
		if !s.plusRect.In(panel) || !s.minusRect.In(panel) {
			t.Fatalf("control %d buttons outside the panel: %v %v", i, s.minusRect, s.plusRect)
		}
		if s.minusRect.Overlaps(s.plusRect) {
			t.Fatalf("control %d buttons overlap", i)
		}
		if !pointInRect(s.plusRect.Min.X, s.plusRect.Min.Y, s.plusRect) {
			t.Fatal("rect should contain its min corner")
		}
	}
	if states[1].top-states[0].top != lineHeight {
		t.Fatalf("rows are %d apart", states[1].top-states[0].top)
	}
}
