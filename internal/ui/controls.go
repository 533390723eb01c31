package ui

import (
	"image"
	"math"
	"strconv"

	"firesim/internal/core"
)

type controlState struct {
	control core.ParameterControl
	value   string
	current float64
	ok      bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	statsSpacing   = 18
	controlsTop    = panelPadding + headerBaseline + 14
)

func newControls(ctrls []core.ParameterControl) []controlState {
	states := make([]controlState, len(ctrls))
	for i, c := range ctrls {
		states[i] = controlState{control: c, value: "--"}
	}
	return states
}

// refreshControls pulls the current values out of snap.
func refreshControls(states []controlState, snap core.ParameterSnapshot) {
	for i := range states {
		s := &states[i]
		s.ok = false
		s.value = "--"
		p, found := snap.Lookup(s.control.Key)
		if !found {
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		s.current = v
		s.value = formatControlValue(s.control, v)
		s.ok = true
	}
}

// layoutControls stacks the rows from controlsTop with +/- buttons on the
// right edge of a panel of the given width.
func layoutControls(states []controlState, width int) {
	for i := range states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		states[i].top = top
		states[i].minusRect = minus
		states[i].plusRect = plus
	}
}

func controlStep(c core.ParameterControl) float64 {
	if c.Step <= 0 {
		if c.Type == core.ParamTypeInt {
			return 1
		}
		return 0.05
	}
	if c.Type == core.ParamTypeInt {
		return math.Max(1, math.Round(c.Step))
	}
	return c.Step
}

// adjustTarget returns the value one step in direction from current, clamped
// to the control bounds. ok is false when the value would not change.
func adjustTarget(c core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	target := current + float64(direction)*controlStep(c)
	if c.HasMin && target < c.Min {
		target = c.Min
	}
	if c.HasMax && target > c.Max {
		target = c.Max
	}
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

func formatControlValue(c core.ParameterControl, v float64) string {
	if c.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch step := controlStep(c); {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
