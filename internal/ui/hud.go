//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"firesim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	statsColor  = color.RGBA{R: 240, G: 180, B: 120, A: 255}
	buttonColor = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff   = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonText  = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonMuted = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// HUD renders the control and statistics panel to the right of the
// simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int

	controls     []controlState
	setter       core.FloatParameterSetter
	stats        []core.Stat
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	width = max(width, 0)
	h := &HUD{sim: sim, width: width, title: buildTitle(sim)}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = newControls(provider.ParameterControls())
		layoutControls(h.controls, width)
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.setter = setter
	}
	return h
}

// Update refreshes values from the simulation and handles button clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if provider, ok := h.sim.(parameterProvider); ok {
		refreshControls(h.controls, provider.Parameters())
	}
	if provider, ok := h.sim.(core.StatsProvider); ok {
		h.stats = provider.Stats()
	}
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)
	y := h.drawControls()
	h.drawStats(y + infoSpacing)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// Captures reports whether the cursor is over the panel, so clicks there do
// not reach the grid.
func (h *HUD) Captures(x int) bool {
	return h != nil && h.width > 0 && x >= h.panelOffsetX
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return fmt.Sprintf("%s%s Controls", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || h.setter == nil {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		s := &h.controls[i]
		if !s.ok {
			continue
		}
		direction := 0
		switch {
		case pointInRect(px, my, s.minusRect):
			direction = -1
		case pointInRect(px, my, s.plusRect):
			direction = 1
		default:
			continue
		}
		if target, changed := adjustTarget(s.control, s.current, direction); changed {
			if h.setter.SetFloatParameter(s.control.Key, target) {
				s.current = target
				s.value = formatControlValue(s.control, target)
			}
		}
		return
	}
}

// drawControls returns the y coordinate below the last control row.
func (h *HUD) drawControls() int {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, titleColor)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, mutedColor)
		return headerY + infoSpacing
	}
	bottom := headerY
	for i := range h.controls {
		s := &h.controls[i]
		labelY := s.top + labelBaseline
		text.Draw(h.panel, s.control.Label, face, panelPadding, labelY, labelColor)
		valueColor := labelColor
		if !s.ok {
			valueColor = mutedColor
		}
		bounds := text.BoundString(face, s.value)
		valueX := s.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, s.value, face, valueX, labelY, valueColor)

		_, canDec := adjustTarget(s.control, s.current, -1)
		_, canInc := adjustTarget(s.control, s.current, 1)
		h.drawButton(s.minusRect, "-", s.ok && h.setter != nil && canDec)
		h.drawButton(s.plusRect, "+", s.ok && h.setter != nil && canInc)
		bottom = s.top + lineHeight
	}
	return bottom
}

func (h *HUD) drawStats(top int) {
	if len(h.stats) == 0 {
		return
	}
	face := basicfont.Face7x13
	for i, s := range h.stats {
		y := top + i*statsSpacing
		text.Draw(h.panel, s.Label, face, panelPadding, y, mutedColor)
		bounds := text.BoundString(face, s.Value)
		text.Draw(h.panel, s.Value, face, h.width-panelPadding-bounds.Dx(), y, statsColor)
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg, fg := buttonColor, buttonText
	if !enabled {
		bg, fg = buttonOff, buttonMuted
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
