//go:build ebiten

package ui

import (
	"image/color"

	"firesim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type temperatureProvider interface {
	TemperatureField() []float64
	TemperatureBounds() (float64, float64)
}

type oxygenProvider interface {
	OxygenDepletion() []float32
}

// Overlay draws optional field visualisations on top of the base view:
// a temperature heatmap (T) and oxygen depletion (O).
type Overlay struct {
	sim   core.Sim
	scale int

	showHeat   bool
	showOxygen bool

	img *ebiten.Image
	buf []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// Update toggles the overlays from keyboard input.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		o.showOxygen = !o.showOxygen
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	total := size.W * size.H
	if total == 0 {
		return
	}
	if o.img == nil || o.img.Bounds().Dx() != size.W || o.img.Bounds().Dy() != size.H {
		o.img = ebiten.NewImage(size.W, size.H)
		o.buf = make([]byte, 4*total)
	}

	if o.showHeat {
		if p, ok := o.sim.(temperatureProvider); ok {
			field := p.TemperatureField()
			if len(field) == total {
				lo, hi := p.TemperatureBounds()
				fillHeatRGBA(o.buf, field, lo, hi)
				o.blit(screen)
			}
		}
	}
	if o.showOxygen {
		if p, ok := o.sim.(oxygenProvider); ok {
			mask := p.OxygenDepletion()
			if len(mask) == total {
				fillMaskRGBA(o.buf, mask, color.RGBA{R: 64, G: 164, B: 223})
				o.blit(screen)
			}
		}
	}
}

func (o *Overlay) blit(screen *ebiten.Image) {
	o.img.WritePixels(o.buf)
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.img, op)
}
