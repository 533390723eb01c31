package fire

import "image/color"

const (
	displayMaterialMask = 0x03
	displayHeatShift    = 2
	displayHeatMask     = 0x0c
	displayBurningBit   = 0x10
	displayBurnedBit    = 0x20
)

// heat bands relative to the effective ignition temperature
const (
	heatAmbient uint8 = iota
	heatWarm
	heatHot
	heatIgnition
)

var firePalette = buildFirePalette()

// Palette exposes the color palette used for rendering the fire world.
func (w *World) Palette() []color.RGBA {
	return firePalette
}

func buildFirePalette() []color.RGBA {
	palette := make([]color.RGBA, 64)
	for i := range palette {
		m := Material(i&displayMaterialMask) + Wood
		heat := uint8(i&displayHeatMask) >> displayHeatShift
		palette[i] = paletteColorFor(m, heat, i&displayBurningBit != 0, i&displayBurnedBit != 0)
	}
	return palette
}

func paletteColorFor(m Material, heat uint8, burning, burned bool) color.RGBA {
	switch {
	case burning:
		return color.RGBA{R: 255, G: 120, B: 30, A: 255}
	case burned:
		return color.RGBA{R: 40, G: 36, B: 34, A: 255}
	}
	base := catalog[m].Color
	switch heat {
	case heatWarm:
		return blendColors(base, color.RGBA{R: 255, G: 170, B: 60, A: 255}, 0.35)
	case heatHot:
		return blendColors(base, color.RGBA{R: 255, G: 110, B: 40, A: 255}, 0.65)
	case heatIgnition:
		return color.RGBA{R: 230, G: 40, B: 30, A: 255}
	}
	return base
}

func blendColors(base, overlay color.RGBA, overlayWeight float64) color.RGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 { return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5) }
	return color.RGBA{R: mix(base.R, overlay.R), G: mix(base.G, overlay.G), B: mix(base.B, overlay.B), A: mix(base.A, overlay.A)}
}

func encodeDisplayValue(m Material, heat uint8, burning, burned bool) uint8 {
	value := uint8(m-Wood) & displayMaterialMask
	value |= (heat << displayHeatShift) & displayHeatMask
	if burning {
		value |= displayBurningBit
	}
	if burned {
		value |= displayBurnedBit
	}
	return value
}

func heatBand(g *Grid, i int, c Constants) uint8 {
	t := g.temperature[i]
	threshold := effectiveIgnitionTemp(g, i, c)
	switch {
	case t >= threshold:
		return heatIgnition
	case t >= c.MinTemp+(threshold-c.MinTemp)*0.5:
		return heatHot
	case t >= c.MinTemp+0.5:
		return heatWarm
	}
	return heatAmbient
}

func (w *World) rebuildDisplay() {
	g := w.grid
	for i := range w.display {
		w.display[i] = encodeDisplayValue(g.materials[i], heatBand(g, i, w.cfg.Constants), g.burning[i], g.burned[i])
	}
}
