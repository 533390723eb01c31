package ui

import (
	"image/color"
	"math"
)

// heatStops maps normalized temperature to overlay colors, from cold blue
// through orange to white-hot.
var heatStops = []struct {
	t   float64
	col color.RGBA
}{
	{0.0, color.RGBA{R: 20, G: 30, B: 90, A: 0}},
	{0.05, color.RGBA{R: 60, G: 40, B: 140, A: 90}},
	{0.15, color.RGBA{R: 200, G: 40, B: 40, A: 160}},
	{0.35, color.RGBA{R: 250, G: 140, B: 20, A: 200}},
	{0.65, color.RGBA{R: 255, G: 230, B: 90, A: 220}},
	{1.0, color.RGBA{R: 255, G: 255, B: 240, A: 235}},
}

func heatColor(t float64) color.RGBA {
	t = clamp01(t)
	for i := 1; i < len(heatStops); i++ {
		curr := heatStops[i]
		if t <= curr.t {
			prev := heatStops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return heatStops[len(heatStops)-1].col
}

// fillHeatRGBA writes one heat-colored pixel per field value into buf, with
// lo and hi mapping to the ends of the gradient.
func fillHeatRGBA(buf []byte, field []float64, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for i, v := range field {
		col := heatColor((v - lo) / span)
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillMaskRGBA tints buf by mask intensity in [0,1]; zero is transparent.
func fillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	for i, m := range mask {
		base := i * 4
		intensity := clamp01(float64(m))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		glow := glowBase + glowRange*math.Sqrt(intensity)
		buf[base+0] = scaleColorComponent(tint.R, glow)
		buf[base+1] = scaleColorComponent(tint.G, glow)
		buf[base+2] = scaleColorComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
