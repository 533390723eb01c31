package fire

import "math"

// UpdateIgnition raises the burning flag of every combustible, not yet burned cell
// whose temperature reached its effective ignition temperature. The flag is
// never lowered here; only Combust ends a fire.
func UpdateIgnition(g *Grid, c Constants, workers int) {
	parallelFor(g.Len(), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if g.burning[i] || g.burned[i] || !g.combustible[i] {
				continue
			}
			if g.temperature[i] >= effectiveIgnitionTemp(g, i, c) {
				g.burning[i] = true
			}
		}
	})
}

// effectiveIgnitionTemp scales the base ignition temperature up with the
// material and environmental humidity.
func effectiveIgnitionTemp(g *Grid, i int, c Constants) float64 {
	wet := (g.moisture[i] + g.humidity[i]) / c.HumidityEffectScale
	return math.Max(g.ignitionTemp[i]*(1+wet), c.MinIgnitionTemp)
}
