package fire

import "math"

// Combust advances every burning cell by dt seconds: fuel and oxygen are
// consumed, the released heat raises the temperature and cells that run out
// of fuel or oxygen move to the terminal burned state.
func Combust(g *Grid, c Constants, dt float64, workers int) {
	parallelFor(g.Len(), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if !g.burning[i] {
				continue
			}
			consumed := math.Min(g.fuel[i], g.burnRate[i]*dt)
			consumed = math.Max(consumed, 0)
			g.fuel[i] = math.Max(0, g.fuel[i]-consumed)

			heat := consumed * g.combustionHeat[i] * c.HeatScale
			if m := g.heatMass(i, c); m > 0 {
				g.temperature[i] += heat / m
			}
			g.temperature[i] = clamp(g.temperature[i], c.MinTemp, c.MaxTemp)

			g.oxygen[i] = math.Max(0, g.oxygen[i]-consumed*c.OxygenConsumptionFactor)

			sustained := g.oxygen[i] >= c.MinOxygenRate && g.fuel[i] > 0
			g.burning[i] = sustained
			if !sustained {
				g.burned[i] = true
			}
		}
	})
}
