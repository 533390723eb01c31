package fire

// Conduct diffuses heat between orthogonally adjacent cells for one tick of
// dt seconds.
//
// Every interface is owned by its left or upper cell: flowRight[i] is the heat
// moving from i to its right neighbour and flowDown[i] the heat moving from i
// to the cell below. The first pass computes all flows from the pre-step
// temperatures, the second applies them, so the transfer is symmetric and
// does not depend on traversal order or worker count. Border cells simply
// have fewer interfaces.
func Conduct(g *Grid, c Constants, dt float64, workers int) {
	w := g.shape.W
	n := g.Len()
	geometry := c.contactArea() / c.centerDistance() * dt

	parallelFor(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			g.flowRight[i] = 0
			g.flowDown[i] = 0
			if g.shape.HasRight(i) {
				g.flowRight[i] = interfaceFlow(g, c, i, i+1, geometry)
			}
			if g.shape.HasDown(i) {
				g.flowDown[i] = interfaceFlow(g, c, i, i+w, geometry)
			}
		}
	})

	parallelFor(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			q := -g.flowRight[i] - g.flowDown[i]
			if i%w > 0 {
				q += g.flowRight[i-1]
			}
			if i >= w {
				q += g.flowDown[i-w]
			}
			t := clamp(g.temperature[i], c.MinTemp, c.MaxTemp)
			if m := g.heatMass(i, c); m > 0 {
				t += q / m
			}
			g.temperature[i] = clamp(t, c.MinTemp, c.MaxTemp)
		}
	})
}

// interfaceFlow is the heat leaving a toward b through their shared face.
// Temperatures are read saturated so an out-of-range cell conducts from its
// bound.
func interfaceFlow(g *Grid, c Constants, a, b int, geometry float64) float64 {
	k := (g.conductivity[a] + g.conductivity[b]) / 2
	ta := clamp(g.temperature[a], c.MinTemp, c.MaxTemp)
	tb := clamp(g.temperature[b], c.MinTemp, c.MaxTemp)
	return k * (ta - tb) * geometry
}
