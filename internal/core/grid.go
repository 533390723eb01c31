package core

// Shape describes a bounded, non-wrapping W×H domain stored in row-major
// order. Row indexes run along H and column indexes along W.
type Shape struct {
	W, H int
}

// Len returns the number of cells covered by the shape.
func (s Shape) Len() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Valid reports whether both dimensions are positive.
func (s Shape) Valid() bool { return s.W > 0 && s.H > 0 }

// Index returns the linear slice index for (row, col).
func (s Shape) Index(row, col int) int { return row*s.W + col }

// Coords is the inverse of Index.
func (s Shape) Coords(idx int) (row, col int) { return idx / s.W, idx % s.W }

// Contains reports whether (row, col) lies inside the domain.
func (s Shape) Contains(row, col int) bool {
	return row >= 0 && row < s.H && col >= 0 && col < s.W
}

// HasRight reports whether idx has a neighbour in the next column.
func (s Shape) HasRight(idx int) bool { return idx%s.W < s.W-1 }

// HasDown reports whether idx has a neighbour in the next row.
func (s Shape) HasDown(idx int) bool { return idx/s.W < s.H-1 }

// Size converts the shape to the Sim-facing Size type.
func (s Shape) Size() Size { return Size{W: s.W, H: s.H} }
