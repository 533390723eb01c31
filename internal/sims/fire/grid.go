package fire

import (
	"fmt"
	"math"
	"slices"

	"firesim/internal/core"
)

// State is the per-cell combustion state derived from the burning and burned
// flags.
type State uint8

const (
	Unburned State = iota
	Burning
	Burned
)

func (s State) String() string {
	switch s {
	case Burning:
		return "burning"
	case Burned:
		return "burned"
	default:
		return "unburned"
	}
}

// Grid owns the aligned per-cell field arrays of a W×H domain. Every slice
// has exactly W*H entries in row-major order.
type Grid struct {
	shape core.Shape

	materials   []Material
	combustible []bool

	temperature    []float64
	conductivity   []float64
	capacity       []float64
	fuel           []float64
	oxygen         []float64
	humidity       []float64 // environmental
	moisture       []float64 // material humidity
	ignitionTemp   []float64
	burnRate       []float64
	combustionHeat []float64
	density        []float64
	burning        []bool
	burned         []bool

	// conduction scratch, one entry per cell for its right and down interface
	flowRight []float64
	flowDown  []float64

	// temperature range every write saturates into
	minTemp float64
	maxTemp float64
}

// Seed supplies the caller-controlled initial values. Temperature and
// Humidity may be nil, in which case every cell starts at the ambient value.
// MinTemp and MaxTemp bound every temperature write; when MaxTemp is not
// above MinTemp the default constants apply.
type Seed struct {
	Ambient     Ambient
	Temperature []float64
	Humidity    []float64
	MinTemp     float64
	MaxTemp     float64
}

func (s Seed) tempRange() (float64, float64) {
	if s.MaxTemp > s.MinTemp {
		return s.MinTemp, s.MaxTemp
	}
	def := DefaultConstants()
	return def.MinTemp, def.MaxTemp
}

// Initialize builds a grid from a row-major material assignment with one row
// per grid row. Every cell starts at the ambient values.
func Initialize(width, height int, assignment [][]Material, ambient Ambient) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, configErr("initialize", ErrInvalidDimensions, "%dx%d", width, height)
	}
	if len(assignment) != height {
		return nil, configErr("initialize", ErrDimensionMismatch, "assignment has %d rows, want %d", len(assignment), height)
	}
	flat := make([]Material, 0, width*height)
	for r, row := range assignment {
		if len(row) != width {
			return nil, configErr("initialize", ErrDimensionMismatch, "row %d has %d cells, want %d", r, len(row), width)
		}
		flat = append(flat, row...)
	}
	return NewGrid(width, height, flat, Seed{Ambient: ambient})
}

// NewGrid builds a grid from a flat row-major material slice.
func NewGrid(width, height int, materials []Material, seed Seed) (*Grid, error) {
	shape := core.Shape{W: width, H: height}
	if !shape.Valid() {
		return nil, configErr("initialize", ErrInvalidDimensions, "%dx%d", width, height)
	}
	n := shape.Len()
	if len(materials) != n {
		return nil, configErr("initialize", ErrDimensionMismatch, "materials has %d cells, want %d", len(materials), n)
	}
	if seed.Temperature != nil && len(seed.Temperature) != n {
		return nil, configErr("initialize", ErrDimensionMismatch, "temperature has %d cells, want %d", len(seed.Temperature), n)
	}
	if seed.Humidity != nil && len(seed.Humidity) != n {
		return nil, configErr("initialize", ErrDimensionMismatch, "humidity has %d cells, want %d", len(seed.Humidity), n)
	}
	for i, m := range materials {
		if !m.Valid() {
			row, col := shape.Coords(i)
			return nil, configErr("initialize", ErrInvalidMaterial, "cell (%d,%d): %w: %v", row, col, ErrUnknownMaterial, m)
		}
	}

	g := &Grid{
		shape:          shape,
		materials:      slices.Clone(materials),
		combustible:    make([]bool, n),
		temperature:    make([]float64, n),
		conductivity:   make([]float64, n),
		capacity:       make([]float64, n),
		fuel:           make([]float64, n),
		oxygen:         make([]float64, n),
		humidity:       make([]float64, n),
		moisture:       make([]float64, n),
		ignitionTemp:   make([]float64, n),
		burnRate:       make([]float64, n),
		combustionHeat: make([]float64, n),
		density:        make([]float64, n),
		burning:        make([]bool, n),
		burned:         make([]bool, n),
		flowRight:      make([]float64, n),
		flowDown:       make([]float64, n),
	}
	g.minTemp, g.maxTemp = seed.tempRange()
	for i, m := range materials {
		p := catalog[m]
		g.combustible[i] = p.Combustible
		g.conductivity[i] = p.Conductivity
		g.capacity[i] = p.Capacity
		g.moisture[i] = p.Humidity
		g.ignitionTemp[i] = p.IgnitionTemp
		g.burnRate[i] = p.BurnRate
		g.combustionHeat[i] = p.CombustionHeat
		g.density[i] = p.Density

		g.temperature[i] = g.clampTemp(seed.Ambient.Temperature)
		if seed.Temperature != nil {
			g.temperature[i] = g.clampTemp(seed.Temperature[i])
		}
		g.humidity[i] = clampPercent(seed.Ambient.Humidity)
		if seed.Humidity != nil {
			g.humidity[i] = clampPercent(seed.Humidity[i])
		}
		g.oxygen[i] = clampPercent(seed.Ambient.Oxygen)
		if p.Combustible {
			g.fuel[i] = clampPercent(seed.Ambient.Fuel)
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.shape.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.shape.H }

// Shape returns the grid geometry.
func (g *Grid) Shape() core.Shape { return g.shape }

// Len returns the number of cells.
func (g *Grid) Len() int { return g.shape.Len() }

// The slice accessors below return the live arrays so renderers can read them
// without copying. They must only be read between ticks and never written;
// use SetField for mutation.

// Temperature exposes the temperature field (°C).
func (g *Grid) Temperature() []float64 { return g.temperature }

// Fuel exposes the remaining fuel field (%).
func (g *Grid) Fuel() []float64 { return g.fuel }

// Oxygen exposes the oxygen field (%).
func (g *Grid) Oxygen() []float64 { return g.oxygen }

// Humidity exposes the environmental humidity field (%).
func (g *Grid) Humidity() []float64 { return g.humidity }

// BurningFlags exposes the burning flags.
func (g *Grid) BurningFlags() []bool { return g.burning }

// BurnedFlags exposes the burned flags.
func (g *Grid) BurnedFlags() []bool { return g.burned }

// MaterialsField exposes the material assignment.
func (g *Grid) MaterialsField() []Material { return g.materials }

// MaterialAt returns the material of (row, col).
func (g *Grid) MaterialAt(row, col int) (Material, error) {
	if !g.shape.Contains(row, col) {
		return 0, configErr("material", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	return g.materials[g.shape.Index(row, col)], nil
}

// StateAt returns the combustion state of (row, col).
func (g *Grid) StateAt(row, col int) (State, error) {
	if !g.shape.Contains(row, col) {
		return Unburned, configErr("state", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	return g.state(g.shape.Index(row, col)), nil
}

func (g *Grid) state(i int) State {
	switch {
	case g.burned[i]:
		return Burned
	case g.burning[i]:
		return Burning
	default:
		return Unburned
	}
}

func (g *Grid) floats(f Field) []float64 {
	switch f {
	case FieldTemperature:
		return g.temperature
	case FieldConductivity:
		return g.conductivity
	case FieldCapacity:
		return g.capacity
	case FieldFuel:
		return g.fuel
	case FieldOxygen:
		return g.oxygen
	case FieldHumidity:
		return g.humidity
	case FieldMoisture:
		return g.moisture
	case FieldIgnitionTemp:
		return g.ignitionTemp
	case FieldBurnRate:
		return g.burnRate
	case FieldCombustionHeat:
		return g.combustionHeat
	case FieldDensity:
		return g.density
	}
	return nil
}

func (g *Grid) flags(f Field) []bool {
	switch f {
	case FieldBurning:
		return g.burning
	case FieldBurned:
		return g.burned
	}
	return nil
}

// ReadField returns a copy of the named field.
func (g *Grid) ReadField(f Field) (Snapshot, error) {
	if f >= fieldEnd {
		return Snapshot{}, configErr("read field", ErrUnknownField, "%d", uint8(f))
	}
	snap := Snapshot{Field: f, Width: g.shape.W, Height: g.shape.H, Values: make([]float64, g.Len())}
	switch {
	case f == FieldMaterial:
		for i, m := range g.materials {
			snap.Values[i] = float64(m)
		}
	case f.IsFlag():
		for i, v := range g.flags(f) {
			if v {
				snap.Values[i] = 1
			}
		}
	default:
		copy(snap.Values, g.floats(f))
	}
	return snap, nil
}

// ReadFieldByName resolves name with ParseField and returns a copy of it.
func (g *Grid) ReadFieldByName(name string) (Snapshot, error) {
	f, err := ParseField(name)
	if err != nil {
		return Snapshot{}, err
	}
	return g.ReadField(f)
}

// SetField overwrites a whole field in one batch. Temperatures saturate into
// the grid's temperature range with NaN mapped to the lower bound,
// percentages land in [0,100], material constants are non-negative and flag
// writes keep the state machine consistent (burned cells never burn,
// non-combustible cells never burn).
// The material field is derived from the assignment and cannot be set.
func (g *Grid) SetField(f Field, values []float64) error {
	if f >= fieldEnd || f == FieldMaterial {
		return configErr("set field", ErrUnknownField, "%v is not writable", f)
	}
	if len(values) != g.Len() {
		return configErr("set field", ErrDimensionMismatch, "%v has %d cells, want %d", f, len(values), g.Len())
	}
	switch f {
	case FieldBurning:
		for i, v := range values {
			g.burning[i] = v != 0 && g.combustible[i] && !g.burned[i]
		}
	case FieldBurned:
		for i, v := range values {
			g.burned[i] = v != 0
			if g.burned[i] {
				g.burning[i] = false
			}
		}
	case FieldFuel, FieldOxygen, FieldHumidity, FieldMoisture:
		dst := g.floats(f)
		for i, v := range values {
			dst[i] = clampPercent(v)
		}
	case FieldTemperature:
		for i, v := range values {
			g.temperature[i] = g.clampTemp(v)
		}
	default:
		dst := g.floats(f)
		for i, v := range values {
			dst[i] = clamp(v, 0, math.MaxFloat64)
		}
	}
	return nil
}

// SetCell writes a single float field value; see SetField for sanitizing.
func (g *Grid) SetCell(f Field, row, col int, value float64) error {
	if !g.shape.Contains(row, col) {
		return configErr("set cell", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	snap, err := g.ReadField(f)
	if err != nil {
		return err
	}
	snap.Values[g.shape.Index(row, col)] = value
	return g.SetField(f, snap.Values)
}

// EffectiveIgnitionTemp returns the humidity-adjusted threshold of (row, col).
func (g *Grid) EffectiveIgnitionTemp(row, col int, c Constants) (float64, error) {
	if !g.shape.Contains(row, col) {
		return 0, configErr("ignition temp", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	return effectiveIgnitionTemp(g, g.shape.Index(row, col), c), nil
}

// Ignite forces (row, col) to IgniteExcess above its effective ignition
// threshold. A hotter cell keeps its temperature. The burning flag itself is
// raised by the next ignition step.
func (g *Grid) Ignite(row, col int, c Constants) error {
	if !g.shape.Contains(row, col) {
		return configErr("ignite", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	i := g.shape.Index(row, col)
	target := clamp(effectiveIgnitionTemp(g, i, c)+c.IgniteExcess, c.MinTemp, c.MaxTemp)
	if g.temperature[i] < target {
		g.temperature[i] = target
	}
	return nil
}

// Cell is a copy of every field of one cell.
type Cell struct {
	Row, Col       int
	Material       Material
	State          State
	Temperature    float64
	Fuel           float64
	Oxygen         float64
	Humidity       float64
	Moisture       float64
	IgnitionTemp   float64
	Conductivity   float64
	Capacity       float64
	BurnRate       float64
	CombustionHeat float64
	Density        float64
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d) %s %s T=%.1f°C fuel=%.1f%% O2=%.1f%% humidity=%.1f%%",
		c.Row, c.Col, c.Material, c.State, c.Temperature, c.Fuel, c.Oxygen, c.Humidity)
}

// CellAt returns a copy of (row, col).
func (g *Grid) CellAt(row, col int) (Cell, error) {
	if !g.shape.Contains(row, col) {
		return Cell{}, configErr("cell", ErrOutOfBounds, "(%d,%d) in %dx%d", row, col, g.shape.W, g.shape.H)
	}
	i := g.shape.Index(row, col)
	return Cell{
		Row:            row,
		Col:            col,
		Material:       g.materials[i],
		State:          g.state(i),
		Temperature:    g.temperature[i],
		Fuel:           g.fuel[i],
		Oxygen:         g.oxygen[i],
		Humidity:       g.humidity[i],
		Moisture:       g.moisture[i],
		IgnitionTemp:   g.ignitionTemp[i],
		Conductivity:   g.conductivity[i],
		Capacity:       g.capacity[i],
		BurnRate:       g.burnRate[i],
		CombustionHeat: g.combustionHeat[i],
		Density:        g.density[i],
	}, nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		shape:          g.shape,
		materials:      slices.Clone(g.materials),
		combustible:    slices.Clone(g.combustible),
		temperature:    slices.Clone(g.temperature),
		conductivity:   slices.Clone(g.conductivity),
		capacity:       slices.Clone(g.capacity),
		fuel:           slices.Clone(g.fuel),
		oxygen:         slices.Clone(g.oxygen),
		humidity:       slices.Clone(g.humidity),
		moisture:       slices.Clone(g.moisture),
		ignitionTemp:   slices.Clone(g.ignitionTemp),
		burnRate:       slices.Clone(g.burnRate),
		combustionHeat: slices.Clone(g.combustionHeat),
		density:        slices.Clone(g.density),
		burning:        slices.Clone(g.burning),
		burned:         slices.Clone(g.burned),
		flowRight:      make([]float64, len(g.flowRight)),
		flowDown:       make([]float64, len(g.flowDown)),
		minTemp:        g.minTemp,
		maxTemp:        g.maxTemp,
	}
}

// Stats summarizes the grid.
type Stats struct {
	Burning  int
	Burned   int
	MeanTemp float64
	MaxTemp  float64
	Fuel     float64 // sum over all cells
	Oxygen   float64 // mean
}

// Stats computes summary statistics over every cell.
func (g *Grid) Stats() Stats {
	var s Stats
	n := g.Len()
	if n == 0 {
		return s
	}
	s.MaxTemp = math.Inf(-1)
	for i := 0; i < n; i++ {
		if g.burning[i] {
			s.Burning++
		}
		if g.burned[i] {
			s.Burned++
		}
		s.MeanTemp += g.temperature[i]
		s.MaxTemp = math.Max(s.MaxTemp, g.temperature[i])
		s.Fuel += g.fuel[i]
		s.Oxygen += g.oxygen[i]
	}
	s.MeanTemp /= float64(n)
	s.Oxygen /= float64(n)
	return s
}

// heatMass is mass × specific capacity of cell i.
func (g *Grid) heatMass(i int, c Constants) float64 {
	return g.density[i] * c.UnitVolume * g.capacity[i]
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPercent(v float64) float64 { return clamp(v, 0, 100) }

func (g *Grid) clampTemp(v float64) float64 { return clamp(v, g.minTemp, g.maxTemp) }

// setTempRange rebinds the temperature range to c and saturates the current
// temperatures into it.
func (g *Grid) setTempRange(c Constants) {
	if !(c.MinTemp < c.MaxTemp) {
		return
	}
	g.minTemp, g.maxTemp = c.MinTemp, c.MaxTemp
	for i, v := range g.temperature {
		g.temperature[i] = g.clampTemp(v)
	}
}
