// Package scenario loads fire simulation setups from HCL files.
//
// A scenario names the grid, the timing, the ambient conditions, optional
// constant overrides, a base material layout (a fill material or a random mix),
// painted regions and initial ignition points:
//
//	grid { width = 64  height = 48  fill = "grass" }
//	timing { delta_time = 0.08  ticks = 600 }
//	ambient { humidity = 30 }
//	region "lake" { material = "water"  shape = "circle"  x = 20  y = 20  radius = 6 }
//	ignite { row = floor(grid.height / 2)  col = 2 }
//
// Everything after the grid block may refer to grid.width and grid.height and
// use the min, max, floor and ceil functions.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"firesim/internal/sims/fire"
)

// DefaultTicks is the run length used when the timing block omits ticks.
const DefaultTicks = 100

var (
	ErrInvalidShape    = errors.New("invalid region shape")
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Point addresses one cell.
type Point struct {
	Row int
	Col int
}

// Scenario is a decoded scenario file.
type Scenario struct {
	Name       string
	Config     fire.Config
	Assignment [][]fire.Material
	Ignitions  []Point
	Ticks      int

	// per-cell overrides painted by regions, nil when no region sets them
	temperature []float64
	humidity    []float64
}

type headerFile struct {
	Grid   gridBlock `hcl:"grid,block"`
	Remain hcl.Body  `hcl:",remain"`
}

type gridBlock struct {
	Width   int     `hcl:"width"`
	Height  int     `hcl:"height"`
	Fill    *string `hcl:"fill,optional"`
	Workers *int    `hcl:"workers,optional"`
}

type bodyFile struct {
	Timing    *timingBlock    `hcl:"timing,block"`
	Ambient   *ambientBlock   `hcl:"ambient,block"`
	Constants *constantsBlock `hcl:"constants,block"`
	Random    *randomBlock    `hcl:"random,block"`
	Regions   []regionBlock   `hcl:"region,block"`
	Ignitions []igniteBlock   `hcl:"ignite,block"`
}

type timingBlock struct {
	DeltaTime *float64 `hcl:"delta_time,optional"`
	Ticks     *int     `hcl:"ticks,optional"`
}

type ambientBlock struct {
	Temperature *float64 `hcl:"temperature,optional"`
	Humidity    *float64 `hcl:"humidity,optional"`
	Oxygen      *float64 `hcl:"oxygen,optional"`
	Fuel        *float64 `hcl:"fuel,optional"`
}

type constantsBlock struct {
	MaxTemp                 *float64 `hcl:"max_temp,optional"`
	HumidityEffectScale     *float64 `hcl:"humidity_effect_scale,optional"`
	MinIgnitionTemp         *float64 `hcl:"min_ignition_temp,optional"`
	MinOxygenRate           *float64 `hcl:"min_oxygen_rate,optional"`
	OxygenConsumptionFactor *float64 `hcl:"oxygen_consumption_factor,optional"`
	HeatScale               *float64 `hcl:"heat_scale,optional"`
	IgniteExcess            *float64 `hcl:"ignite_excess,optional"`
}

type randomBlock struct {
	Seed     int64    `hcl:"seed"`
	Grass    *float64 `hcl:"grass,optional"`
	Wood     *float64 `hcl:"wood,optional"`
	Gasoline *float64 `hcl:"gasoline,optional"`
	Water    *float64 `hcl:"water,optional"`
}

type regionBlock struct {
	Name        string   `hcl:"name,label"`
	Material    *string  `hcl:"material,optional"`
	Shape       *string  `hcl:"shape,optional"`
	X           int      `hcl:"x"`
	Y           int      `hcl:"y"`
	Width       *int     `hcl:"width,optional"`
	Height      *int     `hcl:"height,optional"`
	Radius      *float64 `hcl:"radius,optional"`
	Temperature *float64 `hcl:"temperature,optional"`
	Humidity    *float64 `hcl:"humidity,optional"`
}

type igniteBlock struct {
	Row int `hcl:"row"`
	Col int `hcl:"col"`
}

// Load reads and decodes the scenario file at path.
func Load(path string) (*Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes scenario source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", filename, diags)
	}

	var header headerFile
	if diags := gohcl.DecodeBody(file.Body, nil, &header); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}
	if header.Grid.Width <= 0 || header.Grid.Height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d: %w", ErrInvalidScenario, header.Grid.Width, header.Grid.Height, fire.ErrInvalidDimensions)
	}

	var body bodyFile
	if diags := gohcl.DecodeBody(header.Remain, evalContext(header.Grid), &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}

	s := &Scenario{Name: filename, Config: fire.DefaultConfig(), Ticks: DefaultTicks}
	s.Config.Width = header.Grid.Width
	s.Config.Height = header.Grid.Height
	if header.Grid.Workers != nil {
		s.Config.Workers = max(0, *header.Grid.Workers)
	}
	if err := s.applyTiming(body.Timing); err != nil {
		return nil, err
	}
	s.applyAmbient(body.Ambient)
	if err := s.applyConstants(body.Constants); err != nil {
		return nil, err
	}
	if err := s.layout(header.Grid.Fill, body.Random); err != nil {
		return nil, err
	}
	for _, r := range body.Regions {
		if err := s.paint(r); err != nil {
			return nil, err
		}
	}
	for _, ig := range body.Ignitions {
		if ig.Row < 0 || ig.Row >= s.Config.Height || ig.Col < 0 || ig.Col >= s.Config.Width {
			return nil, fmt.Errorf("%w: ignite (%d,%d): %w", ErrInvalidScenario, ig.Row, ig.Col, fire.ErrOutOfBounds)
		}
		s.Ignitions = append(s.Ignitions, Point{Row: ig.Row, Col: ig.Col})
	}
	return s, nil
}

func evalContext(g gridBlock) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"grid": cty.ObjectVal(map[string]cty.Value{
				"width":  cty.NumberIntVal(int64(g.Width)),
				"height": cty.NumberIntVal(int64(g.Height)),
			}),
		},
		Functions: map[string]function.Function{
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
			"floor": stdlib.FloorFunc,
			"ceil":  stdlib.CeilFunc,
		},
	}
}

func (s *Scenario) applyTiming(t *timingBlock) error {
	if t == nil {
		return nil
	}
	if t.DeltaTime != nil {
		if !(*t.DeltaTime > 0) {
			return fmt.Errorf("%w: delta_time %v: %w", ErrInvalidScenario, *t.DeltaTime, fire.ErrInvalidTimestep)
		}
		s.Config.DeltaTime = *t.DeltaTime
	}
	if t.Ticks != nil {
		if *t.Ticks < 0 {
			return fmt.Errorf("%w: ticks %d", ErrInvalidScenario, *t.Ticks)
		}
		s.Ticks = *t.Ticks
	}
	return nil
}

func (s *Scenario) applyAmbient(a *ambientBlock) {
	if a == nil {
		return
	}
	set(&s.Config.Ambient.Temperature, a.Temperature)
	set(&s.Config.Ambient.Humidity, a.Humidity)
	set(&s.Config.Ambient.Oxygen, a.Oxygen)
	set(&s.Config.Ambient.Fuel, a.Fuel)
}

func (s *Scenario) applyConstants(c *constantsBlock) error {
	if c == nil {
		return nil
	}
	k := &s.Config.Constants
	set(&k.MaxTemp, c.MaxTemp)
	set(&k.HumidityEffectScale, c.HumidityEffectScale)
	set(&k.MinIgnitionTemp, c.MinIgnitionTemp)
	set(&k.MinOxygenRate, c.MinOxygenRate)
	set(&k.OxygenConsumptionFactor, c.OxygenConsumptionFactor)
	set(&k.HeatScale, c.HeatScale)
	set(&k.IgniteExcess, c.IgniteExcess)
	if err := k.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

// layout fills the assignment from the random mix when present, otherwise
// with the fill material (grass by default).
func (s *Scenario) layout(fill *string, random *randomBlock) error {
	w, h := s.Config.Width, s.Config.Height
	var flat []fire.Material
	if random != nil {
		mix := fire.Mix{}
		set(&mix.Grass, random.Grass)
		set(&mix.Wood, random.Wood)
		set(&mix.Gasoline, random.Gasoline)
		set(&mix.Water, random.Water)
		if mix == (fire.Mix{}) {
			mix = fire.DefaultConfig().Mix
		}
		s.Config.Seed = random.Seed
		s.Config.Mix = mix
		flat = fire.RandomLayout(w, h, mix, random.Seed)
	} else {
		m := fire.Grass
		if fill != nil {
			parsed, err := fire.ParseMaterial(*fill)
			if err != nil {
				return fmt.Errorf("grid fill: %w", err)
			}
			m = parsed
		}
		flat = make([]fire.Material, w*h)
		for i := range flat {
			flat[i] = m
		}
	}
	s.Assignment = make([][]fire.Material, h)
	for r := range s.Assignment {
		s.Assignment[r] = flat[r*w : (r+1)*w : (r+1)*w]
	}
	return nil
}

func (s *Scenario) paint(r regionBlock) error {
	var material *fire.Material
	if r.Material != nil {
		m, err := fire.ParseMaterial(*r.Material)
		if err != nil {
			return fmt.Errorf("region %q: %w", r.Name, err)
		}
		material = &m
	}

	shape := "rect"
	if r.Shape != nil {
		shape = *r.Shape
	}
	var inside func(row, col int) bool
	switch shape {
	case "rect":
		if r.Width == nil || r.Height == nil || *r.Width <= 0 || *r.Height <= 0 {
			return fmt.Errorf("%w: region %q: rect needs positive width and height", ErrInvalidScenario, r.Name)
		}
		w, h := *r.Width, *r.Height
		inside = func(row, col int) bool {
			return col >= r.X && col < r.X+w && row >= r.Y && row < r.Y+h
		}
	case "circle":
		if r.Radius == nil || *r.Radius <= 0 {
			return fmt.Errorf("%w: region %q: circle needs a positive radius", ErrInvalidScenario, r.Name)
		}
		rr := *r.Radius * *r.Radius
		inside = func(row, col int) bool {
			dr, dc := float64(row-r.Y), float64(col-r.X)
			return dr*dr+dc*dc <= rr
		}
	default:
		return fmt.Errorf("%w: region %q: %q", ErrInvalidShape, r.Name, shape)
	}

	n := s.Config.Width * s.Config.Height
	if r.Temperature != nil && s.temperature == nil {
		s.temperature = filled(n, s.Config.Ambient.Temperature)
	}
	if r.Humidity != nil && s.humidity == nil {
		s.humidity = filled(n, s.Config.Ambient.Humidity)
	}
	for row := range s.Config.Height {
		for col := range s.Config.Width {
			if !inside(row, col) {
				continue
			}
			if material != nil {
				s.Assignment[row][col] = *material
			}
			i := row*s.Config.Width + col
			if r.Temperature != nil {
				s.temperature[i] = *r.Temperature
			}
			if r.Humidity != nil {
				s.humidity[i] = *r.Humidity
			}
		}
	}
	return nil
}

// Build constructs the grid described by the scenario and heats every
// ignition point above its ignition threshold.
func (s *Scenario) Build() (*fire.Grid, error) {
	flat := make([]fire.Material, 0, s.Config.Width*s.Config.Height)
	for _, row := range s.Assignment {
		flat = append(flat, row...)
	}
	g, err := fire.NewGrid(s.Config.Width, s.Config.Height, flat, fire.Seed{
		Ambient:     s.Config.Ambient,
		Temperature: s.temperature,
		Humidity:    s.humidity,
		MinTemp:     s.Config.Constants.MinTemp,
		MaxTemp:     s.Config.Constants.MaxTemp,
	})
	if err != nil {
		return nil, err
	}
	for _, p := range s.Ignitions {
		if err := g.Ignite(p.Row, p.Col, s.Config.Constants); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// World wraps the built grid for the viewer and the monitor.
func (s *Scenario) World() (*fire.World, error) {
	g, err := s.Build()
	if err != nil {
		return nil, err
	}
	return fire.NewFromGrid(g, s.Config), nil
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
