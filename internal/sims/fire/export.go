package fire

import (
	"encoding/json"
	"io"
	"math"
)

// exportVersion is bumped whenever the export layout changes.
const exportVersion = 1

// ExportHeader records the geometry and timing of an exported grid.
type ExportHeader struct {
	Version   int     `json:"version"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	DeltaTime float64 `json:"delta_time"`
	Tick      uint64  `json:"tick"`
	Time      float64 `json:"time"`
}

// Export is the replay/testing format: one row-major array of arrays per
// field, keyed by field name.
type Export struct {
	Header ExportHeader            `json:"header"`
	Fields map[string][][]float64 `json:"fields"`
}

// NewExport snapshots the requested fields of g. With no fields every field
// is exported.
func NewExport(g *Grid, dt float64, fields ...Field) (Export, error) {
	if len(fields) == 0 {
		fields = Fields()
	}
	e := Export{
		Header: ExportHeader{Version: exportVersion, Width: g.Width(), Height: g.Height(), DeltaTime: dt},
		Fields: make(map[string][][]float64, len(fields)),
	}
	for _, f := range fields {
		snap, err := g.ReadField(f)
		if err != nil {
			return Export{}, err
		}
		e.Fields[f.String()] = snap.Rows()
	}
	return e, nil
}

// ExportClock snapshots the clock's grid and stamps the tick counters.
func ExportClock(c *Clock, dt float64, fields ...Field) (Export, error) {
	e, err := NewExport(c.grid, dt, fields...)
	if err != nil {
		return Export{}, err
	}
	e.Header.Tick = c.tick
	e.Header.Time = c.elapsed
	return e, nil
}

// Encode writes e as indented JSON.
func (e Export) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// ReadExport decodes an export and checks its shape against the header.
func ReadExport(r io.Reader) (Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Export{}, err
	}
	if e.Header.Version != exportVersion {
		return Export{}, configErr("read export", ErrUnsupportedVersion, "version %d", e.Header.Version)
	}
	if e.Header.Width <= 0 || e.Header.Height <= 0 {
		return Export{}, configErr("read export", ErrInvalidDimensions, "%dx%d", e.Header.Width, e.Header.Height)
	}
	for name, rows := range e.Fields {
		if _, err := ParseField(name); err != nil {
			return Export{}, err
		}
		if len(rows) != e.Header.Height {
			return Export{}, configErr("read export", ErrDimensionMismatch, "%s has %d rows", name, len(rows))
		}
		for _, row := range rows {
			if len(row) != e.Header.Width {
				return Export{}, configErr("read export", ErrDimensionMismatch, "%s row has %d cells", name, len(row))
			}
		}
	}
	return e, nil
}

// Restore rebuilds a grid from an export that contains at least the material
// field. Every other exported field overwrites the catalog-derived values.
func Restore(e Export) (*Grid, error) {
	rows, ok := e.Fields[FieldMaterial.String()]
	if !ok {
		return nil, configErr("restore", ErrUnknownField, "export lacks %q", FieldMaterial.String())
	}
	materials := make([]Material, 0, e.Header.Width*e.Header.Height)
	for _, row := range rows {
		for _, v := range row {
			if v != math.Trunc(v) || v < 0 || v > math.MaxUint8 {
				return nil, configErr("restore", ErrInvalidMaterial, "material code %v", v)
			}
			materials = append(materials, Material(v))
		}
	}
	g, err := NewGrid(e.Header.Width, e.Header.Height, materials, Seed{Ambient: DefaultAmbient()})
	if err != nil {
		return nil, err
	}
	// burned must land before burning so SetField keeps the flags consistent
	order := []Field{FieldBurned}
	for _, f := range Fields() {
		if f != FieldBurned && f != FieldMaterial {
			order = append(order, f)
		}
	}
	for _, f := range order {
		rows, ok := e.Fields[f.String()]
		if !ok {
			continue
		}
		flat := make([]float64, 0, g.Len())
		for _, row := range rows {
			flat = append(flat, row...)
		}
		if err := g.SetField(f, flat); err != nil {
			return nil, err
		}
	}
	return g, nil
}
