package fire

import "strings"

// Field names one of the per-cell arrays held by a Grid.
type Field uint8

const (
	FieldTemperature Field = iota
	FieldConductivity
	FieldCapacity
	FieldFuel
	FieldOxygen
	FieldHumidity
	FieldMoisture
	FieldIgnitionTemp
	FieldBurnRate
	FieldCombustionHeat
	FieldDensity
	FieldBurning
	FieldBurned
	FieldMaterial

	fieldEnd
)

var fieldNames = [fieldEnd]string{
	FieldTemperature:    "temperature",
	FieldConductivity:   "conductivity",
	FieldCapacity:       "capacity",
	FieldFuel:           "fuel",
	FieldOxygen:         "oxygen",
	FieldHumidity:       "humidity",
	FieldMoisture:       "moisture",
	FieldIgnitionTemp:   "ignition_temp",
	FieldBurnRate:       "burn_rate",
	FieldCombustionHeat: "combustion_heat",
	FieldDensity:        "density",
	FieldBurning:        "burning",
	FieldBurned:         "burned",
	FieldMaterial:       "material",
}

// Fields lists every readable field.
func Fields() []Field {
	out := make([]Field, 0, fieldEnd)
	for f := Field(0); f < fieldEnd; f++ {
		out = append(out, f)
	}
	return out
}

func (f Field) String() string {
	if f >= fieldEnd {
		return "unknown"
	}
	return fieldNames[f]
}

// IsFlag reports whether the field stores booleans.
func (f Field) IsFlag() bool { return f == FieldBurning || f == FieldBurned }

// ParseField resolves a field by name.
func ParseField(name string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for f := Field(0); f < fieldEnd; f++ {
		if fieldNames[f] == key {
			return f, nil
		}
	}
	return 0, configErr("read field", ErrUnknownField, "%q", name)
}

// Snapshot is a read-only copy of one field taken between ticks. Flag fields
// are encoded as 0 or 1 and the material field as the Material value.
type Snapshot struct {
	Field  Field
	Width  int
	Height int
	Values []float64
}

// At returns the value at (row, col).
func (s Snapshot) At(row, col int) float64 { return s.Values[row*s.Width+col] }

// Rows splits the snapshot into row-major rows.
func (s Snapshot) Rows() [][]float64 {
	rows := make([][]float64, s.Height)
	for r := range rows {
		rows[r] = s.Values[r*s.Width : (r+1)*s.Width : (r+1)*s.Width]
	}
	return rows
}
