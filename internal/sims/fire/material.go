package fire

import (
	"fmt"
	"image/color"
	"strings"
)

// Material enumerates the closed set of cell materials. The zero value is not
// a material so an unset assignment is caught at construction.
type Material uint8

const (
	Wood Material = iota + 1
	Grass
	Water
	Gasoline

	materialEnd
)

// Materials lists every catalog entry in declaration order.
func Materials() []Material {
	return []Material{Wood, Grass, Water, Gasoline}
}

// Properties are the immutable physical constants of a material.
type Properties struct {
	Conductivity   float64 // W/(m·K)
	Capacity       float64 // kJ/(kg·K)
	IgnitionTemp   float64 // °C
	BurnRate       float64 // kg/m²/s
	CombustionHeat float64 // MJ/kg
	Density        float64 // kg/m³
	Humidity       float64 // %
	Combustible    bool

	Color color.RGBA
}

var catalog = [materialEnd]Properties{
	Wood: {
		Conductivity:   0.2,
		Capacity:       1.8,
		IgnitionTemp:   300,
		BurnRate:       0.35,
		CombustionHeat: 18,
		Density:        650,
		Humidity:       10,
		Combustible:    true,
		Color:          color.RGBA{R: 139, G: 94, B: 60, A: 255},
	},
	Grass: {
		Conductivity:   0.2,
		Capacity:       2.0,
		IgnitionTemp:   300,
		BurnRate:       0.5,
		CombustionHeat: 18,
		Density:        80,
		Humidity:       25,
		Combustible:    true,
		Color:          color.RGBA{R: 86, G: 160, B: 70, A: 255},
	},
	Water: {
		Conductivity: 0.6,
		Capacity:     4.18,
		Density:      1000,
		Humidity:     100,
		Color:        color.RGBA{R: 50, G: 110, B: 200, A: 255},
	},
	Gasoline: {
		Conductivity:   0.3,
		Capacity:       1.8,
		IgnitionTemp:   100,
		BurnRate:       0.8,
		CombustionHeat: 40,
		Density:        750,
		Humidity:       2,
		Combustible:    true,
		Color:          color.RGBA{R: 200, G: 180, B: 40, A: 255},
	},
}

var materialNames = [materialEnd]string{
	Wood:     "wood",
	Grass:    "grass",
	Water:    "water",
	Gasoline: "gasoline",
}

// Valid reports whether m is one of the catalog variants.
func (m Material) Valid() bool { return m >= Wood && m < materialEnd }

func (m Material) String() string {
	if !m.Valid() {
		return fmt.Sprintf("material(%d)", uint8(m))
	}
	return materialNames[m]
}

// Lookup returns the constants of m.
func Lookup(m Material) (Properties, error) {
	if !m.Valid() {
		return Properties{}, configErr("lookup", ErrUnknownMaterial, "%d", uint8(m))
	}
	return catalog[m], nil
}

// ParseMaterial resolves a case-insensitive material name. "fuel" is accepted
// as an alias for gasoline.
func ParseMaterial(name string) (Material, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "fuel" {
		return Gasoline, nil
	}
	for m := Wood; m < materialEnd; m++ {
		if materialNames[m] == key {
			return m, nil
		}
	}
	return 0, configErr("parse material", ErrUnknownMaterial, "%q", name)
}
