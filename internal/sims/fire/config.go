package fire

import (
	"math"
	"runtime"
	"strconv"
)

// Constants are the global physics constants. The value is passed into every
// step; nothing in the package keeps mutable process-wide physics state.
type Constants struct {
	MinTemp                 float64 // °C, ambient floor
	MaxTemp                 float64 // °C
	HumidityEffectScale     float64
	MinIgnitionTemp         float64 // °C, floor for the effective ignition temperature
	MinOxygenRate           float64 // %, below this combustion cannot be sustained
	OxygenConsumptionFactor float64 // oxygen % consumed per unit of fuel
	HeatScale               float64 // MJ released against kJ capacity
	UnitVolume              float64 // m³ per cell
	CellWidth               float64
	CellHeight              float64
	IgniteExcess            float64 // °C above the effective threshold applied by Ignite
}

// DefaultConstants returns the reference constant set.
func DefaultConstants() Constants {
	return Constants{
		MinTemp:                 20,
		MaxTemp:                 2138,
		HumidityEffectScale:     200,
		MinIgnitionTemp:         100,
		MinOxygenRate:           5,
		OxygenConsumptionFactor: 10,
		HeatScale:               1000,
		UnitVolume:              1,
		CellWidth:               10,
		CellHeight:              10,
		IgniteExcess:            500,
	}
}

// Validate rejects constant sets that would break the clamping invariants.
func (c Constants) Validate() error {
	switch {
	case !(c.MinTemp < c.MaxTemp):
		return configErr("validate constants", ErrInvalidConstants, "min temp %g must be below max temp %g", c.MinTemp, c.MaxTemp)
	case c.HumidityEffectScale <= 0:
		return configErr("validate constants", ErrInvalidConstants, "humidity effect scale must be positive")
	case c.UnitVolume <= 0:
		return configErr("validate constants", ErrInvalidConstants, "unit volume must be positive")
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return configErr("validate constants", ErrInvalidConstants, "cell geometry must be positive")
	case c.HeatScale < 0 || c.OxygenConsumptionFactor < 0 || c.MinOxygenRate < 0:
		return configErr("validate constants", ErrInvalidConstants, "rates must not be negative")
	}
	return nil
}

// contactArea is the interface area between two adjacent cells.
func (c Constants) contactArea() float64 { return c.CellWidth * c.CellHeight }

// centerDistance is the distance used for the conduction gradient.
func (c Constants) centerDistance() float64 {
	return math.Sqrt(c.CellWidth*c.CellWidth + c.CellHeight*c.CellHeight)
}

// Ambient holds the environmental values every cell starts from.
type Ambient struct {
	Temperature float64 // °C
	Humidity    float64 // %
	Oxygen      float64 // %
	Fuel        float64 // %, combustible cells only
}

// DefaultAmbient mirrors a temperate, dry afternoon.
func DefaultAmbient() Ambient {
	return Ambient{Temperature: 20, Humidity: 20, Oxygen: 21, Fuel: 100}
}

// Mix weights the random material layout.
type Mix struct {
	Grass    float64
	Wood     float64
	Gasoline float64
	Water    float64
}

// weights returns the mix in the order of Materials().
func (m Mix) weights() []float64 {
	return []float64{m.Wood, m.Grass, m.Water, m.Gasoline}
}

// Config controls the fire simulation.
type Config struct {
	Width  int
	Height int

	Seed      int64
	DeltaTime float64 // seconds per tick
	Workers   int     // 0 uses GOMAXPROCS

	Ambient   Ambient
	Mix       Mix
	Constants Constants
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:     128,
		Height:    96,
		Seed:      1337,
		DeltaTime: 0.08,
		Ambient:   DefaultAmbient(),
		Mix:       Mix{Grass: 0.50, Wood: 0.45, Gasoline: 0.05},
		Constants: DefaultConstants(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Values that fail to parse or fall out of range are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	positive := func(key string, dst *float64) {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	nonNegative := func(key string, dst *float64) {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	positive("dt", &c.DeltaTime)
	nonNegative("ambient_temp", &c.Ambient.Temperature)
	nonNegative("ambient_humidity", &c.Ambient.Humidity)
	nonNegative("ambient_oxygen", &c.Ambient.Oxygen)
	nonNegative("mix_grass", &c.Mix.Grass)
	nonNegative("mix_wood", &c.Mix.Wood)
	nonNegative("mix_gasoline", &c.Mix.Gasoline)
	nonNegative("mix_water", &c.Mix.Water)
	nonNegative("min_oxygen_rate", &c.Constants.MinOxygenRate)
	nonNegative("oxygen_consumption_factor", &c.Constants.OxygenConsumptionFactor)
	nonNegative("ignite_excess", &c.Constants.IgniteExcess)
	positive("humidity_effect_scale", &c.Constants.HumidityEffectScale)
	positive("max_temp", &c.Constants.MaxTemp)
	if c.Constants.MaxTemp <= c.Constants.MinTemp {
		c.Constants.MaxTemp = DefaultConstants().MaxTemp
	}
	return c
}
