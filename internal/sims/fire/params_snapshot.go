package fire

import (
	"strconv"

	"firesim/internal/core"
)

// Parameters reports the active configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	c := w.cfg.Constants
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				floatParam("dt", "Δt (s)", w.cfg.DeltaTime),
			},
		},
		{
			Name: "Ambient",
			Params: []core.Parameter{
				floatParam("ambient_temp", "Temperature", w.cfg.Ambient.Temperature),
				floatParam("ambient_humidity", "Humidity", w.cfg.Ambient.Humidity),
				floatParam("ambient_oxygen", "Oxygen", w.cfg.Ambient.Oxygen),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				floatParam("max_temp", "Max temperature", c.MaxTemp),
				floatParam("humidity_effect_scale", "Humidity effect scale", c.HumidityEffectScale),
				floatParam("min_oxygen_rate", "Min oxygen", c.MinOxygenRate),
				floatParam("oxygen_consumption_factor", "Oxygen consumption", c.OxygenConsumptionFactor),
				floatParam("ignite_excess", "Ignite excess", c.IgniteExcess),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "dt", Label: "Δt (s)", Type: core.ParamTypeFloat, Step: 0.02, Min: 0.02, Max: 1, HasMin: true, HasMax: true},
		{Key: "ambient_humidity", Label: "Humidity", Type: core.ParamTypeFloat, Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "ignite_excess", Label: "Ignite excess", Type: core.ParamTypeFloat, Step: 50, Min: 0, Max: 1500, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter applies a HUD adjustment. Changing the ambient humidity
// rewrites the humidity field of every cell.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "dt":
		if value <= 0 {
			return false
		}
		w.cfg.DeltaTime = value
	case "ambient_humidity":
		value = clampPercent(value)
		w.cfg.Ambient.Humidity = value
		humidity := make([]float64, w.grid.Len())
		for i := range humidity {
			humidity[i] = value
		}
		if err := w.grid.SetField(FieldHumidity, humidity); err != nil {
			return false
		}
	case "ignite_excess":
		if value < 0 {
			return false
		}
		w.cfg.Constants.IgniteExcess = value
		w.clock.constants.IgniteExcess = value
	default:
		return false
	}
	w.rebuildDisplay()
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}
