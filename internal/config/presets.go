package config

import "sort"

var Presets = map[string]map[string]*Config{
	"two_layer": {
		"default": {Model: "two_layer"},
		"efficacy": {
			Model:      "two_layer",
			Parameters: map[string]string{"efficacy": "1.2 dimensionless"},
		},
		"state_dependence": {
			Model:      "two_layer",
			Parameters: map[string]string{"a": "0.05 W/m^2/delta_degC^2"},
		},
		"shallow": {
			Model:      "two_layer",
			Parameters: map[string]string{"du": "25 m", "dl": "600 m"},
		},
	},
	"impulse_response": {
		"default": {Model: "impulse_response"},
		"efficacy": {
			Model:      "impulse_response",
			Parameters: map[string]string{"efficacy": "1.2 dimensionless"},
		},
		"fast": {
			Model:      "impulse_response",
			Parameters: map[string]string{"d1": "4 yr", "d2": "200 yr"},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
