package config

import "sort"

var Presets = map[string]func() *Config{
	"reference": DefaultConfig,
	// Twice the oxidizer flow.
	"lean": func() *Config {
		c := DefaultConfig()
		c.Valves.Oxidizer = 8e-5
		return c
	},
	// Chamber pre-heated past the propane autoignition range.
	"hot-start": func() *Config {
		c := DefaultConfig()
		c.Chamber.Temperature = 1200
		return c
	},
	// Long enough for the igniter pulse at t0 to fire.
	"long-burn": func() *Config {
		c := DefaultConfig()
		c.Run.Horizon = 0.1
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
