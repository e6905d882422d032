package config

import "sort"

var Presets = map[string]*Config{
	"gentle": preset(func(c *Config) {
		c.Toss.Velocity = 0.3
	}),
	"flick": preset(func(c *Config) {
		c.Toss.Velocity = 1.0
	}),
	"reverse": preset(func(c *Config) {
		c.Toss.StartAngle = 180
		c.Toss.Velocity = -0.8
	}),
	"bounce": preset(func(c *Config) {
		c.Toss.Velocity = 1.0
		c.Toss.Obstacle = ObstacleConfig{Enabled: true, Angle: 120, FromMillis: 100, UntilMillis: 2000}
	}),
	"sticky": preset(func(c *Config) {
		c.Physics.Friction = 2.0
		c.Toss.Velocity = 1.0
	}),
}

func preset(apply func(*Config)) *Config {
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
