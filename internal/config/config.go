package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
)

const (
	DefaultFrameMillis = 16
	DefaultMaxTicks    = 20000
	DefaultViewSize    = 400.0
	DefaultLogLevel    = "info"
)

type Config struct {
	Physics  PhysicsConfig `yaml:"physics"`
	Sim      SimConfig     `yaml:"sim"`
	View     ViewConfig    `yaml:"view"`
	Toss     TossConfig    `yaml:"toss"`
	LogLevel string        `yaml:"log_level"`
}

type PhysicsConfig struct {
	MaxRotationDegrees      float64 `yaml:"max_rotation_degrees"`
	Friction                float64 `yaml:"friction"`
	BounceEnergyCoefficient float64 `yaml:"bounce_energy_coefficient"`
	ArcOfTolerance          float64 `yaml:"arc_of_tolerance"`
	VelocityMax             float64 `yaml:"velocity_max"`
}

type SimConfig struct {
	FrameMillis int64 `yaml:"frame_millis"`
	MaxTicks    int   `yaml:"max_ticks"`
}

type ViewConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TossConfig describes a scripted throw: the disc starts at StartAngle and is
// flicked from its tip at Velocity degrees per millisecond.
type TossConfig struct {
	StartAngle float64        `yaml:"start_angle"`
	Velocity   float64        `yaml:"velocity"`
	Obstacle   ObstacleConfig `yaml:"obstacle"`
}

// ObstacleConfig is a finger held at Angle between FromMillis and UntilMillis.
type ObstacleConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Angle       float64 `yaml:"angle"`
	FromMillis  int64   `yaml:"from_millis"`
	UntilMillis int64   `yaml:"until_millis"`
}

func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			MaxRotationDegrees:      engine.DefaultMaxRotationDegrees,
			Friction:                engine.DefaultFriction,
			BounceEnergyCoefficient: engine.DefaultBounceEnergyCoefficient,
			ArcOfTolerance:          engine.DefaultArcOfTolerance,
			VelocityMax:             engine.DefaultVelocityMax,
		},
		Sim: SimConfig{
			FrameMillis: DefaultFrameMillis,
			MaxTicks:    DefaultMaxTicks,
		},
		View: ViewConfig{
			Width:  DefaultViewSize,
			Height: DefaultViewSize,
		},
		Toss: TossConfig{
			Velocity: 1.0,
			Obstacle: ObstacleConfig{
				Angle:       90,
				FromMillis:  200,
				UntilMillis: 1500,
			},
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the physics section into engine tunables.
func (c *Config) Params() engine.Params {
	return engine.Params{
		MaxRotationDegrees:      c.Physics.MaxRotationDegrees,
		Friction:                c.Physics.Friction,
		BounceEnergyCoefficient: c.Physics.BounceEnergyCoefficient,
		ArcOfTolerance:          c.Physics.ArcOfTolerance,
		VelocityMax:             c.Physics.VelocityMax,
	}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Sim.FrameMillis <= 0 {
		return fmt.Errorf("sim.frame_millis must be positive, got %d", c.Sim.FrameMillis)
	}
	if c.Sim.MaxTicks <= 0 {
		return fmt.Errorf("sim.max_ticks must be positive, got %d", c.Sim.MaxTicks)
	}
	if !angle.IsFinite(c.View.Width, c.View.Height) || c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("view must have a positive size, got %vx%v", c.View.Width, c.View.Height)
	}
	if !angle.IsFinite(c.Toss.StartAngle, c.Toss.Velocity, c.Toss.Obstacle.Angle) {
		return fmt.Errorf("toss: %w", engine.ErrNonFinite)
	}
	if o := c.Toss.Obstacle; o.Enabled && (o.FromMillis < 0 || o.UntilMillis < o.FromMillis) {
		return fmt.Errorf("toss.obstacle: window [%d, %d] is not ordered", o.FromMillis, o.UntilMillis)
	}
	return nil
}
