package engine

import (
	"fmt"

	"github.com/san-kum/spinbottle/internal/angle"
)

const (
	DefaultMaxRotationDegrees      = 60.0
	DefaultFriction                = 0.5
	DefaultBounceEnergyCoefficient = 0.2
	DefaultArcOfTolerance          = 30.0
	DefaultVelocityMax             = 1.0
)

// Params holds the physical tunables of the disc.
type Params struct {
	MaxRotationDegrees      float64 // seed step produced by a toss at VelocityMax
	Friction                float64 // step lost per tick, degrees
	BounceEnergyCoefficient float64 // fraction of step kept after a bounce
	ArcOfTolerance          float64 // half-width of each contact arc, degrees
	VelocityMax             float64 // toss velocity clamp, degrees per millisecond
}

func DefaultParams() Params {
	return Params{
		MaxRotationDegrees:      DefaultMaxRotationDegrees,
		Friction:                DefaultFriction,
		BounceEnergyCoefficient: DefaultBounceEnergyCoefficient,
		ArcOfTolerance:          DefaultArcOfTolerance,
		VelocityMax:             DefaultVelocityMax,
	}
}

func (p Params) Validate() error {
	if !angle.IsFinite(p.MaxRotationDegrees, p.Friction, p.BounceEnergyCoefficient, p.ArcOfTolerance, p.VelocityMax) {
		return ErrNonFinite
	}
	// steps of half a turn or more would skip over contact arcs
	if p.MaxRotationDegrees <= 0 || p.MaxRotationDegrees >= angle.HalfTurn {
		return fmt.Errorf("%w: max_rotation_degrees %.2f not in (0, 180)", ErrParameterBounds, p.MaxRotationDegrees)
	}
	if p.Friction <= 0 {
		return fmt.Errorf("%w: friction must be positive, got %.3f", ErrParameterBounds, p.Friction)
	}
	if p.BounceEnergyCoefficient < 0 || p.BounceEnergyCoefficient > 1 {
		return fmt.Errorf("%w: bounce_energy_coefficient %.3f not in [0, 1]", ErrParameterBounds, p.BounceEnergyCoefficient)
	}
	if p.ArcOfTolerance <= 0 || p.ArcOfTolerance >= angle.QuarterTurn {
		return fmt.Errorf("%w: arc_of_tolerance %.2f not in (0, 90)", ErrParameterBounds, p.ArcOfTolerance)
	}
	if p.VelocityMax <= 0 {
		return fmt.Errorf("%w: velocity_max must be positive, got %.3f", ErrParameterBounds, p.VelocityMax)
	}
	return nil
}
