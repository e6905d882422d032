package engine

import (
	"math"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/obstacle"
)

// Snapshot is a copy of the engine state for drawing or broadcasting.
type Snapshot struct {
	Angle         float64 `json:"angle"`
	Step          float64 `json:"step"`
	Rotating      bool    `json:"rotating"`
	Obstacle      bool    `json:"obstacle"`
	ObstacleAngle float64 `json:"obstacle_angle"`
}

type Engine struct {
	params   Params
	angle    float64
	step     float64
	rotating bool
	bounced  bool
	obstacle *obstacle.Obstacle

	onStart  []func(speed float64)
	onStop   []func(angle float64)
	onBounce []func(c obstacle.Contact)
}

// New creates an idle engine at angle 0 with no obstacle.
func New(p Params) *Engine {
	return &Engine{
		params:   p,
		obstacle: obstacle.New(p.ArcOfTolerance, p.BounceEnergyCoefficient),
	}
}

func (e *Engine) Params() Params               { return e.params }
func (e *Engine) Angle() float64               { return e.angle }
func (e *Engine) Step() float64                { return e.step }
func (e *Engine) Rotating() bool               { return e.rotating }
func (e *Engine) Obstacle() *obstacle.Obstacle { return e.obstacle }

// Bounced reports whether the most recent Advance ended in a collision.
func (e *Engine) Bounced() bool { return e.bounced }

func (e *Engine) OnStart(fn func(speed float64))       { e.onStart = append(e.onStart, fn) }
func (e *Engine) OnStop(fn func(angle float64))        { e.onStop = append(e.onStop, fn) }
func (e *Engine) OnBounce(fn func(c obstacle.Contact)) { e.onBounce = append(e.onBounce, fn) }

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Angle:         e.angle,
		Step:          e.step,
		Rotating:      e.rotating,
		Obstacle:      e.obstacle.Present(),
		ObstacleAngle: e.obstacle.Angle(),
	}
}

// Seed starts (or restarts) a spin with the given signed step and fires the
// start hooks with its magnitude.
func (e *Engine) Seed(step float64) error {
	if !angle.IsFinite(step) {
		return ErrNonFinite
	}
	e.step = step
	e.rotating = true
	e.bounced = false
	for _, fn := range e.onStart {
		fn(math.Abs(step))
	}
	return nil
}

// RotateTo places the disc at a and zeroes the step. A spin in progress is
// stopped first.
func (e *Engine) RotateTo(a float64) error {
	if !angle.IsFinite(a) {
		return ErrNonFinite
	}
	e.Stop()
	e.angle = angle.Normalize(a)
	e.step = 0
	return nil
}

// Stop halts the disc. Stop hooks fire only when a spin is interrupted.
func (e *Engine) Stop() {
	wasRotating := e.rotating
	e.rotating = false
	e.step = 0
	if wasRotating {
		e.fireStop()
	}
}

// Advance moves the disc by one tick and reports whether another tick is
// needed. An idle engine is left untouched.
func (e *Engine) Advance() bool {
	e.bounced = false
	if !e.rotating {
		return false
	}

	if c, hit := e.obstacle.ResolveStep(e.angle, e.step); hit {
		e.angle = c.Angle
		e.step = c.Step
		e.bounced = true
		for _, fn := range e.onBounce {
			fn(c)
		}
		return true
	}

	e.angle = angle.Normalize(e.angle + e.step)
	e.applyFriction()

	if math.Round(e.step) == 0 {
		e.rotating = false
		e.step = 0
		e.fireStop()
		return false
	}
	return true
}

func (e *Engine) applyFriction() {
	mag := math.Abs(e.step) - e.params.Friction
	if mag < 0 {
		mag = 0
	}
	e.step = math.Copysign(mag, e.step)
}

func (e *Engine) fireStop() {
	for _, fn := range e.onStop {
		fn(e.angle)
	}
}
