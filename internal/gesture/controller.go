package gesture

import (
	"math"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
)

// Zone is where a touch-down landed relative to the disc.
type Zone int

// ZoneTop is the arc around the disc angle, ZoneBottom the arc around the
// opposite end.
const (
	ZoneNone Zone = iota
	ZoneTop
	ZoneBottom
)

func (z Zone) String() string {
	switch z {
	case ZoneTop:
		return "top"
	case ZoneBottom:
		return "bottom"
	default:
		return "none"
	}
}

// State is the interpretation of the gesture in progress.
type State int

const (
	Idle State = iota
	FollowTop
	FollowBottom
	PlacingObstacle
)

func (s State) String() string {
	switch s {
	case FollowTop:
		return "follow-top"
	case FollowBottom:
		return "follow-bottom"
	case PlacingObstacle:
		return "placing-obstacle"
	default:
		return "idle"
	}
}

// Touch is a pointer event in view coordinates.
type Touch struct {
	X, Y          float64
	Millis        int64
	Width, Height float64
}

func (t Touch) valid() bool {
	return angle.IsFinite(t.X, t.Y, t.Width, t.Height) && t.Width > 0 && t.Height > 0
}

func (t Touch) discAngle() float64 {
	return angle.FromPoint(t.X, t.Y, t.Width, t.Height)
}

// Controller turns pointer events into engine commands: dragging a contact
// end of the disc makes it follow the finger and tosses it on release,
// pressing anywhere else holds an obstacle under the finger.
type Controller struct {
	engine *engine.Engine
	state  State
	zone   Zone
	window Window
}

func NewController(e *engine.Engine) *Controller {
	return &Controller{
		engine: e,
		window: NewWindow(),
	}
}

func (c *Controller) State() State   { return c.state }
func (c *Controller) Zone() Zone     { return c.zone }
func (c *Controller) Window() Window { return c.window }

// Classify reports which contact arc of the disc, if any, contains a.
func (c *Controller) Classify(a float64) Zone {
	tol := c.engine.Params().ArcOfTolerance
	current := c.engine.Angle()
	switch {
	case angle.Within(a, current, tol):
		return ZoneTop
	case angle.Within(a, angle.Opposite(current), tol):
		return ZoneBottom
	default:
		return ZoneNone
	}
}

// Down starts a gesture. A down while another gesture is active restarts it.
func (c *Controller) Down(t Touch) bool {
	if !t.valid() {
		return false
	}
	if c.state != Idle {
		c.engine.Obstacle().Clear()
		c.window.Reset()
	}

	a := t.discAngle()
	c.zone = c.Classify(a)
	switch c.zone {
	case ZoneTop:
		c.state = FollowTop
		c.follow(a, t.Millis)
	case ZoneBottom:
		c.state = FollowBottom
		c.follow(a, t.Millis)
	default:
		c.state = PlacingObstacle
		c.window.Push(Sample{Angle: a, Millis: t.Millis})
		c.engine.Obstacle().Place(a)
	}
	return true
}

// Move continues the active gesture. Without a prior Down it is ignored.
func (c *Controller) Move(t Touch) bool {
	if c.state == Idle || !t.valid() {
		return false
	}

	a := t.discAngle()
	switch c.state {
	case FollowTop, FollowBottom:
		c.follow(a, t.Millis)
	case PlacingObstacle:
		c.window.Push(Sample{Angle: a, Millis: t.Millis})
		c.engine.Obstacle().Place(a)
	}
	return true
}

// Up ends the gesture. The obstacle is always lifted; a followed disc is
// tossed with the last measured velocity.
func (c *Controller) Up(t Touch) bool {
	if c.state == Idle {
		return false
	}

	c.engine.Obstacle().Clear()

	if c.state == FollowTop || c.state == FollowBottom {
		if v, ok := c.window.Velocity(); ok {
			p := c.engine.Params()
			v = math.Max(-p.VelocityMax, math.Min(p.VelocityMax, v))
			_ = c.engine.Seed(p.MaxRotationDegrees * v)
		}
	}

	c.window.Reset()
	c.state = Idle
	c.zone = ZoneNone
	return true
}

// follow pins the disc under the finger. The bottom end sits half a turn
// away from the touch.
func (c *Controller) follow(touch float64, millis int64) {
	target := touch
	if c.state == FollowBottom {
		target = angle.Opposite(touch)
	}
	c.engine.Stop()
	c.window.Push(Sample{Angle: target, Millis: millis})
	_ = c.engine.RotateTo(target)
}
