package obstacle

import (
	"math"

	"github.com/san-kum/spinbottle/internal/angle"
)

// Contact describes where a bounce leaves the disc.
type Contact struct {
	Angle  float64 // disc angle at the moment of impact
	Step   float64 // reflected step for the next tick
	Mirror bool    // true when the antipodal end of the disc hit
}

// Obstacle is a single fixed angular marker. The zero value is absent.
//
// The disc carries two contact ends 180 degrees apart, each widened by the
// tolerance arc. A step collides when the leading edge of either end sweeps
// across the obstacle.
type Obstacle struct {
	present     bool
	angle       float64
	tolerance   float64
	coefficient float64
}

func New(tolerance, coefficient float64) *Obstacle {
	return &Obstacle{tolerance: tolerance, coefficient: coefficient}
}

func (o *Obstacle) Present() bool  { return o.present }
func (o *Obstacle) Angle() float64 { return o.angle }

func (o *Obstacle) Place(a float64) {
	o.angle = angle.Normalize(a)
	o.present = true
}

// Clear removes the obstacle. The last angle is kept but ignored.
func (o *Obstacle) Clear() {
	o.present = false
}

// ResolveStep reports whether moving the disc from current by step hits the
// obstacle. Offsets are measured in the disc's frame as the clockwise (or
// counter-clockwise, for negative steps) distance from each leading edge to
// the obstacle, so the 0/360 seam needs no special casing.
func (o *Obstacle) ResolveStep(current, step float64) (Contact, bool) {
	if !o.present || step == 0 {
		return Contact{}, false
	}

	dir := 1.0
	if step < 0 {
		dir = -1.0
	}
	sweep := math.Abs(step)

	best := Contact{}
	bestOffset := math.Inf(1)
	for _, mirror := range []bool{false, true} {
		end := current
		if mirror {
			end = angle.Opposite(current)
		}
		edge := end + dir*o.tolerance

		offset := angle.Normalize(dir * (o.angle - edge))
		if offset <= 0 || offset >= sweep || offset >= bestOffset {
			continue
		}

		contact := o.angle - dir*o.tolerance
		if mirror {
			contact += angle.HalfTurn
		}
		bestOffset = offset
		best = Contact{
			Angle:  angle.Normalize(contact),
			Step:   -step * o.coefficient,
			Mirror: mirror,
		}
	}

	return best, !math.IsInf(bestOffset, 1)
}
