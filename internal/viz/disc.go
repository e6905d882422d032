package viz

import (
	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
)

const (
	rimSpacing  = 6.0
	bottleReach = 0.85
	bodyWidth   = 2.0
	neckStart   = 0.1
)

// DrawDisc draws the rim, the bottle and the obstacle of s onto c. The bottle
// neck points at the disc angle.
func DrawDisc(c *Canvas, s engine.Snapshot) {
	r := c.Radius()
	c.Ring(r, rimSpacing)

	c.Spoke(angle.Opposite(s.Angle), r*bottleReach, s.Angle, r*bottleReach)
	tx, ty := c.Polar(s.Angle, r*bottleReach)
	c.Dot(tx, ty, 1)

	// body: the half opposite the neck, outlined bodyWidth to either side
	bx, by := c.Polar(angle.Opposite(s.Angle), r*bottleReach)
	mx, my := c.Polar(s.Angle, r*neckStart)
	ox, oy := angle.ToPoint(s.Angle+angle.QuarterTurn, bodyWidth, 0, 0)
	for _, side := range []int{-1, 1} {
		dx, dy := side*int(ox), side*int(oy)
		c.DrawLine(bx+dx, by+dy, mx+dx, my+dy)
	}

	if s.Obstacle {
		x, y := c.Polar(s.ObstacleAngle, r)
		c.Dot(x, y, 2)
	}
}
