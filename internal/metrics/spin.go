package metrics

import (
	"math"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/sim"
)

// Distance is the total arc travelled by the disc, in degrees, including
// drags and bounces.
type Distance struct {
	name  string
	last  float64
	seen  bool
	total float64
}

func NewDistance() *Distance {
	return &Distance{name: "distance"}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(f sim.Frame) {
	if d.seen {
		d.total += angle.Distance(d.last, f.Angle)
	}
	d.last = f.Angle
	d.seen = true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.total = 0
	d.seen = false
}

type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(f sim.Frame) {
	if f.Bounced {
		b.count++
	}
}

func (b *Bounces) Value() float64 { return float64(b.count) }
func (b *Bounces) Reset()         { b.count = 0 }

// PeakSpeed is the largest step magnitude seen, degrees per tick.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(f sim.Frame) {
	p.peak = math.Max(p.peak, math.Abs(f.Step))
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// SpinTicks counts frames in which the disc was rotating.
type SpinTicks struct {
	name  string
	ticks int
}

func NewSpinTicks() *SpinTicks {
	return &SpinTicks{name: "spin_ticks"}
}

func (s *SpinTicks) Name() string { return s.name }

func (s *SpinTicks) Observe(f sim.Frame) {
	if f.Rotating {
		s.ticks++
	}
}

func (s *SpinTicks) Value() float64 { return float64(s.ticks) }
func (s *SpinTicks) Reset()         { s.ticks = 0 }

// Defaults returns a fresh instance of every frame metric.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewDistance(),
		NewBounces(),
		NewPeakSpeed(),
		NewSpinTicks(),
	}
}
