package obstacle

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestResolveStepAbsent(t *testing.T) {
	g := NewWithT(t)

	o := New(30, 0.2)
	_, hit := o.ResolveStep(55, 10)
	g.Expect(hit).To(BeFalse())

	o.Place(90)
	o.Clear()
	_, hit = o.ResolveStep(55, 10)
	g.Expect(hit).To(BeFalse())
	g.Expect(o.Angle()).To(Equal(90.0))
}

func TestResolveStep(t *testing.T) {
	tests := []struct {
		name      string
		obstacle  float64
		current   float64
		step      float64
		hit       bool
		contact   float64
		reflected float64
		mirror    bool
	}{
		{"clockwise leading edge", 90, 55, 10, true, 60, -2, false},
		{"clockwise short of obstacle", 90, 40, 10, false, 0, 0, false},
		{"clockwise edge exactly on obstacle", 90, 60, 10, false, 0, 0, false},
		{"clockwise already past", 90, 70, 10, false, 0, 0, false},
		{"clockwise mirror end", 90, 235, 10, true, 240, -2, true},
		{"counter clockwise leading edge", 65, 100, -10, true, 95, 2, false},
		{"counter clockwise mirror end", 65, 280, -10, true, 275, 2, true},
		{"clockwise across seam", 15, 340, 20, true, 345, -4, false},
		{"counter clockwise across seam", 350, 25, -10, true, 20, 2, false},
		{"obstacle near zero from below", 5, 330, 20, true, 335, -4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			o := New(30, 0.2)
			o.Place(tt.obstacle)

			c, hit := o.ResolveStep(tt.current, tt.step)
			g.Expect(hit).To(Equal(tt.hit))
			if !tt.hit {
				return
			}
			g.Expect(c.Angle).To(BeNumerically("~", tt.contact, 1e-9))
			g.Expect(c.Step).To(BeNumerically("~", tt.reflected, 1e-9))
			g.Expect(c.Mirror).To(Equal(tt.mirror))
		})
	}
}

func TestResolveStepEnergyLoss(t *testing.T) {
	g := NewWithT(t)

	o := New(30, 0.2)
	o.Place(200)
	for _, step := range []float64{3.5, 17, 42, 59.5} {
		c, hit := o.ResolveStep(200-30-step/2, step)
		g.Expect(hit).To(BeTrue(), "step %v", step)
		g.Expect(c.Step).To(BeNumerically("~", -step*0.2, 1e-12))
	}
}

func TestPlaceNormalizes(t *testing.T) {
	g := NewWithT(t)

	o := New(30, 0.2)
	o.Place(-90)
	g.Expect(o.Present()).To(BeTrue())
	g.Expect(o.Angle()).To(Equal(270.0))
}
