package gesture_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/gesture"
)

const viewSize = 100.0

func touchAt(a float64, millis int64) gesture.Touch {
	x, y := angle.ToPoint(a, 40, viewSize, viewSize)
	return gesture.Touch{X: x, Y: y, Millis: millis, Width: viewSize, Height: viewSize}
}

var _ = Describe("Controller", func() {
	var (
		eng    *engine.Engine
		ctrl   *gesture.Controller
		starts []float64
		stops  []float64
	)

	BeforeEach(func() {
		eng = engine.New(engine.DefaultParams())
		ctrl = gesture.NewController(eng)
		starts, stops = nil, nil
		eng.OnStart(func(s float64) { starts = append(starts, s) })
		eng.OnStop(func(a float64) { stops = append(stops, a) })
	})

	Describe("touch-down classification", func() {
		It("follows the top end when the touch is near the disc angle", func() {
			Expect(ctrl.Down(touchAt(10, 0))).To(BeTrue())
			Expect(ctrl.State()).To(Equal(gesture.FollowTop))
			Expect(ctrl.Zone()).To(Equal(gesture.ZoneTop))
			Expect(eng.Angle()).To(BeNumerically("~", 10, 1e-9))
		})

		It("follows the bottom end when the touch is near the opposite angle", func() {
			Expect(ctrl.Down(touchAt(185, 0))).To(BeTrue())
			Expect(ctrl.State()).To(Equal(gesture.FollowBottom))
			Expect(eng.Angle()).To(BeNumerically("~", 5, 1e-9))
		})

		It("classifies across the 0/360 seam", func() {
			Expect(eng.RotateTo(350)).To(Succeed())
			Expect(ctrl.Classify(15)).To(Equal(gesture.ZoneTop))
			Expect(ctrl.Classify(165)).To(Equal(gesture.ZoneBottom))
			Expect(ctrl.Classify(20)).To(Equal(gesture.ZoneNone))
		})

		It("places an obstacle when the touch is away from both ends", func() {
			Expect(ctrl.Down(touchAt(90, 0))).To(BeTrue())
			Expect(ctrl.State()).To(Equal(gesture.PlacingObstacle))
			Expect(eng.Obstacle().Present()).To(BeTrue())
			Expect(eng.Obstacle().Angle()).To(BeNumerically("~", 90, 1e-9))
			Expect(eng.Angle()).To(Equal(0.0))
		})

		It("stops a spinning disc that is grabbed", func() {
			Expect(eng.Seed(40)).To(Succeed())
			eng.Advance()

			Expect(ctrl.Down(touchAt(40, 0))).To(BeTrue())
			Expect(stops).To(HaveLen(1))
			Expect(eng.Rotating()).To(BeFalse())
		})

		It("keeps the disc spinning while an obstacle is placed", func() {
			Expect(eng.Seed(40)).To(Succeed())
			eng.Advance()

			Expect(ctrl.Down(touchAt(120, 0))).To(BeTrue())
			Expect(ctrl.State()).To(Equal(gesture.PlacingObstacle))
			Expect(eng.Rotating()).To(BeTrue())
		})
	})

	Describe("drag and toss", func() {
		It("keeps the disc locked to the finger", func() {
			ctrl.Down(touchAt(0, 0))
			Expect(ctrl.Move(touchAt(12, 16))).To(BeTrue())
			Expect(eng.Angle()).To(BeNumerically("~", 12, 1e-9))
			Expect(ctrl.Move(touchAt(350, 32))).To(BeTrue())
			Expect(eng.Angle()).To(BeNumerically("~", 350, 1e-9))
			Expect(eng.Rotating()).To(BeFalse())
		})

		It("clamps a fast toss to the maximum step", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Move(touchAt(20, 10))
			Expect(ctrl.Up(touchAt(20, 12))).To(BeTrue())

			Expect(eng.Rotating()).To(BeTrue())
			Expect(eng.Step()).To(BeNumerically("~", 60, 1e-9))
			Expect(starts).To(HaveLen(1))
			Expect(starts[0]).To(BeNumerically("~", 60, 1e-9))
		})

		It("scales a slow toss by the maximum step", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Move(touchAt(5, 10))
			ctrl.Up(touchAt(5, 10))
			Expect(eng.Step()).To(BeNumerically("~", 30, 1e-9))
		})

		It("tosses counter-clockwise", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Move(touchAt(350, 20))
			ctrl.Up(touchAt(350, 20))
			Expect(eng.Step()).To(BeNumerically("~", -30, 1e-9))
		})

		It("measures across the seam", func() {
			Expect(eng.RotateTo(350)).To(Succeed())
			ctrl.Down(touchAt(350, 0))
			ctrl.Move(touchAt(10, 40))
			ctrl.Up(touchAt(10, 40))
			Expect(eng.Step()).To(BeNumerically("~", 30, 1e-9))
		})

		It("tosses from the bottom end", func() {
			ctrl.Down(touchAt(180, 0))
			ctrl.Move(touchAt(190, 10))
			ctrl.Up(touchAt(190, 10))
			Expect(eng.Angle()).To(BeNumerically("~", 10, 1e-9))
			Expect(eng.Step()).To(BeNumerically("~", 60, 1e-9))
		})

		It("uses only the two most recent samples", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Move(touchAt(20, 5))
			ctrl.Move(touchAt(22, 25))
			ctrl.Up(touchAt(22, 25))
			Expect(eng.Step()).To(BeNumerically("~", 6, 1e-9))
		})

		It("does not toss after a tap", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Up(touchAt(0, 50))
			Expect(eng.Rotating()).To(BeFalse())
			Expect(starts).To(BeEmpty())
		})

		It("does not toss when time runs backward", func() {
			ctrl.Down(touchAt(0, 100))
			ctrl.Move(touchAt(10, 90))
			ctrl.Up(touchAt(10, 90))
			Expect(eng.Rotating()).To(BeFalse())
		})
	})

	Describe("obstacle placement", func() {
		It("tracks the finger and never tosses", func() {
			ctrl.Down(touchAt(90, 0))
			Expect(ctrl.Move(touchAt(120, 5))).To(BeTrue())
			Expect(eng.Obstacle().Angle()).To(BeNumerically("~", 120, 1e-9))

			Expect(ctrl.Up(touchAt(120, 6))).To(BeTrue())
			Expect(eng.Obstacle().Present()).To(BeFalse())
			Expect(eng.Rotating()).To(BeFalse())
			Expect(starts).To(BeEmpty())
		})

		It("makes a spinning disc bounce", func() {
			Expect(eng.RotateTo(55)).To(Succeed())
			Expect(eng.Seed(10)).To(Succeed())
			ctrl.Down(touchAt(90, 0))

			eng.Advance()
			Expect(eng.Bounced()).To(BeTrue())
			Expect(eng.Angle()).To(BeNumerically("~", 60, 1e-6))
			Expect(eng.Step()).To(BeNumerically("~", -2, 1e-9))
		})
	})

	Describe("malformed sequences", func() {
		It("ignores move and up without a down", func() {
			Expect(ctrl.Move(touchAt(10, 0))).To(BeFalse())
			Expect(ctrl.Up(touchAt(10, 0))).To(BeFalse())
			Expect(ctrl.State()).To(Equal(gesture.Idle))
			Expect(eng.Angle()).To(Equal(0.0))
		})

		It("rejects non-finite coordinates", func() {
			bad := gesture.Touch{X: math.NaN(), Y: 1, Width: viewSize, Height: viewSize}
			Expect(ctrl.Down(bad)).To(BeFalse())
			Expect(ctrl.State()).To(Equal(gesture.Idle))

			ctrl.Down(touchAt(0, 0))
			Expect(ctrl.Move(bad)).To(BeFalse())
			Expect(ctrl.State()).To(Equal(gesture.FollowTop))
		})

		It("rejects an empty view", func() {
			Expect(ctrl.Down(gesture.Touch{X: 1, Y: 1})).To(BeFalse())
		})

		It("restarts on a second down", func() {
			ctrl.Down(touchAt(90, 0))
			Expect(ctrl.Down(touchAt(0, 10))).To(BeTrue())
			Expect(ctrl.State()).To(Equal(gesture.FollowTop))
			Expect(eng.Obstacle().Present()).To(BeFalse())
			Expect(ctrl.Window().Former().Valid()).To(BeFalse())
		})

		It("resets the sample window on release", func() {
			ctrl.Down(touchAt(0, 0))
			ctrl.Move(touchAt(3, 10))
			ctrl.Up(touchAt(3, 10))
			Expect(ctrl.Window().Former().Valid()).To(BeFalse())
			Expect(ctrl.Window().Succeeding().Valid()).To(BeFalse())
			Expect(ctrl.State()).To(Equal(gesture.Idle))
		})
	})
})
