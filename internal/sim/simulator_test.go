package sim

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/script"
)

var view = script.View{Width: 100, Height: 100}

var testConfig = Config{FrameMillis: 16, MaxTicks: 1000}

// a flick faster than the velocity clamp seeds exactly MaxRotationDegrees
func fastFlick() *script.Script {
	return &script.Script{View: view, Events: script.Flick(view, 0, 2, 0)}
}

func TestSimulatorRun(t *testing.T) {
	g := NewWithT(t)
	s := FromParams(engine.DefaultParams())

	result, err := s.Run(context.Background(), fastFlick(), testConfig)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Truncated()).To(BeFalse())

	// released at tick 2 at 60 degrees, then 120 ticks of friction from 60
	g.Expect(result.Frames).To(HaveLen(122))
	g.Expect(result.StopAngle).To(BeNumerically("~", 90, 1e-6))

	g.Expect(result.Events).To(HaveLen(2))
	g.Expect(result.Events[0].Kind).To(Equal(EventStart))
	g.Expect(result.Events[0].Tick).To(Equal(2))
	g.Expect(result.Events[0].Speed).To(Equal(60.0))
	g.Expect(result.Events[1].Kind).To(Equal(EventStop))
	g.Expect(result.Events[1].Tick).To(Equal(121))

	first := result.Frames[2]
	g.Expect(first.Millis).To(Equal(int64(32)))
	g.Expect(first.Angle).To(BeNumerically("~", 120, 1e-6))
	g.Expect(first.Step).To(Equal(59.5))
	g.Expect(first.Rotating).To(BeTrue())

	last := result.Frames[len(result.Frames)-1]
	g.Expect(last.Rotating).To(BeFalse())
	g.Expect(last.Step).To(Equal(0.0))
}

func TestSimulatorBounce(t *testing.T) {
	g := NewWithT(t)
	s := FromParams(engine.DefaultParams())

	sc := &script.Script{
		View: view,
		Events: script.Merge(
			script.Flick(view, 0, 2, 0),
			script.Press(view, 220, 40, 70),
		),
	}

	result, err := s.Run(context.Background(), sc, testConfig)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(result.Frames[3].Obstacle).To(BeTrue())
	g.Expect(result.Frames[3].Rotating).To(BeTrue())

	hit := result.Frames[4]
	g.Expect(hit.Bounced).To(BeTrue())
	g.Expect(hit.Angle).To(BeNumerically("~", 190, 1e-6))
	g.Expect(hit.Step).To(BeNumerically("~", -11.8, 1e-9))

	g.Expect(result.Frames[5].Obstacle).To(BeFalse())

	kinds := make([]string, len(result.Events))
	for i, ev := range result.Events {
		kinds[i] = ev.Kind
	}
	g.Expect(kinds).To(Equal([]string{EventStart, EventBounce, EventStop}))

	g.Expect(result.Frames).To(HaveLen(28))
	g.Expect(result.StopAngle).To(BeNumerically("~", 45.1, 1e-6))
}

func TestSimulatorStartAngle(t *testing.T) {
	g := NewWithT(t)
	s := FromParams(engine.DefaultParams())

	sc := &script.Script{View: view, StartAngle: 270}
	result, err := s.Run(context.Background(), sc, testConfig)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Frames).To(HaveLen(1))
	g.Expect(result.StopAngle).To(Equal(270.0))
	g.Expect(result.Events).To(BeEmpty())
}

func TestSimulatorTickLimit(t *testing.T) {
	g := NewWithT(t)
	s := FromParams(engine.DefaultParams())

	result, err := s.Run(context.Background(), fastFlick(), Config{FrameMillis: 16, MaxTicks: 10})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Truncated()).To(BeTrue())
	g.Expect(result.Frames).To(HaveLen(10))

	var simErr SimError
	g.Expect(result.Errors[0]).To(BeAssignableToTypeOf(simErr))
}

func TestSimulatorCancelled(t *testing.T) {
	g := NewWithT(t)
	s := FromParams(engine.DefaultParams())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, fastFlick(), testConfig)
	g.Expect(err).To(MatchError(context.Canceled))
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := FromParams(engine.DefaultParams())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero frame", Config{FrameMillis: 0, MaxTicks: 10}},
		{"negative frame", Config{FrameMillis: -16, MaxTicks: 10}},
		{"zero ticks", Config{FrameMillis: 16, MaxTicks: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), fastFlick(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	bad := &script.Script{View: view, Events: []script.Event{{Kind: "tap"}}}
	if _, err := s.Run(context.Background(), bad, testConfig); err == nil {
		t.Error("expected invalid script error")
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(f Frame) {
	t.count++
	t.sum += f.Step
}
func (t *testMetric) Value() float64 { return t.sum }
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := FromParams(engine.DefaultParams())

	metric := &testMetric{}
	s.AddMetric(metric)

	var seen int
	s.AddObserver(ObserverFunc(func(Frame) { seen++ }))

	result, err := s.Run(context.Background(), fastFlick(), testConfig)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != len(result.Frames) || seen != len(result.Frames) {
		t.Errorf("expected %d observations, got metric %d observer %d", len(result.Frames), metric.count, seen)
	}

	// a second run starts from clean metrics and a fresh event log
	again, err := s.Run(context.Background(), fastFlick(), testConfig)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if metric.count != len(again.Frames) {
		t.Errorf("metric not reset: %d observations", metric.count)
	}
	if len(again.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(again.Events))
	}
}

func TestEnsemble(t *testing.T) {
	g := NewWithT(t)

	scripts := make([]*script.Script, 8)
	for i := range scripts {
		scripts[i] = &script.Script{View: view, StartAngle: float64(i * 45), Events: script.Flick(view, float64(i*45), 2, 0)}
	}

	e := NewEnsemble(engine.DefaultParams(), 3, func() []Metric { return []Metric{&testMetric{}} })
	results, err := e.Run(context.Background(), scripts, testConfig)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(len(scripts)))

	for i, r := range results {
		want := float64(i*45) + 90
		g.Expect(angle.Distance(r.StopAngle, want)).To(BeNumerically("<", 1e-6))
		g.Expect(r.Metrics).To(HaveKey("test"))
	}
}
