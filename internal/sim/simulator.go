package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/gesture"
	"github.com/san-kum/spinbottle/internal/obstacle"
	"github.com/san-kum/spinbottle/internal/script"
)

// Simulator replays a gesture script against an engine at a fixed frame
// rate. It owns the engine for the duration of a run.
type Simulator struct {
	engine     *engine.Engine
	controller *gesture.Controller
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger

	run    *Result
	tick   int
	millis int64
}

func New(e *engine.Engine, c *gesture.Controller) *Simulator {
	s := &Simulator{
		engine:     e,
		controller: c,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.New(slog.DiscardHandler),
	}
	e.OnStart(s.recordStart)
	e.OnStop(s.recordStop)
	e.OnBounce(s.recordBounce)
	return s
}

// FromParams builds a simulator around a fresh engine and controller.
func FromParams(p engine.Params) *Simulator {
	e := engine.New(p)
	return New(e, gesture.NewController(e))
}

func (s *Simulator) Engine() *engine.Engine { return s.engine }

func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }
func (s *Simulator) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)   { s.observers = append(s.observers, o) }

// Run places the disc at the script's start angle and ticks until every event
// has been delivered and the disc is idle. Events due at or before a tick's
// time are delivered before that tick advances the disc.
func (s *Simulator) Run(ctx context.Context, sc *script.Script, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, 64),
		Events:  make([]Event, 0),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.engine.Obstacle().Clear()
	if err := s.engine.RotateTo(sc.StartAngle); err != nil {
		return nil, err
	}
	s.run = result
	defer func() { s.run = nil }()

	next := 0
	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if tick >= cfg.MaxTicks {
			err := SimError{Tick: tick, Millis: s.millis, Message: "tick limit reached before the disc settled"}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("simulation truncated", "tick", tick, "angle", s.engine.Angle())
			break
		}

		s.tick = tick
		s.millis = int64(tick) * cfg.FrameMillis

		for next < len(sc.Events) && sc.Events[next].At <= s.millis {
			s.deliver(sc.View, sc.Events[next])
			next++
		}

		s.engine.Advance()
		f := s.frame()
		result.Frames = append(result.Frames, f)

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		if next == len(sc.Events) && !s.engine.Rotating() {
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.StopAngle = s.engine.Angle()

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FrameMillis <= 0 {
		return fmt.Errorf("frame_millis must be positive, got %d", cfg.FrameMillis)
	}
	if cfg.MaxTicks <= 0 {
		return fmt.Errorf("max_ticks must be positive, got %d", cfg.MaxTicks)
	}
	return nil
}

func (s *Simulator) deliver(v script.View, ev script.Event) {
	t := gesture.Touch{X: ev.X, Y: ev.Y, Millis: ev.At, Width: v.Width, Height: v.Height}

	var ok bool
	switch ev.Kind {
	case script.Down:
		ok = s.controller.Down(t)
	case script.Move:
		ok = s.controller.Move(t)
	case script.Up:
		ok = s.controller.Up(t)
	}
	if !ok {
		s.logger.Debug("touch ignored", "kind", ev.Kind, "at", ev.At, "state", s.controller.State())
	}
}

func (s *Simulator) frame() Frame {
	snap := s.engine.Snapshot()
	return Frame{
		Tick:          s.tick,
		Millis:        s.millis,
		Angle:         snap.Angle,
		Step:          snap.Step,
		Rotating:      snap.Rotating,
		Obstacle:      snap.Obstacle,
		ObstacleAngle: snap.ObstacleAngle,
		Bounced:       s.engine.Bounced(),
	}
}

func (s *Simulator) record(kind string, a, speed float64) {
	if s.run == nil {
		return
	}
	s.run.Events = append(s.run.Events, Event{
		Tick:   s.tick,
		Millis: s.millis,
		Kind:   kind,
		Angle:  a,
		Speed:  speed,
	})
}

func (s *Simulator) recordStart(speed float64) {
	s.logger.Info("spin started", "tick", s.tick, "speed", speed)
	s.record(EventStart, s.engine.Angle(), speed)
}

func (s *Simulator) recordStop(a float64) {
	s.logger.Info("spin stopped", "tick", s.tick, "angle", a)
	s.record(EventStop, a, 0)
}

func (s *Simulator) recordBounce(c obstacle.Contact) {
	s.logger.Debug("bounce", "tick", s.tick, "angle", c.Angle, "step", c.Step, "mirror", c.Mirror)
	s.record(EventBounce, c.Angle, c.Step)
}
