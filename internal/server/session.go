package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/san-kum/spinbottle/internal/config"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/gesture"
	"github.com/san-kum/spinbottle/internal/obstacle"
)

var ErrSessionClosed = errors.New("server: session not running")

// Broadcaster fans serialized messages out to clients.
type Broadcaster interface {
	BroadcastBytes(msg []byte)
}

const (
	ActionDown = "down"
	ActionMove = "move"
	ActionUp   = "up"
)

type Input struct {
	Action string
	Touch  gesture.Touch
	// Clock marks a touch without a client timestamp.
	Clock bool
}

// Session owns one disc. Only the goroutine running Run touches the engine
// and controller; other goroutines talk to it through Submit and Snapshot.
type Session struct {
	logger     *slog.Logger
	engine     *engine.Engine
	controller *gesture.Controller
	out        Broadcaster
	frame      time.Duration

	inputs    chan Input
	snapshots chan chan []byte

	start time.Time
	tick  int
	last  engine.Snapshot
}

func NewSession(logger *slog.Logger, cfg *config.Config, out Broadcaster) *Session {
	e := engine.New(cfg.Params())
	s := &Session{
		logger:     logger,
		engine:     e,
		controller: gesture.NewController(e),
		out:        out,
		frame:      time.Duration(cfg.Sim.FrameMillis) * time.Millisecond,
		inputs:     make(chan Input, 64),
		snapshots:  make(chan chan []byte),
		start:      time.Now(),
	}
	e.OnStart(func(speed float64) { s.publish(MsgStart, StartData{Speed: speed}) })
	e.OnStop(func(a float64) { s.publish(MsgStop, StopData{Angle: a}) })
	e.OnBounce(func(c obstacle.Contact) {
		s.publish(MsgBounce, BounceData{Angle: c.Angle, Step: c.Step, Mirror: c.Mirror})
	})
	return s
}

// Submit queues a touch for the session. It never blocks; a full queue drops
// the input.
func (s *Session) Submit(in Input) bool {
	select {
	case s.inputs <- in:
		return true
	default:
		s.logger.Warn("session input queue full, dropping touch", "action", in.Action)
		return false
	}
}

// Snapshot returns a serialized state_init message built by the session
// goroutine.
func (s *Session) Snapshot(ctx context.Context) ([]byte, error) {
	reply := make(chan []byte, 1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case s.snapshots <- reply:
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-reply:
		if msg == nil {
			return nil, ErrSessionClosed
		}
		return msg, nil
	}
}

// Run ticks the disc and applies inputs until ctx is canceled.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()

	s.logger.Info("session starting", "frame", s.frame)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopping (context canceled)")
			return nil

		case in := <-s.inputs:
			s.apply(in)

		case reply := <-s.snapshots:
			msg, err := marshalEnvelope(MsgStateInit, s.frameData())
			if err != nil {
				s.logger.Warn("state_init marshal failed", "error", err)
			}
			reply <- msg

		case <-ticker.C:
			s.tick++
			s.engine.Advance()
			snap := s.engine.Snapshot()
			if snap != s.last || s.engine.Bounced() {
				s.last = snap
				s.publish(MsgFrame, s.frameData())
			}
		}
	}
}

func (s *Session) apply(in Input) {
	if in.Clock {
		in.Touch.Millis = time.Since(s.start).Milliseconds()
	}

	var ok bool
	switch in.Action {
	case ActionDown:
		ok = s.controller.Down(in.Touch)
	case ActionMove:
		ok = s.controller.Move(in.Touch)
	case ActionUp:
		ok = s.controller.Up(in.Touch)
	}
	if !ok {
		s.logger.Debug("touch ignored", "action", in.Action, "state", s.controller.State())
	}
}

func (s *Session) frameData() FrameData {
	return FrameData{
		Tick:     s.tick,
		Snapshot: s.engine.Snapshot(),
		Bounced:  s.engine.Bounced(),
		Gesture:  s.controller.State().String(),
	}
}

func (s *Session) publish(typ string, data any) {
	msg, err := marshalEnvelope(typ, data)
	if err != nil {
		s.logger.Warn("session marshal failed", "error", err, "type", typ)
		return
	}
	s.out.BroadcastBytes(msg)
}
