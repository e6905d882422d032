// Package script describes pointer gestures as timed event lists so that a
// throw can be replayed without a screen.
package script

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/config"
)

type Kind string

const (
	Down Kind = "down"
	Move Kind = "move"
	Up   Kind = "up"
)

const (
	// FlickSpacing is the time between synthetic drag samples.
	FlickSpacing int64 = 10
	FlickMoves         = 3

	// TipRadius places synthetic touches on the bottle tip, as a fraction of
	// the smaller view side.
	TipRadius = 0.4
)

var ErrInvalidScript = errors.New("script: invalid event sequence")

type View struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Event struct {
	Kind Kind    `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	At   int64   `yaml:"at"`
}

type Script struct {
	Name       string  `yaml:"name,omitempty"`
	View       View    `yaml:"view"`
	StartAngle float64 `yaml:"start_angle"`
	Events     []Event `yaml:"events"`
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return &s, nil
}

func Save(path string, s *Script) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every event has a known kind and finite coordinates
// and that times never decrease. Gesture order is not checked; the controller
// ignores out-of-order events.
func (s *Script) Validate() error {
	if !angle.IsFinite(s.View.Width, s.View.Height, s.StartAngle) || s.View.Width <= 0 || s.View.Height <= 0 {
		return fmt.Errorf("%w: view %vx%v", ErrInvalidScript, s.View.Width, s.View.Height)
	}
	for i, ev := range s.Events {
		switch ev.Kind {
		case Down, Move, Up:
		default:
			return fmt.Errorf("%w: event %d has unknown kind %q", ErrInvalidScript, i, ev.Kind)
		}
		if !angle.IsFinite(ev.X, ev.Y) {
			return fmt.Errorf("%w: event %d has non-finite position", ErrInvalidScript, i)
		}
		if ev.At < 0 {
			return fmt.Errorf("%w: event %d at negative time %d", ErrInvalidScript, i, ev.At)
		}
		if i > 0 && ev.At < s.Events[i-1].At {
			return fmt.Errorf("%w: event %d at %d precedes %d", ErrInvalidScript, i, ev.At, s.Events[i-1].At)
		}
	}
	return nil
}

// End is the time of the last event.
func (s *Script) End() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].At
}

func at(v View, a float64, kind Kind, millis int64) Event {
	r := TipRadius * min(v.Width, v.Height)
	x, y := angle.ToPoint(a, r, v.Width, v.Height)
	return Event{Kind: kind, X: x, Y: y, At: millis}
}

// Flick grabs the bottle tip at startAngle and drags it at velocity degrees
// per millisecond for FlickMoves samples before letting go.
func Flick(v View, startAngle, velocity float64, start int64) []Event {
	events := make([]Event, 0, FlickMoves+2)
	events = append(events, at(v, startAngle, Down, start))

	a, t := startAngle, start
	for i := 0; i < FlickMoves; i++ {
		t += FlickSpacing
		a += velocity * float64(FlickSpacing)
		events = append(events, at(v, a, Move, t))
	}
	return append(events, at(v, a, Up, t))
}

// Press holds a finger at a from from until until. It only acts as an
// obstacle when a is clear of both bottle ends at press time.
func Press(v View, a float64, from, until int64) []Event {
	return []Event{
		at(v, a, Down, from),
		at(v, a, Up, until),
	}
}

// Merge orders the events of several lists by time. Events at the same time
// keep their argument order.
func Merge(lists ...[]Event) []Event {
	var out []Event
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// FromConfig builds the throw described by the toss section: a flick at time
// zero, followed by the optional obstacle press.
func FromConfig(cfg *config.Config) *Script {
	v := View{Width: cfg.View.Width, Height: cfg.View.Height}
	events := Flick(v, cfg.Toss.StartAngle, cfg.Toss.Velocity, 0)
	if o := cfg.Toss.Obstacle; o.Enabled {
		events = Merge(events, Press(v, o.Angle, o.FromMillis, o.UntilMillis))
	}
	return &Script{
		View:       v,
		StartAngle: cfg.Toss.StartAngle,
		Events:     events,
	}
}
