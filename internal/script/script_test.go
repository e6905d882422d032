package script

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/config"
)

var view = View{Width: 200, Height: 100}

func TestFlick(t *testing.T) {
	events := Flick(view, 30, 0.5, 100)

	if len(events) != FlickMoves+2 {
		t.Fatalf("expected %d events, got %d", FlickMoves+2, len(events))
	}
	if events[0].Kind != Down || events[len(events)-1].Kind != Up {
		t.Errorf("flick must start with down and end with up: %+v", events)
	}

	first := angle.FromPoint(events[0].X, events[0].Y, view.Width, view.Height)
	if math.Abs(angle.Delta(30, first)) > 1e-9 {
		t.Errorf("down at %.3f, want 30", first)
	}

	last := events[len(events)-2]
	if last.At != 100+FlickMoves*FlickSpacing {
		t.Errorf("last move at %d", last.At)
	}
	got := angle.FromPoint(last.X, last.Y, view.Width, view.Height)
	if math.Abs(angle.Delta(45, got)) > 1e-9 {
		t.Errorf("last move at %.3f, want 45", got)
	}
}

func TestMergeOrdersByTime(t *testing.T) {
	merged := Merge(Flick(view, 0, 1, 0), Press(view, 90, 15, 500))

	s := &Script{View: view, Events: merged}
	if err := s.Validate(); err != nil {
		t.Fatalf("merged script invalid: %v", err)
	}
	if merged[2].Kind != Down || merged[2].At != 15 {
		t.Errorf("press not interleaved: %+v", merged[2])
	}
	if s.End() != 500 {
		t.Errorf("End = %d, want 500", s.End())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		script Script
	}{
		{"empty view", Script{}},
		{"unknown kind", Script{View: view, Events: []Event{{Kind: "tap"}}}},
		{"nan position", Script{View: view, Events: []Event{{Kind: Down, X: math.NaN()}}}},
		{"negative time", Script{View: view, Events: []Event{{Kind: Down, At: -1}}}},
		{"out of order", Script{View: view, Events: []Event{{Kind: Down, At: 20}, {Kind: Up, At: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.script.Validate(); !errors.Is(err, ErrInvalidScript) {
				t.Errorf("expected ErrInvalidScript, got %v", err)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.GetPreset("bounce")
	s := FromConfig(cfg)

	if err := s.Validate(); err != nil {
		t.Fatalf("invalid: %v", err)
	}
	if len(s.Events) != FlickMoves+4 {
		t.Errorf("expected flick plus press, got %d events", len(s.Events))
	}
	if s.StartAngle != cfg.Toss.StartAngle {
		t.Errorf("start angle %v", s.StartAngle)
	}

	cfg = config.DefaultConfig()
	if n := len(FromConfig(cfg).Events); n != FlickMoves+2 {
		t.Errorf("expected flick only, got %d events", n)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "throw.yaml")
	s := &Script{Name: "throw", View: view, StartAngle: 10, Events: Flick(view, 10, -0.2, 0)}

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "throw" || len(loaded.Events) != len(s.Events) {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.Events[1].Kind != Move {
		t.Errorf("expected move, got %s", loaded.Events[1].Kind)
	}
}
