package export

import (
	"strings"
	"testing"

	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/sim"
	"github.com/san-kum/spinbottle/internal/viz"
)

func TestAngleTraceToSVG(t *testing.T) {
	frames := []sim.Frame{
		{Millis: 0, Angle: 300},
		{Millis: 16, Angle: 350},
		{Millis: 32, Angle: 30},
		{Millis: 48, Angle: 60, Bounced: true},
	}

	svg := AngleTraceToSVG(frames, 200, 100, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if n := strings.Count(svg, " M"); n != 2 {
		t.Errorf("expected the path to break once at the wrap, got %d moves", n)
	}
	if n := strings.Count(svg, "<circle"); n != 1 {
		t.Errorf("expected one bounce marker, got %d", n)
	}

	if AngleTraceToSVG(frames[:1], 200, 100, "#fff") != "" {
		t.Error("expected empty output for a single frame")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(10, 5)
	viz.DrawDisc(c, engine.Snapshot{Angle: 45})

	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if c.Lit(x, y) {
				lit++
			}
		}
	}

	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != lit || lit == 0 {
		t.Errorf("expected %d dots, got %d", lit, n)
	}
	if CanvasToSVG(nil, 2) != "" {
		t.Error("expected empty output for nil canvas")
	}
}
