package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/sim"
	"github.com/san-kum/spinbottle/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ffff">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// AngleTraceToSVG plots the disc angle against time. The path is broken where
// the angle wraps across 0/360 and bounces are marked with circles.
func AngleTraceToSVG(frames []sim.Frame, width, height int, strokeColor string) string {
	if len(frames) < 2 {
		return ""
	}

	t0 := float64(frames[0].Millis)
	span := float64(frames[len(frames)-1].Millis) - t0
	if span == 0 {
		span = 1
	}

	px := func(f sim.Frame) (float64, float64) {
		x := (float64(f.Millis) - t0) / span * float64(width)
		y := float64(height) - f.Angle/angle.FullTurn*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor))

	for i, f := range frames {
		x, y := px(f)
		if i == 0 || wrapped(frames[i-1], f) {
			sb.WriteString(fmt.Sprintf(" M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	for _, f := range frames {
		if !f.Bounced {
			continue
		}
		x, y := px(f)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ff4444"/>
`, x, y))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// wrapped reports whether the straight segment between two frames would cross
// the plot instead of following the short way around the circle.
func wrapped(prev, cur sim.Frame) bool {
	return math.Abs(cur.Angle-prev.Angle) > angle.HalfTurn
}
