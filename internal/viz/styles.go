package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

func themed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// StatusLabel names the disc state in the current theme. A held bottle wins
// over a spinning one.
func StatusLabel(held, rotating bool) string {
	switch {
	case held:
		return themed(CurrentTheme.Held).Render("HELD")
	case rotating:
		return themed(CurrentTheme.Spin).Render("SPINNING")
	default:
		return themed(CurrentTheme.Idle).Render("IDLE")
	}
}

// Warning renders an inline error line.
func Warning(msg string) string {
	return themed(CurrentTheme.Held).Render(msg)
}

// GradientText blends each rune from one color to the other in Lab space.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(from))
	b, errB := colorful.Hex(string(to))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Foreground(from).Render(text)
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// SpeedSparkline draws |speed| as one bar per bucket, averaging the values
// that fall into each of at most width buckets. Bars are scaled to peak; a
// non-positive peak scales to the largest value. Color runs from the idle to
// the spin color of the current theme.
func SpeedSparkline(speeds []float64, width int, peak float64) string {
	if width <= 0 {
		return ""
	}
	if len(speeds) == 0 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	if peak <= 0 {
		for _, v := range speeds {
			peak = max(peak, math.Abs(v))
		}
		if peak == 0 {
			peak = 1
		}
	}

	lo, _ := colorful.Hex(string(CurrentTheme.Idle))
	hi, _ := colorful.Hex(string(CurrentTheme.Spin))

	buckets := min(width, len(speeds))
	var out strings.Builder
	for i := 0; i < buckets; i++ {
		from, to := i*len(speeds)/buckets, (i+1)*len(speeds)/buckets
		var sum float64
		for _, v := range speeds[from:to] {
			sum += math.Abs(v)
		}
		level := math.Min(sum/float64(to-from)/peak, 1)
		bar := sparkLevels[int(math.Round(level*float64(len(sparkLevels)-1)))]
		c := lo.BlendLab(hi, level).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(bar)))
	}
	return out.String()
}

// Rule is a muted divider with a centre mark.
func Rule(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	left := (width - 3) / 2
	return Subtle.Render(strings.Repeat("─", left) + " ◆ " + strings.Repeat("─", width-3-left))
}
