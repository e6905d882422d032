package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spinbottle/internal/sim"
)

// Stats summarizes step magnitudes over the frames where the disc rotated.
type Stats struct {
	Samples int
	Mean    float64
	StdDev  float64
	Median  float64
	Max     float64
}

func SpeedStats(frames []sim.Frame) Stats {
	speeds := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Rotating {
			speeds = append(speeds, math.Abs(f.Step))
		}
	}
	if len(speeds) == 0 {
		return Stats{}
	}

	sort.Float64s(speeds)
	mean, std := stat.MeanStdDev(speeds, nil)
	if len(speeds) == 1 {
		std = 0
	}
	return Stats{
		Samples: len(speeds),
		Mean:    mean,
		StdDev:  std,
		Median:  stat.Quantile(0.5, stat.Empirical, speeds, nil),
		Max:     speeds[len(speeds)-1],
	}
}

// Settle returns the number of ticks from the first start event to the last
// stop event, or -1 when the disc never came to rest.
func Settle(events []sim.Event) int {
	start, stop := -1, -1
	for _, ev := range events {
		switch ev.Kind {
		case sim.EventStart:
			if start < 0 {
				start = ev.Tick
			}
		case sim.EventStop:
			stop = ev.Tick
		}
	}
	if start < 0 || stop < start {
		return -1
	}
	return stop - start
}
