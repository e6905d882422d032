package sim

import "fmt"

// Frame is the disc state after one tick.
type Frame struct {
	Tick          int     `csv:"tick" json:"tick"`
	Millis        int64   `csv:"millis" json:"millis"`
	Angle         float64 `csv:"angle" json:"angle"`
	Step          float64 `csv:"step" json:"step"`
	Rotating      bool    `csv:"rotating" json:"rotating"`
	Obstacle      bool    `csv:"obstacle" json:"obstacle"`
	ObstacleAngle float64 `csv:"obstacle_angle" json:"obstacle_angle"`
	Bounced       bool    `csv:"bounced" json:"bounced"`
}

const (
	EventStart  = "start"
	EventStop   = "stop"
	EventBounce = "bounce"
)

// Event records an engine hook firing during a run.
type Event struct {
	Tick   int     `json:"tick"`
	Millis int64   `json:"millis"`
	Kind   string  `json:"kind"`
	Angle  float64 `json:"angle"`
	Speed  float64 `json:"speed"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	FrameMillis int64
	MaxTicks    int
}

type Result struct {
	Frames    []Frame
	Events    []Event
	Metrics   map[string]float64
	Errors    []error
	StopAngle float64
}

// Truncated reports whether the run hit the tick limit while the disc was
// still moving or the script still had events.
func (r *Result) Truncated() bool { return len(r.Errors) > 0 }

type SimError struct {
	Tick    int
	Millis  int64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%dms): %s", e.Tick, e.Millis, e.Message)
}
