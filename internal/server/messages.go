package server

import (
	"encoding/json"
	"time"

	"github.com/san-kum/spinbottle/internal/engine"
)

// Message types. Everything but touch flows from the server to clients.
const (
	MsgStateInit = "state_init"
	MsgFrame     = "frame"
	MsgStart     = "start"
	MsgStop      = "stop"
	MsgBounce    = "bounce"
	MsgTouch     = "touch"
)

// envelope is the wire format envelope for WS messages.
type envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FrameData is the payload of state_init and frame.
type FrameData struct {
	Tick int `json:"tick"`
	engine.Snapshot
	Bounced bool   `json:"bounced"`
	Gesture string `json:"gesture"`
}

type StartData struct {
	Speed float64 `json:"speed"`
}

type StopData struct {
	Angle float64 `json:"angle"`
}

type BounceData struct {
	Angle  float64 `json:"angle"`
	Step   float64 `json:"step"`
	Mirror bool    `json:"mirror"`
}

// TouchData is a pointer event from a client, in the client's view
// coordinates. T is the client timestamp in milliseconds; when absent the
// session clock is used.
type TouchData struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	T      *int64  `json:"t,omitempty"`
}

func marshalEnvelope(typ string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return json.Marshal(envelope{Type: typ, Ts: &now, Data: raw})
}
