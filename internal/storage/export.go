package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/spinbottle/internal/sim"
)

type ExportData struct {
	Run    *RunMetadata `json:"run"`
	Steps  int          `json:"steps"`
	Frames []sim.Frame  `json:"frames"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Steps:  len(frames),
		Frames: frames,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportCSV(w io.Writer, frames []sim.Frame) error {
	return gocsv.Marshal(&frames, w)
}
