package pipeline

import (
	"encoding/json"
	"fmt"
)

// Event kinds carried on a job's live stream.
const (
	EventLog    = "log"
	EventStage  = "stage"
	EventDone   = "done"
	EventError  = "error"
	EventStatus = "status"
)

// Event is one decoded message from a job's event stream.
type Event struct {
	Type   string          `json:"type"`
	Line   string          `json:"line,omitempty"`
	Stage  string          `json:"stage,omitempty"`
	Status string          `json:"status,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Terminal reports whether the event ends its stream.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// DecodeEvent parses one stream payload into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing type")
	}
	return ev, nil
}
