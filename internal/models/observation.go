package models

import "time"

// Observation is the outcome of a single poll cycle.
type Observation struct {
	ID         string    `json:"id"`
	ObservedAt time.Time `json:"observed_at"`
	State      DoorState `json:"state"`           // OPEN | CLOSED | UNKNOWN
	Hour       int       `json:"hour"`            // local wall-clock hour
	Minute     int       `json:"minute"`          // local wall-clock minute
	InWindow   bool      `json:"in_window"`       // observation hours at ObservedAt
	Notified   int       `json:"notified"`        // deliveries that succeeded
	Failed     int       `json:"failed"`          // deliveries that failed
	Error      string    `json:"error,omitempty"` // probe failure, if any
}

// ShouldAlert reports whether recipients are notified for this observation.
func (o Observation) ShouldAlert() bool {
	return o.State == DoorOpen && o.InWindow
}
