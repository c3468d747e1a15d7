package messaging

import "time"

type ChangeTopic string

const (
	// MachinesChanged is published after new machines have been stored.
	MachinesChanged ChangeTopic = "machines_changed"
	Tracking        ChangeTopic = "tracking"
)

// MachinesChangedEvent is the body of a machines_changed message. An empty
// body is accepted as well.
type MachinesChangedEvent struct {
	Source string    `json:"source,omitempty"`
	Count  int       `json:"count,omitempty"`
	At     time.Time `json:"at,omitempty"`
}
