package types

import "time"

// LoadState is the state of the current record set.
type LoadState string

const (
	LoadStateLoading = LoadState("loading")
	LoadStateLoaded  = LoadState("loaded")
	LoadStateFailed  = LoadState("failed")
)

// Snapshot is an immutable view of the current record set. Machines must not
// be modified by readers.
type Snapshot struct {
	Machines []*Machine `json:"-"`
	State    LoadState  `json:"state"`
	Err      error      `json:"-"`
	Seq      uint64     `json:"seq"`
	LoadedAt time.Time  `json:"loadedAt"`
}
