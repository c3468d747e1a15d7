package types

// Status tells a view which state to render. Empty and Error are distinct so
// "no matches" never looks like a failed fetch.
type Status string

const (
	StatusLoading = Status("loading")
	StatusReady   = Status("ready")
	StatusEmpty   = Status("empty")
	StatusError   = Status("error")
)
