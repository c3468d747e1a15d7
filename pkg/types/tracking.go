package types

import (
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackCompare(sessionId string, criteria *FilterCriteria, sort SortKey, query string, resultLen int, r *http.Request)
	Close() error
}
