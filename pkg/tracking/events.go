package tracking

import (
	"net/http"

	"github.com/matst80/laser-finder/pkg/types"
)

const (
	EventSession uint16 = 0
	EventCompare uint16 = 1
)

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

type CompareEvent struct {
	*BaseEvent
	Criteria        *types.FilterCriteria `json:"criteria,omitempty"`
	Sort            types.SortKey         `json:"sort"`
	Query           string                `json:"query,omitempty"`
	NumberOfResults int                   `json:"noi"`
	Referer         string                `json:"referer,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func NewSessionEvent(sessionId, context string, r *http.Request) *Session {
	return &Session{
		BaseEvent:    &BaseEvent{Event: EventSession, SessionId: sessionId, Context: context},
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	}
}

// NewCompareEvent skips the criteria when they are the defaults.
func NewCompareEvent(sessionId, context string, criteria *types.FilterCriteria, sort types.SortKey, query string, resultLen int, r *http.Request) *CompareEvent {
	if criteria.IsNoop() {
		criteria = nil
	}
	return &CompareEvent{
		BaseEvent:       &BaseEvent{Event: EventCompare, SessionId: sessionId, Context: context},
		Criteria:        criteria,
		Sort:            sort,
		Query:           query,
		NumberOfResults: resultLen,
		Referer:         r.Header.Get("Referer"),
	}
}
