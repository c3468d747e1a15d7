package tracking

import (
	"net/http"

	"github.com/matst80/laser-finder/pkg/types"
	"go.uber.org/zap"
)

// LogTracking writes tracking events to the logger at debug level. It is
// used when no broker is configured.
type LogTracking struct {
	Logger *zap.Logger
}

func (t *LogTracking) TrackSession(sessionId string, r *http.Request) {
	e := NewSessionEvent(sessionId, "", r)
	t.Logger.Debug("session started", zap.String("session", sessionId), zap.String("ip", e.Ip), zap.String("user_agent", e.UserAgent))
}

func (t *LogTracking) TrackCompare(sessionId string, criteria *types.FilterCriteria, sort types.SortKey, query string, resultLen int, r *http.Request) {
	t.Logger.Debug("compare",
		zap.String("session", sessionId),
		zap.Bool("default_criteria", criteria.IsNoop()),
		zap.String("sort", string(sort)),
		zap.String("query", query),
		zap.Int("results", resultLen))
}

func (t *LogTracking) Close() error {
	_ = t.Logger.Sync()
	return nil
}
