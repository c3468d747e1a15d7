package pipeline

import (
	"time"

	"github.com/matst80/laser-finder/pkg/types"
	"go.uber.org/zap"
)

// Stats describes one pipeline run.
type Stats struct {
	Criteria *types.FilterCriteria
	Sort     types.SortKey
	Noop     bool
	Searched bool
	Total    int
	Returned int
	Status   types.Status
	Duration time.Duration
	Snapshot uint64
}

// Diagnostics observes pipeline runs. Implementations must not retain the
// criteria pointer.
type Diagnostics interface {
	Observe(s Stats)
}

type DiagnosticsFunc func(s Stats)

func (f DiagnosticsFunc) Observe(s Stats) { f(s) }

type NopDiagnostics struct{}

func (NopDiagnostics) Observe(Stats) {}

type multiDiagnostics []Diagnostics

func (m multiDiagnostics) Observe(s Stats) {
	for _, d := range m {
		d.Observe(s)
	}
}

// Combine fans a run out to every non nil diagnostics.
func Combine(ds ...Diagnostics) Diagnostics {
	ret := make(multiDiagnostics, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			ret = append(ret, d)
		}
	}
	if len(ret) == 1 {
		return ret[0]
	}
	return ret
}

// LogDiagnostics writes every run at debug level.
type LogDiagnostics struct {
	Logger *zap.Logger
}

func (l LogDiagnostics) Observe(s Stats) {
	if l.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("sort", string(s.Sort)),
		zap.Bool("noop", s.Noop),
		zap.Bool("searched", s.Searched),
		zap.Int("total", s.Total),
		zap.Int("returned", s.Returned),
		zap.String("status", string(s.Status)),
		zap.Duration("took", s.Duration),
		zap.Uint64("snapshot", s.Snapshot),
	}
	if s.Criteria != nil && !s.Noop {
		fields = append(fields, zap.Any("criteria", s.Criteria))
	}
	l.Logger.Debug("compare pipeline run", fields...)
}
