package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/laser-finder/pkg/types"
	"go.uber.org/zap"
)

type RefreshOutcome string

const (
	RefreshOk         = RefreshOutcome("ok")
	RefreshFailed     = RefreshOutcome("failed")
	RefreshSuperseded = RefreshOutcome("superseded")
)

// Refresher loads the record set from a Source into a RecordStore. Starting
// a refresh cancels the one in flight; whichever was started last wins.
// Failures are not retried.
type Refresher struct {
	Source Source
	Store  *RecordStore
	Disk   *DiskStorage
	Limit  int
	Logger *zap.Logger
	// Observe is called once per refresh with its outcome.
	Observe func(outcome RefreshOutcome, count int, took time.Duration)

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (r *Refresher) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.Store.Begin()
	if r.cancel != nil {
		r.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	return seq, fetchCtx, cancel
}

func (r *Refresher) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Refresher) observe(outcome RefreshOutcome, count int, start time.Time) {
	if r.Observe != nil {
		r.Observe(outcome, count, time.Since(start))
	}
}

// Refresh fetches and commits a new record set, returning the number of
// machines loaded. ErrSuperseded means a newer refresh was started meanwhile
// and this result was dropped.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	seq, fetchCtx, cancel := r.begin(ctx)
	defer cancel()
	log := r.logger().With(zap.String("refresh", uuid.NewString()), zap.Uint64("seq", seq))

	raws, err := r.Source.Fetch(fetchCtx, r.Limit)
	if err != nil {
		if failErr := r.Store.Fail(seq, err); errors.Is(failErr, ErrSuperseded) {
			log.Debug("discarding superseded refresh", zap.Error(err))
			r.observe(RefreshSuperseded, 0, start)
			return 0, ErrSuperseded
		}
		log.Warn("refresh failed", zap.Error(err))
		r.observe(RefreshFailed, 0, start)
		return 0, err
	}

	machines := types.NormalizeAll(raws)
	if err := r.Store.Commit(seq, machines); err != nil {
		log.Debug("discarding superseded refresh", zap.Int("machines", len(machines)))
		r.observe(RefreshSuperseded, 0, start)
		return 0, err
	}
	log.Info("machines refreshed", zap.Int("machines", len(machines)), zap.Duration("took", time.Since(start)))
	r.observe(RefreshOk, len(machines), start)

	if r.Disk != nil {
		if err := r.Disk.SaveMachines(raws); err != nil {
			log.Warn("failed to save machine snapshot", zap.Error(err))
		}
	}
	return len(machines), nil
}

// Restore commits the snapshot saved by the last successful refresh, giving
// a warm start before the first fetch completes.
func (r *Refresher) Restore() (int, error) {
	if r.Disk == nil {
		return 0, nil
	}
	raws, err := r.Disk.LoadMachines()
	if err != nil {
		return 0, err
	}
	seq := r.Store.Begin()
	machines := types.NormalizeAll(raws)
	if err := r.Store.Commit(seq, machines); err != nil {
		return 0, err
	}
	r.logger().Info("restored machine snapshot", zap.Int("machines", len(machines)))
	return len(machines), nil
}
