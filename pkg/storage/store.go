package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/matst80/laser-finder/pkg/types"
)

// ErrSuperseded is returned when a result arrives for a request that is no
// longer the latest one. The result has been discarded.
var ErrSuperseded = errors.New("superseded by a newer refresh")

// RecordStore holds the current record set. Refreshes are numbered by Begin
// and only the latest begun sequence may commit, so a slow response can
// never overwrite a newer one.
type RecordStore struct {
	mu       sync.RWMutex
	latest   uint64
	current  types.Snapshot
	handlers []types.MachineHandler
}

func NewRecordStore(handlers ...types.MachineHandler) *RecordStore {
	return &RecordStore{
		current:  types.Snapshot{State: types.LoadStateLoading},
		handlers: handlers,
	}
}

func (s *RecordStore) AddHandler(h types.MachineHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
	if s.current.State == types.LoadStateLoaded {
		h.HandleMachines(s.current.Machines)
	}
}

// Begin reserves the next request sequence. Any result for an earlier
// sequence is discarded from now on.
func (s *RecordStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

func (s *RecordStore) IsLatest(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq == s.latest
}

// Commit replaces the record set if seq is still the latest request.
func (s *RecordStore) Commit(seq uint64, machines []*types.Machine) error {
	if machines == nil {
		machines = []*types.Machine{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		return ErrSuperseded
	}
	s.current = types.Snapshot{
		Machines: machines,
		State:    types.LoadStateLoaded,
		Seq:      seq,
		LoadedAt: time.Now(),
	}
	for _, h := range s.handlers {
		h.HandleMachines(machines)
	}
	return nil
}

// Fail marks the latest request as failed. The record set becomes empty so
// a failed fetch is never rendered as stale data.
func (s *RecordStore) Fail(seq uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		return ErrSuperseded
	}
	s.current = types.Snapshot{
		Machines: []*types.Machine{},
		State:    types.LoadStateFailed,
		Err:      err,
		Seq:      seq,
		LoadedAt: time.Now(),
	}
	for _, h := range s.handlers {
		h.HandleMachines(s.current.Machines)
	}
	return nil
}

func (s *RecordStore) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
