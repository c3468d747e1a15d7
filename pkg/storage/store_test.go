package storage

import (
	"errors"
	"testing"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	calls [][]*types.Machine
}

func (h *recordingHandler) HandleMachines(ms []*types.Machine) {
	h.calls = append(h.calls, ms)
}

func named(names ...string) []*types.Machine {
	raws := make([]types.RawMachine, 0, len(names))
	for _, n := range names {
		raws = append(raws, types.RawMachine{"Machine Name": n})
	}
	return types.NormalizeAll(raws)
}

func TestStoreStartsLoading(t *testing.T) {
	s := NewRecordStore()
	assert.Equal(t, types.LoadStateLoading, s.Snapshot().State)
}

func TestLastWriteWins(t *testing.T) {
	h := &recordingHandler{}
	s := NewRecordStore(h)
	first := s.Begin()
	second := s.Begin()

	require.NoError(t, s.Commit(second, named("new")))
	assert.ErrorIs(t, s.Commit(first, named("old")), ErrSuperseded)
	assert.ErrorIs(t, s.Fail(first, errors.New("late failure")), ErrSuperseded)

	snap := s.Snapshot()
	assert.Equal(t, types.LoadStateLoaded, snap.State)
	assert.Equal(t, second, snap.Seq)
	require.Len(t, snap.Machines, 1)
	assert.Equal(t, "new", snap.Machines[0].Name)
	assert.Len(t, h.calls, 1)
}

func TestFailClearsRecords(t *testing.T) {
	s := NewRecordStore()
	require.NoError(t, s.Commit(s.Begin(), named("a", "b")))
	cause := errors.New("network down")
	require.NoError(t, s.Fail(s.Begin(), cause))

	snap := s.Snapshot()
	assert.Equal(t, types.LoadStateFailed, snap.State)
	assert.Empty(t, snap.Machines)
	assert.ErrorIs(t, snap.Err, cause)
}

func TestAddHandlerReplaysLoadedSet(t *testing.T) {
	s := NewRecordStore()
	require.NoError(t, s.Commit(s.Begin(), nil))
	h := &recordingHandler{}
	s.AddHandler(h)
	require.Len(t, h.calls, 1)
	assert.NotNil(t, h.calls[0])
	assert.True(t, s.IsLatest(1))
}
