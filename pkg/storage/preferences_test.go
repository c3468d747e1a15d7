package storage

import (
	"context"
	"testing"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPreferences(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPreferences()

	prefs, err := p.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPreferences(), prefs)

	require.NoError(t, p.Set(ctx, "s1", types.Preferences{View: types.ViewTable, Sort: types.SortNameAsc}))
	require.NoError(t, p.Set(ctx, "s2", types.Preferences{View: "tiles", Sort: "random"}))

	prefs, _ = p.Get(ctx, "s1")
	assert.Equal(t, types.Preferences{View: types.ViewTable, Sort: types.SortNameAsc}, prefs)
	prefs, _ = p.Get(ctx, "s2")
	assert.Equal(t, types.DefaultPreferences(), prefs)
}

func TestPreferencesKey(t *testing.T) {
	assert.Equal(t, "prefs:abc", preferencesKey("abc"))
}
