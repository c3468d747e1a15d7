package storage

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/redis/go-redis/v9"
)

// PreferenceStore persists the view mode and sort key per session.
type PreferenceStore interface {
	Get(ctx context.Context, session string) (types.Preferences, error)
	Set(ctx context.Context, session string, prefs types.Preferences) error
}

type MemoryPreferences struct {
	mu    sync.RWMutex
	items map[string]types.Preferences
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{items: make(map[string]types.Preferences)}
}

func (m *MemoryPreferences) Get(_ context.Context, session string) (types.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.items[session]; ok {
		return p, nil
	}
	return types.DefaultPreferences(), nil
}

func (m *MemoryPreferences) Set(_ context.Context, session string, prefs types.Preferences) error {
	prefs.Sanitize()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[session] = prefs
	return nil
}

const preferencesTTL = 30 * 24 * time.Hour

// RedisPreferences stores a hash per session at prefs:<session> with the
// fields view and sortOption.
type RedisPreferences struct {
	client *redis.Client
	TTL    time.Duration
}

func NewRedisPreferences(addr, password string, db int) *RedisPreferences {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPreferences{client: rdb, TTL: preferencesTTL}
}

func preferencesKey(session string) string {
	return "prefs:" + session
}

func (r *RedisPreferences) Get(ctx context.Context, session string) (types.Preferences, error) {
	values, err := r.client.HGetAll(ctx, preferencesKey(session)).Result()
	if err != nil {
		return types.DefaultPreferences(), err
	}
	prefs := types.Preferences{
		View: types.ViewMode(values[types.PreferenceViewKey]),
		Sort: types.SortKey(values[types.PreferenceSortKey]),
	}
	prefs.Sanitize()
	return prefs, nil
}

func (r *RedisPreferences) Set(ctx context.Context, session string, prefs types.Preferences) error {
	prefs.Sanitize()
	key := preferencesKey(session)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, types.PreferenceViewKey, string(prefs.View), types.PreferenceSortKey, string(prefs.Sort))
		pipe.Expire(ctx, key, r.TTL)
		return nil
	})
	return err
}

func (r *RedisPreferences) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPreferences) Close() error {
	return r.client.Close()
}
