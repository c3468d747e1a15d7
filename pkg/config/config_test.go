package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileWithOverrides(t *testing.T) {
	path := writeConfig(t, `
listen_address: ":9000"
machines_url: "http://machines.local"
fetch_limit: 200
redis:
  url: "redis:6379"
  db: 2
rabbit:
  prefix: "lasers"
`)
	t.Setenv("FETCH_LIMIT", "5000")
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddress)
	assert.Equal(t, "http://machines.local", cfg.MachinesUrl)
	assert.Equal(t, MaxFetchLimit, cfg.FetchLimit)
	assert.Equal(t, "redis:6379", cfg.Redis.Url)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "lasers", cfg.Rabbit.Prefix)
	assert.Equal(t, "s3cret", cfg.Admin.JwtSecret)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.UsesDatabase())
}

func TestLoadFileMissingUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lasers")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, DefaultFetchLimit, cfg.FetchLimit)
	assert.Equal(t, DefaultListenAddress, cfg.ListenAddress)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "machines_url: [oops"))
	assert.Error(t, err)

	_, err = LoadFile("")
	assert.Error(t, err, "a source is required")

	t.Setenv("MACHINES_URL", "ftp://nope")
	_, err = LoadFile("")
	assert.Error(t, err)

	t.Setenv("MACHINES_URL", "http://ok")
	t.Setenv("FETCH_LIMIT", "many")
	_, err = LoadFile("")
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultFetchLimit, ClampLimit(0))
	assert.Equal(t, DefaultFetchLimit, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 750, ClampLimit(750))
	assert.Equal(t, MaxFetchLimit, ClampLimit(1001))
}
