package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 4, cfg.RoomCapacity)
	assert.Empty(t, cfg.Redis.Addr, "cache disabled by default")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
listen_addr: ":9090"
room_capacity: 6
sqlite_path: "/tmp/rooms.db"
redis:
  addr: "localhost:6379"
  cache_ttl_seconds: 60
`)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 6, cfg.RoomCapacity)
	assert.Equal(t, "/tmp/rooms.db", cfg.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.Redis.CacheTTLSeconds)

	// Untouched fields keep their defaults.
	assert.Equal(t, 64, cfg.Buffers.BroadcastBuffer)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoomCapacity = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ListenAddr = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SQLitePath = ""
	assert.Error(t, cfg.Validate(), "no storage configured")

	cfg = DefaultConfig()
	cfg.SQLitePath = ""
	cfg.PostgresDSN = "postgres://localhost/rooms"
	assert.NoError(t, cfg.Validate())
}
