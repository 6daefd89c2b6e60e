// Package config holds the service configuration. It can be populated from
// a YAML file or used with its defaults; the zero value is not useful, call
// DefaultConfig.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
)

// Config holds all tunable parameters of the planner service.
type Config struct {
	ListenAddr   string `yaml:"listen_addr" json:"listen_addr"`
	RoomCapacity int    `yaml:"room_capacity" json:"room_capacity"`

	SQLitePath  string `yaml:"sqlite_path" json:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"` // empty = use SQLite

	Redis   RedisConfig  `yaml:"redis" json:"redis"`
	Buffers BufferConfig `yaml:"buffers" json:"buffers"`
}

// RedisConfig configures the optional result cache.
type RedisConfig struct {
	Addr            string `yaml:"addr" json:"addr"` // empty = cache disabled
	Password        string `yaml:"password" json:"password"`
	DB              int    `yaml:"db" json:"db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`
}

// BufferConfig tunes channel sizes for the broadcast path.
type BufferConfig struct {
	BroadcastBuffer  int `yaml:"broadcast" json:"broadcast"`
	ClientSendBuffer int `yaml:"client_send" json:"client_send"`
}

// DefaultConfig returns sensible defaults for a single-node deployment.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":8080",
		RoomCapacity: room.DefaultCapacity,
		SQLitePath:   "data/roomplanner.db",
		Redis: RedisConfig{
			CacheTTLSeconds: 900,
		},
		Buffers: BufferConfig{
			BroadcastBuffer:  64,
			ClientSendBuffer: 256,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.RoomCapacity <= 0 {
		return fmt.Errorf("room_capacity must be > 0")
	}
	if c.PostgresDSN == "" && c.SQLitePath == "" {
		return fmt.Errorf("either sqlite_path or postgres_dsn must be set")
	}
	if c.Redis.CacheTTLSeconds < 0 {
		return fmt.Errorf("redis.cache_ttl_seconds must be >= 0")
	}
	return nil
}
