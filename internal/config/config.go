// Package config loads docgraph settings for the CLI and the HTTP service.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, $XDG_CONFIG_HOME/docgraph/config.toml unless --config
//     names another one
//  3. DOCGRAPH_* environment variables, including those loaded from a
//     .env file in the working directory
//
// # File Format
//
//	[engine]
//	max_depth = 128
//	unique_ids = false
//
//	[cache]
//	backend = "file"      # none, file, memory or redis
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//
//	[session]
//	backend = "memory"    # memory, file, redis or mongo
//	ttl = "2h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/docgraph/pkg/cache"
	dgerrors "github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/session"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCGRAPH_"

// Cache backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the resolved docgraph configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`

	// Path is the file the configuration was read from, empty if none.
	Path string `toml:"-"`
}

// EngineConfig holds build defaults.
type EngineConfig struct {
	MaxDepth  int   `toml:"max_depth"`
	UniqueIDs bool  `toml:"unique_ids"`
	MaxSize   int64 `toml:"max_size"`
}

// CacheConfig selects and tunes the graph/artifact cache.
type CacheConfig struct {
	Backend    string   `toml:"backend"`
	Dir        string   `toml:"dir"`
	TTL        Duration `toml:"ttl"`
	RedisAddr  string   `toml:"redis_addr"`
	RedisURL   string   `toml:"redis_url"`
	MemorySize int      `toml:"memory_size"`
}

// ServerConfig configures `docgraph serve`.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// SessionConfig selects the store backing live editing sessions.
type SessionConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxDepth: pipeline.DefaultMaxDepth,
			MaxSize:  dgerrors.DefaultMaxDocumentSize,
		},
		Cache: CacheConfig{
			Backend:    BackendFile,
			TTL:        Duration{cache.GraphTTL},
			MemorySize: cache.DefaultMemoryEntries,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Session: SessionConfig{
			Backend:       BackendMemory,
			TTL:           Duration{session.DefaultTTL},
			MongoDatabase: "docgraph",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docgraph/config.toml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "docgraph", "config.toml"), nil
}

// Load resolves the configuration. An empty path reads DefaultPath if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				path = ""
			} else {
				return nil, err
			}
		}
		cfg.Path = path
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return dgerrors.Wrap(dgerrors.ErrCodeInvalidOptions, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks backend names and numeric limits.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendMemory, BackendRedis:
	default:
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "cache backend %q: want none, file, memory or redis", c.Cache.Backend)
	}
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "session backend %q: want memory, file, redis or mongo", c.Session.Backend)
	}
	if err := dgerrors.ValidateMaxDepth(c.Engine.MaxDepth); err != nil {
		return err
	}
	if c.Engine.MaxSize <= 0 {
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "engine max_size must be positive")
	}
	if c.Cache.MemorySize <= 0 {
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "cache memory_size must be positive")
	}
	if c.Cache.TTL.Duration < 0 || c.Session.TTL.Duration < 0 {
		return dgerrors.New(dgerrors.ErrCodeInvalidOptions, "ttl must not be negative")
	}
	return nil
}

// PipelineOptions returns build defaults for a pipeline run.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		MaxDepth:  c.Engine.MaxDepth,
		UniqueIDs: c.Engine.UniqueIDs,
		MaxSize:   c.Engine.MaxSize,
	}
}
