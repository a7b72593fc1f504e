package config

import (
	"strconv"
	"strings"
	"time"

	dgerrors "github.com/matzehuels/docgraph/pkg/errors"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envBinding maps one DOCGRAPH_* variable onto a config field.
type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

var envBindings = []envBinding{
	{"MAX_DEPTH", func(c *Config, v string) error { return setInt(&c.Engine.MaxDepth, v) }},
	{"UNIQUE_IDS", func(c *Config, v string) error { return setBool(&c.Engine.UniqueIDs, v) }},
	{"MAX_SIZE", func(c *Config, v string) error { return setInt64(&c.Engine.MaxSize, v) }},
	{"CACHE_BACKEND", func(c *Config, v string) error { c.Cache.Backend = strings.ToLower(v); return nil }},
	{"CACHE_DIR", func(c *Config, v string) error { c.Cache.Dir = v; return nil }},
	{"CACHE_TTL", func(c *Config, v string) error { return setDuration(&c.Cache.TTL, v) }},
	{"REDIS_ADDR", func(c *Config, v string) error { c.Cache.RedisAddr = v; return nil }},
	{"REDIS_URL", func(c *Config, v string) error { c.Cache.RedisURL = v; return nil }},
	{"MEMORY_SIZE", func(c *Config, v string) error { return setInt(&c.Cache.MemorySize, v) }},
	{"ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"SESSION_BACKEND", func(c *Config, v string) error { c.Session.Backend = strings.ToLower(v); return nil }},
	{"SESSION_DIR", func(c *Config, v string) error { c.Session.Dir = v; return nil }},
	{"SESSION_TTL", func(c *Config, v string) error { return setDuration(&c.Session.TTL, v) }},
	{"SESSION_REDIS_ADDR", func(c *Config, v string) error { c.Session.RedisAddr = v; return nil }},
	{"MONGO_URI", func(c *Config, v string) error { c.Session.MongoURI = v; return nil }},
	{"MONGO_DATABASE", func(c *Config, v string) error { c.Session.MongoDatabase = v; return nil }},
}

// EnvNames lists the recognised environment variables.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}
	return names
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if err := b.set(c, v); err != nil {
			return dgerrors.Wrap(dgerrors.ErrCodeInvalidOptions, err, "%s%s", EnvPrefix, b.name)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func setDuration(dst *Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	dst.Duration = d
	return nil
}
