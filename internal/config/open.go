package config

import (
	"context"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/session"
)

// OpenCache builds the configured cache backend. Redis and file backends
// fail if the backend cannot be reached or created.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(c.MemorySize)
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:    c.RedisURL,
			Addr:   c.RedisAddr,
			Prefix: "docgraph:",
		})
	default:
		return cache.NewFileCache(c.Dir)
	}
}

// OpenStore builds the configured session store.
func (s SessionConfig) OpenStore(ctx context.Context) (session.Store, error) {
	switch s.Backend {
	case BackendFile:
		return session.NewFileStore(s.Dir)
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: s.RedisAddr})
		if err != nil {
			return nil, err
		}
		return &ownedStore{Store: session.NewRedisStore(rc.Client(), ""), closer: rc.Close}, nil
	case BackendMongo:
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:      s.MongoURI,
			Database: s.MongoDatabase,
		})
	default:
		return session.NewMemoryStore(session.DefaultMemorySessions)
	}
}

// ownedStore closes a connection the wrapped store borrowed.
type ownedStore struct {
	session.Store
	closer func() error
}

func (s *ownedStore) Close() error {
	if err := s.Store.Close(); err != nil {
		return err
	}
	return s.closer()
}
