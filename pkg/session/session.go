// Package session keeps the state of live editing sessions.
//
// A live session follows one document while it is being edited: every
// snapshot the editor sends is rebuilt into a graph, and the session
// remembers the last graph that came out valid so that a client can keep
// showing it while the document is temporarily broken, or pick it up
// again after reconnecting.
//
// # Backends
//
// The Store interface has implementations for different deployments:
//   - [MemoryStore]: bounded in-process LRU, for a single server
//   - [FileStore]: JSON files in a directory, for the CLI
//   - [RedisStore]: Redis keys with native expiry, for several instances
//   - [MongoStore]: a MongoDB collection, when sessions must survive Redis
//     evictions
//
// # Usage
//
//	store, _ := session.NewMemoryStore(0)
//	sess := session.New(document.FormatAuto, session.DefaultTTL)
//
//	res, err := engine.FromBytes(snapshot, sess.Format)
//	sess.Record(cache.Hash(snapshot), res.Graph, err)
//	_ = store.Set(ctx, sess)
//
//	later, _ := store.Get(ctx, sess.ID)
//	if later == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/document"
)

// Sentinel errors for session operations.
var (
	// ErrInvalidID is returned for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("invalid session id")
)

// Default durations.
const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 2 * time.Hour
)

// Session is the state of one live editing session.
type Session struct {
	ID     string          `json:"id" bson:"_id"`
	Format document.Format `json:"format" bson:"format"`

	// Revision counts the snapshots recorded so far.
	Revision int `json:"revision" bson:"revision"`

	// DocHash is the content hash of the latest snapshot.
	DocHash string `json:"doc_hash" bson:"doc_hash"`

	// Valid reports whether the latest snapshot produced a graph.
	Valid bool `json:"valid" bson:"valid"`

	// LastError is the message of the latest failed snapshot.
	LastError string `json:"last_error,omitempty" bson:"last_error,omitempty"`

	// Graph is the graph of the latest valid snapshot, nil before the first.
	Graph *diagram.Graph `json:"graph,omitempty" bson:"graph,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// New creates a session with a fresh random ID.
func New(format document.Format, ttl time.Duration) *Session {
	if format == "" {
		format = document.FormatAuto
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Format:    format,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ValidateID rejects identifiers that New could not have produced. Stores
// use IDs as file names and keys, so callers check IDs received from the
// network before looking them up.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Record applies the outcome of building one snapshot. A graph is kept only
// when err is nil and the graph is non-empty; otherwise the previous valid
// graph stays in place and Valid turns false.
func (s *Session) Record(docHash string, g *diagram.Graph, err error) {
	s.Revision++
	s.DocHash = docHash
	s.UpdatedAt = time.Now()
	switch {
	case err != nil:
		s.Valid = false
		s.LastError = err.Error()
	case g == nil || g.IsEmpty():
		s.Valid = false
		s.LastError = ""
	default:
		s.Valid = true
		s.LastError = ""
		s.Graph = g
	}
}

// Touch extends the session's lifetime by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
