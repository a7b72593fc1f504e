package session

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySessions bounds a MemoryStore created with size <= 0.
const DefaultMemorySessions = 4096

// MemoryStore keeps sessions in a bounded LRU. The least recently used
// session is dropped when the store is full.
type MemoryStore struct {
	sessions *lru.Cache[string, Session]
}

// NewMemoryStore creates an in-process store holding at most size sessions.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemorySessions
	}
	sessions, err := lru.New[string, Session](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{sessions: sessions}, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil
	}
	if sess.IsExpired() {
		s.sessions.Remove(sessionID)
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.sessions.Add(sess.ID, *sess)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.sessions.Remove(sessionID)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	for _, id := range s.sessions.Keys() {
		if sess, ok := s.sessions.Peek(id); ok && sess.IsExpired() {
			s.sessions.Remove(id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int { return s.sessions.Len() }

func (s *MemoryStore) Close() error {
	s.sessions.Purge()
	return nil
}

var _ Store = (*MemoryStore)(nil)
