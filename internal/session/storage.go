package session

import (
	"context"
	"sync"
)

// Claves persistidas. Se mantienen iguales en todos los backends.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Record es lo que se persiste entre reinicios. User va serializado en JSON.
type Record struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         string `json:"user,omitempty"`
}

func (r Record) Empty() bool {
	return r.Token == "" && r.RefreshToken == "" && r.User == ""
}

// Storage persiste el Record completo. Save y Clear escriben las tres claves juntas.
type Storage interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

type memoryStorage struct {
	mu  sync.Mutex
	rec Record
}

func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Load(_ context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, nil
}

func (s *memoryStorage) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	return nil
}

func (s *memoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = Record{}
	return nil
}
