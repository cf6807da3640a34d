package memory

import (
	"context"
	"sync"

	"github.com/satriahrh/synapse-agent/domain"
)

// Store keeps context blobs in process memory. Used for local runs and tests.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]domain.ContextBlob
}

func NewStore() *Store {
	return &Store{blobs: make(map[string]domain.ContextBlob)}
}

// Read returns an empty blob for an unknown id.
func (s *Store) Read(ctx context.Context, id string) (domain.ContextBlob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ContextBlob{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blobs[id].Clone(), nil
}

func (s *Store) Write(ctx context.Context, id string, blob domain.ContextBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = blob.Clone()
	return nil
}
