package mocks

import (
	"context"
	"sync"

	"github.com/satriahrh/synapse-agent/domain"
)

// ContextStore is an in-memory domain.ContextStore that records calls.
type ContextStore struct {
	mu sync.Mutex

	Blobs    map[string]domain.ContextBlob
	ReadErr  error
	WriteErr error

	Reads  int
	Writes []domain.ContextBlob

	// Written receives the id of every write attempt when non-nil.
	Written chan string
}

func NewContextStore() *ContextStore {
	return &ContextStore{Blobs: make(map[string]domain.ContextBlob)}
}

func (s *ContextStore) Read(ctx context.Context, id string) (domain.ContextBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reads++
	if s.ReadErr != nil {
		return domain.ContextBlob{}, s.ReadErr
	}
	return s.Blobs[id].Clone(), nil
}

func (s *ContextStore) Write(ctx context.Context, id string, blob domain.ContextBlob) error {
	s.mu.Lock()
	s.Writes = append(s.Writes, blob.Clone())
	err := s.WriteErr
	if err == nil {
		s.Blobs[id] = blob.Clone()
	}
	written := s.Written
	s.mu.Unlock()

	if written != nil {
		written <- id
	}
	return err
}

// Snapshot returns the read count and a copy of the recorded writes.
func (s *ContextStore) Snapshot() (reads int, writes []domain.ContextBlob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Reads, append([]domain.ContextBlob(nil), s.Writes...)
}
