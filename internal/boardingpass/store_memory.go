package boardingpass

import (
	"context"
	"sync"

	"github.com/Domenick1991/aircheckin/internal/domain"
)

type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

func (s *MemoryDocumentStore) PutIfAbsent(_ context.Context, bookingID string, content []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[bookingID]; ok {
		return false, nil
	}
	s.docs[bookingID] = append([]byte{}, content...)
	return true, nil
}

func (s *MemoryDocumentStore) Get(_ context.Context, bookingID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.docs[bookingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte{}, content...), nil
}

var _ DocumentStore = (*MemoryDocumentStore)(nil)
