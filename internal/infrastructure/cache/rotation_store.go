package cache

import (
	"context"
	"sync"

	"github.com/printease/backend/internal/domain/printing"
)

// InMemoryRotationStore holds the rotation of a single service instance
// behind one mutex
type InMemoryRotationStore struct {
	mu    sync.Mutex
	state printing.RotationState
}

// NewInMemoryRotationStore creates an empty store
func NewInMemoryRotationStore() *InMemoryRotationStore {
	return &InMemoryRotationStore{state: printing.NewRotationState()}
}

// Snapshot returns a private copy of the rotation
func (s *InMemoryRotationStore) Snapshot(_ context.Context) (printing.RotationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), nil
}

// CompareAndAdvance applies advances when every key still resolves to the
// recorded index
func (s *InMemoryRotationStore) CompareAndAdvance(_ context.Context, advances []printing.RotationAdvance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range advances {
		if s.state.Index(a.Key, a.Count) != a.Index {
			return printing.ErrRotationConflict
		}
	}
	s.state.Apply(advances)
	return nil
}

// Reset clears every counter
func (s *InMemoryRotationStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = printing.NewRotationState()
	return nil
}

var _ printing.RotationStore = (*InMemoryRotationStore)(nil)
