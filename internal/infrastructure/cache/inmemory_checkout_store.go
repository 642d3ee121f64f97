package cache

import (
	"context"
	"sync"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type checkoutEntry struct {
	amount decimal.Decimal
	expiry time.Time
}

// InMemoryCheckoutStore keeps opened gateway orders in process memory.
// Expired entries are dropped lazily on the next Record.
type InMemoryCheckoutStore struct {
	mu      sync.Mutex
	entries map[string]checkoutEntry
	now     func() time.Time
}

// NewInMemoryCheckoutStore creates an empty store
func NewInMemoryCheckoutStore() *InMemoryCheckoutStore {
	return &InMemoryCheckoutStore{
		entries: make(map[string]checkoutEntry),
		now:     time.Now,
	}
}

// Record stores amount for gatewayOrderID, replacing any earlier entry
func (s *InMemoryCheckoutStore) Record(_ context.Context, gatewayOrderID string, amount decimal.Decimal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiry) {
			delete(s.entries, id)
		}
	}
	s.entries[gatewayOrderID] = checkoutEntry{amount: amount, expiry: now.Add(ttl)}
	return nil
}

// Amount returns the recorded amount for an unexpired gateway order
func (s *InMemoryCheckoutStore) Amount(_ context.Context, gatewayOrderID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[gatewayOrderID]
	if !ok || !s.now().Before(e.expiry) {
		return decimal.Zero, shared.ErrNotFound
	}
	return e.amount, nil
}

var _ printing.CheckoutStore = (*InMemoryCheckoutStore)(nil)
