package strategy

import (
	"fmt"
	"slices"
	"sync"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/printease/backend/internal/domain/shared/strategy"
)

// table is a set of strategies keyed by name with an optional default
type table[T strategy.Strategy] struct {
	kind     strategy.StrategyType
	entries  map[string]T
	fallback string
}

func newTable[T strategy.Strategy](kind strategy.StrategyType) *table[T] {
	return &table[T]{kind: kind, entries: make(map[string]T)}
}

func (t *table[T]) add(s T) error {
	name := s.Name()
	if _, exists := t.entries[name]; exists {
		return fmt.Errorf("%w: %s strategy '%s' already registered", shared.ErrAlreadyExists, t.kind, name)
	}
	t.entries[name] = s
	return nil
}

// get resolves name, or the default when name is empty
func (t *table[T]) get(name string) (T, error) {
	var zero T
	if name == "" {
		if t.fallback == "" {
			return zero, fmt.Errorf("%w: no default %s strategy set", shared.ErrNotFound, t.kind)
		}
		name = t.fallback
	}
	s, exists := t.entries[name]
	if !exists {
		return zero, fmt.Errorf("%w: %s strategy '%s' not found", shared.ErrNotFound, t.kind, name)
	}
	return s, nil
}

func (t *table[T]) remove(name string) error {
	if _, exists := t.entries[name]; !exists {
		return fmt.Errorf("%w: %s strategy '%s' not found", shared.ErrNotFound, t.kind, name)
	}
	delete(t.entries, name)
	if t.fallback == name {
		t.fallback = ""
	}
	return nil
}

func (t *table[T]) has(name string) bool {
	_, exists := t.entries[name]
	return exists
}

func (t *table[T]) names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// StrategyRegistry holds the pricing and printer selection strategies an
// assembler can be built from
type StrategyRegistry struct {
	mu        sync.RWMutex
	pricing   *table[printing.PricingStrategy]
	selection *table[printing.PrinterSelectionStrategy]
}

// NewStrategyRegistry creates an empty registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		pricing:   newTable[printing.PricingStrategy](strategy.StrategyTypePricing),
		selection: newTable[printing.PrinterSelectionStrategy](strategy.StrategyTypeAllocation),
	}
}

// RegisterPricingStrategy adds s; names must be unique
func (r *StrategyRegistry) RegisterPricingStrategy(s printing.PricingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pricing.add(s)
}

// GetPricingStrategy returns the named pricing strategy, or the default if name is empty
func (r *StrategyRegistry) GetPricingStrategy(name string) (printing.PricingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pricing.get(name)
}

// GetPricingStrategyOrDefault falls back to the default for unknown names
func (r *StrategyRegistry) GetPricingStrategyOrDefault(name string) printing.PricingStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, err := r.pricing.get(name); err == nil {
		return s
	}
	s, _ := r.pricing.get("")
	return s
}

// ListPricingStrategies returns the registered names in order
func (r *StrategyRegistry) ListPricingStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pricing.names()
}

// RegisterSelectionStrategy adds s; names must be unique
func (r *StrategyRegistry) RegisterSelectionStrategy(s printing.PrinterSelectionStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection.add(s)
}

// GetSelectionStrategy returns the named selection strategy, or the default if name is empty
func (r *StrategyRegistry) GetSelectionStrategy(name string) (printing.PrinterSelectionStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selection.get(name)
}

// ListSelectionStrategies returns the registered names in order
func (r *StrategyRegistry) ListSelectionStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selection.names()
}

// UnregisterSelectionStrategy removes a selection strategy, clearing the
// default if it pointed at it
func (r *StrategyRegistry) UnregisterSelectionStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection.remove(name)
}

// SetDefault makes name the default of its strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case strategyType == strategy.StrategyTypePricing && r.pricing.has(name):
		r.pricing.fallback = name
	case strategyType == strategy.StrategyTypeAllocation && r.selection.has(name):
		r.selection.fallback = name
	default:
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}
	return nil
}

// GetDefault returns the default name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch strategyType {
	case strategy.StrategyTypePricing:
		return r.pricing.fallback
	case strategy.StrategyTypeAllocation:
		return r.selection.fallback
	}
	return ""
}

// IsRegistered reports whether name is registered for strategyType
func (r *StrategyRegistry) IsRegistered(strategyType strategy.StrategyType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch strategyType {
	case strategy.StrategyTypePricing:
		return r.pricing.has(name)
	case strategy.StrategyTypeAllocation:
		return r.selection.has(name)
	}
	return false
}

// Stats returns registration counts per strategy type
func (r *StrategyRegistry) Stats() map[strategy.StrategyType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[strategy.StrategyType]int{
		strategy.StrategyTypePricing:    len(r.pricing.entries),
		strategy.StrategyTypeAllocation: len(r.selection.entries),
	}
}
