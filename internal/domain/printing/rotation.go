package printing

import (
	"context"
	"sort"

	"github.com/printease/backend/internal/domain/shared"
)

// ErrRotationConflict is returned when another order consumed a rotation slot
// between snapshot and commit
var ErrRotationConflict = shared.NewDomainError("ROTATION_CONFLICT",
	"Printer rotation changed while the order was being committed")

// RotationState maps each category to the next printer index to try.
// The zero value is not usable; use NewRotationState.
type RotationState struct {
	next map[CategoryKey]int
}

// NewRotationState returns an empty state where every category starts at 0
func NewRotationState() RotationState {
	return RotationState{next: make(map[CategoryKey]int)}
}

// RotationStateFrom builds a state from stored counters
func RotationStateFrom(counters map[CategoryKey]int) RotationState {
	s := NewRotationState()
	for k, v := range counters {
		if v > 0 {
			s.next[k] = v
		}
	}
	return s
}

// Clone returns an independent copy
func (s RotationState) Clone() RotationState {
	return RotationStateFrom(s.next)
}

// Counter returns the raw counter stored for key
func (s RotationState) Counter(key CategoryKey) int {
	return s.next[key]
}

// Index returns the printer index to use for key among count candidates
func (s RotationState) Index(key CategoryKey, count int) int {
	if count <= 0 {
		return 0
	}
	return s.next[key] % count
}

// Advance moves key past the printer at index
func (s RotationState) Advance(key CategoryKey, index, count int) {
	if count <= 0 {
		return
	}
	s.next[key] = (index + 1) % count
}

// Apply advances every key in advances
func (s RotationState) Apply(advances []RotationAdvance) {
	for _, a := range advances {
		s.Advance(a.Key, a.Index, a.Count)
	}
}

// Counters returns a copy of the underlying counters
func (s RotationState) Counters() map[CategoryKey]int {
	out := make(map[CategoryKey]int, len(s.next))
	for k, v := range s.next {
		out[k] = v
	}
	return out
}

// Keys returns the categories with a counter, sorted by their string form
func (s RotationState) Keys() []CategoryKey {
	keys := make([]CategoryKey, 0, len(s.next))
	for k := range s.next {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// RotationAdvance records which index a committed category used
type RotationAdvance struct {
	Key   CategoryKey `json:"key"`
	Index int         `json:"index"`
	Count int         `json:"count"`
}

// Next returns the counter value after the advance
func (a RotationAdvance) Next() int {
	if a.Count <= 0 {
		return 0
	}
	return (a.Index + 1) % a.Count
}

// RotationStore holds the shared rotation state of the service
type RotationStore interface {
	// Snapshot returns a private copy of the current state
	Snapshot(ctx context.Context) (RotationState, error)

	// CompareAndAdvance applies all advances atomically, provided each key
	// still resolves to the recorded index. Otherwise it returns
	// ErrRotationConflict and changes nothing.
	CompareAndAdvance(ctx context.Context, advances []RotationAdvance) error

	// Reset clears every counter
	Reset(ctx context.Context) error
}
