package printing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/printease/backend/internal/domain/shared"
)

// Capability is a feature token advertised by a printer
type Capability string

const (
	CapabilityBW          Capability = "bw"
	CapabilityColor       Capability = "color"
	CapabilityA4          Capability = "A4"
	CapabilityA3          Capability = "A3"
	CapabilityA2          Capability = "A2"
	CapabilityA1          Capability = "A1"
	CapabilityA0          Capability = "A0"
	CapabilityDuplex      Capability = "duplex"
	CapabilitySingleSided Capability = "single-sided"
)

// IsValid checks if the Capability belongs to the closed token set
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityBW, CapabilityColor,
		CapabilityA4, CapabilityA3, CapabilityA2, CapabilityA1, CapabilityA0,
		CapabilityDuplex, CapabilitySingleSided:
		return true
	}
	return false
}

// String returns the string representation of Capability
func (c Capability) String() string {
	return string(c)
}

// AllCapabilities returns every known capability token
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityBW, CapabilityColor,
		CapabilityA4, CapabilityA3, CapabilityA2, CapabilityA1, CapabilityA0,
		CapabilityDuplex, CapabilitySingleSided,
	}
}

// CapabilitySet is an unordered set of capability tokens.
// The zero value is an empty set.
type CapabilitySet struct {
	tokens map[Capability]struct{}
}

// NewCapabilitySet builds a set from valid tokens; invalid tokens are an error
func NewCapabilitySet(caps ...Capability) (CapabilitySet, error) {
	set := CapabilitySet{tokens: make(map[Capability]struct{}, len(caps))}
	for _, c := range caps {
		if !c.IsValid() {
			return CapabilitySet{}, shared.NewDomainError("INVALID_CAPABILITY",
				fmt.Sprintf("Unknown printer capability: %q", string(c)))
		}
		set.tokens[c] = struct{}{}
	}
	return set, nil
}

// MustCapabilitySet is NewCapabilitySet for literal token lists; it panics on unknown tokens
func MustCapabilitySet(caps ...Capability) CapabilitySet {
	set, err := NewCapabilitySet(caps...)
	if err != nil {
		panic(err)
	}
	return set
}

// ParseCapabilitySet parses raw tokens as reported by printer agents
func ParseCapabilitySet(raw []string) (CapabilitySet, error) {
	caps := make([]Capability, 0, len(raw))
	for _, r := range raw {
		caps = append(caps, Capability(strings.TrimSpace(r)))
	}
	return NewCapabilitySet(caps...)
}

// Has reports whether the set contains c
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s.tokens[c]
	return ok
}

// HasAll reports whether the set contains every token in caps
func (s CapabilitySet) HasAll(caps ...Capability) bool {
	for _, c := range caps {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Len returns the number of tokens in the set
func (s CapabilitySet) Len() int {
	return len(s.tokens)
}

// Tokens returns the tokens in the canonical AllCapabilities order
func (s CapabilitySet) Tokens() []Capability {
	out := make([]Capability, 0, len(s.tokens))
	for _, c := range AllCapabilities() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings returns the tokens as plain strings, sorted
func (s CapabilitySet) Strings() []string {
	out := make([]string, 0, len(s.tokens))
	for c := range s.tokens {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as an array of tokens
func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	tokens := s.Tokens()
	raw := make([]string, len(tokens))
	for i, c := range tokens {
		raw[i] = string(c)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an array of tokens, rejecting unknown ones
func (s *CapabilitySet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set, err := ParseCapabilitySet(raw)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
