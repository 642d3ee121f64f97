// Package strategy holds the naming contract shared by the pluggable pricing
// and printer selection strategies.
package strategy

// StrategyType groups strategies that can replace one another
type StrategyType string

const (
	// StrategyTypePricing prices a single configured file
	StrategyTypePricing StrategyType = "pricing"
	// StrategyTypeAllocation picks a printer for a job cluster
	StrategyTypeAllocation StrategyType = "allocation"
)

func (t StrategyType) String() string { return string(t) }

// IsValid reports whether t is a known type
func (t StrategyType) IsValid() bool {
	return t == StrategyTypePricing || t == StrategyTypeAllocation
}

// AllStrategyTypes lists the known types
func AllStrategyTypes() []StrategyType {
	return []StrategyType{StrategyTypePricing, StrategyTypeAllocation}
}

// Strategy is implemented by every registered strategy. Names are unique
// within a type and are what configuration refers to.
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy is embedded by strategies to satisfy Strategy
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy returns the identity part of a strategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, strategyType: strategyType, description: description}
}

func (s BaseStrategy) Name() string        { return s.name }
func (s BaseStrategy) Type() StrategyType  { return s.strategyType }
func (s BaseStrategy) Description() string { return s.description }
