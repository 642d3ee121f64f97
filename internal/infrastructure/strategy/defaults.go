package strategy

import (
	"github.com/printease/backend/internal/domain/shared/strategy"
	"github.com/printease/backend/internal/infrastructure/strategy/allocation"
	"github.com/printease/backend/internal/infrastructure/strategy/pricing"
)

// NewRegistryWithDefaults registers schedule pricing plus the round robin
// and lowest queue selectors. Round robin is the default selector.
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	schedule := pricing.NewSchedulePricingStrategy()
	roundRobin := allocation.NewRoundRobinSelectionStrategy()

	steps := []func() error{
		func() error { return r.RegisterPricingStrategy(schedule) },
		func() error { return r.RegisterSelectionStrategy(roundRobin) },
		func() error { return r.RegisterSelectionStrategy(allocation.NewLowestQueueSelectionStrategy()) },
		func() error { return r.SetDefault(strategy.StrategyTypePricing, schedule.Name()) },
		func() error { return r.SetDefault(strategy.StrategyTypeAllocation, roundRobin.Name()) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return r, nil
}
