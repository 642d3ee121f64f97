package allocation

import (
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared/strategy"
)

// RoundRobinStrategyName is the registry name of the round robin strategy
const RoundRobinStrategyName = "round_robin"

// RoundRobinSelectionStrategy rotates category jobs over the compatible
// printers in pool order. The candidates are never re-sorted, so the same
// fleet always yields the same rotation.
type RoundRobinSelectionStrategy struct {
	strategy.BaseStrategy
}

// NewRoundRobinSelectionStrategy creates the round robin strategy
func NewRoundRobinSelectionStrategy() *RoundRobinSelectionStrategy {
	return &RoundRobinSelectionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			RoundRobinStrategyName,
			strategy.StrategyTypeAllocation,
			"Per-category round robin over compatible printers",
		),
	}
}

// Select picks candidates[rotation[key] mod len(candidates)]
func (s *RoundRobinSelectionStrategy) Select(
	cluster printing.JobCluster,
	candidates printing.PrinterPool,
	rotation printing.RotationState,
) (printing.Selection, bool) {
	if len(candidates) == 0 {
		return printing.Selection{}, false
	}
	idx := rotation.Index(cluster.Key, len(candidates))
	return printing.Selection{
		Printer: candidates[idx],
		Index:   idx,
		Count:   len(candidates),
		Rotates: true,
	}, true
}
