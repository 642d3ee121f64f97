package allocation

import (
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared/strategy"
)

// LowestQueueStrategyName is the registry name of the lowest queue strategy
const LowestQueueStrategyName = "lowest_queue"

// LowestQueueSelectionStrategy sends a job to the compatible printer with the
// shortest queue. Ties go to the printer that comes first in the pool.
// It is used for the bound cluster, which must stay on one printer.
type LowestQueueSelectionStrategy struct {
	strategy.BaseStrategy
}

// NewLowestQueueSelectionStrategy creates the lowest queue strategy
func NewLowestQueueSelectionStrategy() *LowestQueueSelectionStrategy {
	return &LowestQueueSelectionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			LowestQueueStrategyName,
			strategy.StrategyTypeAllocation,
			"Compatible printer with the shortest queue",
		),
	}
}

// Select ignores rotation state
func (s *LowestQueueSelectionStrategy) Select(
	_ printing.JobCluster,
	candidates printing.PrinterPool,
	_ printing.RotationState,
) (printing.Selection, bool) {
	if len(candidates) == 0 {
		return printing.Selection{}, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].QueueLength < candidates[best].QueueLength {
			best = i
		}
	}
	return printing.Selection{
		Printer: candidates[best],
		Index:   best,
		Count:   len(candidates),
		Rotates: false,
	}, true
}
