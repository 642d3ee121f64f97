package pricing

import (
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// ScheduleStrategyName is the registry name of the schedule pricing strategy
const ScheduleStrategyName = "schedule"

// SchedulePricingStrategy prices files from the shop's PricingSchedule.
//
// Images pay per sheet: collage layouts fit several photos on a sheet, so
// copies are divided by photos per sheet and rounded up. A4 image sheets use
// the after-threshold B/W rate or the flat color rate; the first-tier B/W
// rate only applies to documents.
//
// Documents pay per selected page and copy. B/W A4 is tiered per copy.
// Documents whose page count is still unknown cost zero.
type SchedulePricingStrategy struct {
	strategy.BaseStrategy
}

// NewSchedulePricingStrategy creates the schedule pricing strategy
func NewSchedulePricingStrategy() *SchedulePricingStrategy {
	return &SchedulePricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			ScheduleStrategyName,
			strategy.StrategyTypePricing,
			"Tiered B/W A4 and per-size flat rates from the pricing schedule",
		),
	}
}

// Cost returns the price of one file
func (s *SchedulePricingStrategy) Cost(file printing.FileSpec, schedule printing.PricingSchedule) decimal.Decimal {
	if file.Copies() < 1 {
		return decimal.Zero
	}
	var cost decimal.Decimal
	if file.IsImage() {
		cost = s.imageCost(file, schedule)
	} else {
		cost = s.documentCost(file, schedule)
	}
	if cost.IsNegative() {
		return decimal.Zero
	}
	return cost
}

func (s *SchedulePricingStrategy) imageCost(file printing.FileSpec, schedule printing.PricingSchedule) decimal.Decimal {
	layout := file.Layout()
	if layout == nil {
		return decimal.Zero
	}
	perSheet := layout.PhotosPerSheet()
	if perSheet <= 0 {
		return decimal.Zero
	}
	rate := schedule.FlatRate(file.PaperSize(), file.PrintType())
	copies := int64(file.Copies())
	if perSheet == 1 {
		return rate.Mul(decimal.NewFromInt(copies))
	}
	sheets := (copies + int64(perSheet) - 1) / int64(perSheet)
	return rate.Mul(decimal.NewFromInt(sheets))
}

func (s *SchedulePricingStrategy) documentCost(file printing.FileSpec, schedule printing.PricingSchedule) decimal.Decimal {
	pages := file.PagesToPrint()
	if pages == 0 {
		return decimal.Zero
	}
	copies := decimal.NewFromInt(int64(file.Copies()))

	if file.PaperSize() == printing.PaperSizeA4 && file.PrintType() == printing.PrintTypeBW {
		return schedule.TieredBWA4(pages).Mul(copies)
	}
	rate := schedule.FlatRate(file.PaperSize(), file.PrintType())
	return rate.Mul(decimal.NewFromInt(int64(pages))).Mul(copies)
}
