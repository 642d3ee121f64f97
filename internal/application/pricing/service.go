package pricing

import (
	"context"
	"fmt"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettingsService manages the pricing schedule and which paper sizes can be ordered
type SettingsService struct {
	repo   printing.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo printing.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// GetPricing returns the current schedule
func (s *SettingsService) GetPricing(ctx context.Context) (printing.PricingSchedule, error) {
	schedule, err := s.repo.GetPricing(ctx)
	if err != nil {
		return printing.PricingSchedule{}, fmt.Errorf("failed to load pricing: %w", err)
	}
	return schedule, nil
}

// UpdatePricing validates and stores a complete schedule
func (s *SettingsService) UpdatePricing(ctx context.Context, schedule printing.PricingSchedule) (printing.PricingSchedule, error) {
	if err := schedule.Validate(); err != nil {
		return printing.PricingSchedule{}, err
	}
	if err := s.repo.SavePricing(ctx, schedule); err != nil {
		return printing.PricingSchedule{}, fmt.Errorf("failed to save pricing: %w", err)
	}
	s.logger.Info("Pricing schedule updated",
		zap.Int("bw_a4_first_pages", schedule.BWA4Threshold),
		zap.String("bw_a4_first_price", schedule.BWA4Tier1.String()),
		zap.String("color_a4_price", schedule.ColorA4.String()),
	)
	return schedule, nil
}

// GetPaperSizes returns availability for every paper size
func (s *SettingsService) GetPaperSizes(ctx context.Context) (printing.PaperSizeAvailability, error) {
	sizes, err := s.repo.GetPaperSizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load paper sizes: %w", err)
	}
	return sizes, nil
}

// UpdatePaperSizes changes availability of the given sizes and keeps the rest.
// A4 cannot be disabled.
func (s *SettingsService) UpdatePaperSizes(ctx context.Context, req UpdatePaperSizesRequest) (printing.PaperSizeAvailability, error) {
	changes := make(map[printing.PaperSize]bool, len(req.Sizes))
	for raw, enabled := range req.Sizes {
		size := printing.PaperSize(raw)
		if !size.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size: "+raw)
		}
		if size == printing.PaperSizeA4 && !enabled {
			return nil, shared.NewDomainError("INVALID_PAPER_SIZE", "A4 cannot be disabled")
		}
		changes[size] = enabled
	}

	current, err := s.GetPaperSizes(ctx)
	if err != nil {
		return nil, err
	}
	updated := current.Merge(changes)
	if err := s.repo.SavePaperSizes(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save paper sizes: %w", err)
	}
	s.logger.Info("Paper size availability updated", zap.Any("sizes", updated))
	return updated, nil
}
