package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	settingPricing    = "pricing"
	settingPaperSizes = "paper_sizes"
)

// GormSettingsRepository implements SettingsRepository over the settings table
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetPricing returns the stored schedule over the defaults. Rates missing
// from the stored document keep their default value.
func (r *GormSettingsRepository) GetPricing(ctx context.Context) (printing.PricingSchedule, error) {
	schedule := printing.DefaultPricingSchedule()
	raw, found, err := r.get(ctx, settingPricing)
	if err != nil || !found {
		return schedule, err
	}
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		return printing.PricingSchedule{}, fmt.Errorf("failed to decode pricing: %w", err)
	}
	return schedule, nil
}

// SavePricing stores the complete schedule
func (r *GormSettingsRepository) SavePricing(ctx context.Context, schedule printing.PricingSchedule) error {
	return r.put(ctx, settingPricing, schedule)
}

// GetPaperSizes returns stored availability merged over the defaults
func (r *GormSettingsRepository) GetPaperSizes(ctx context.Context) (printing.PaperSizeAvailability, error) {
	defaults := printing.DefaultPaperSizeAvailability()
	raw, found, err := r.get(ctx, settingPaperSizes)
	if err != nil {
		return nil, err
	}
	if !found {
		return defaults, nil
	}
	var stored map[printing.PaperSize]bool
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode paper sizes: %w", err)
	}
	return defaults.Merge(stored), nil
}

// SavePaperSizes stores availability for every size
func (r *GormSettingsRepository) SavePaperSizes(ctx context.Context, sizes printing.PaperSizeAvailability) error {
	return r.put(ctx, settingPaperSizes, sizes)
}

func (r *GormSettingsRepository) get(ctx context.Context, key string) (string, bool, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.Value, true, nil
}

func (r *GormSettingsRepository) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	model := models.SettingModel{Name: key, Value: string(data), UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ printing.SettingsRepository = (*GormSettingsRepository)(nil)
