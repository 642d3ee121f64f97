package persistence

import (
	"context"
	"errors"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/printease/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPrinterRepository implements PrinterRepository using GORM
type GormPrinterRepository struct {
	db *gorm.DB
}

// NewGormPrinterRepository creates a new GormPrinterRepository
func NewGormPrinterRepository(db *gorm.DB) *GormPrinterRepository {
	return &GormPrinterRepository{db: db}
}

// FindByID finds a printer by its agent-assigned ID
func (r *GormPrinterRepository) FindByID(ctx context.Context, id string) (*printing.Printer, error) {
	var model models.PrinterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every printer in registration order
func (r *GormPrinterRepository) FindAll(ctx context.Context) ([]*printing.Printer, error) {
	var printerModels []models.PrinterModel
	if err := r.db.WithContext(ctx).
		Order("registered_at ASC, id ASC").
		Find(&printerModels).Error; err != nil {
		return nil, err
	}
	printers := make([]*printing.Printer, len(printerModels))
	for i := range printerModels {
		printers[i] = printerModels[i].ToDomain()
	}
	return printers, nil
}

// Save upserts a printer. RegisteredAt is never overwritten.
func (r *GormPrinterRepository) Save(ctx context.Context, printer *printing.Printer) error {
	model := models.PrinterModelFromDomain(printer)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "status", "capabilities", "queue_length",
			"estimated_wait_minutes", "last_seen", "updated_at",
		}),
	}).Create(model).Error
}

// Ensure GormPrinterRepository implements PrinterRepository
var _ printing.PrinterRepository = (*GormPrinterRepository)(nil)
