package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/printease/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPrintJobRepository implements PrintJobRepository using GORM
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewGormPrintJobRepository creates a new GormPrintJobRepository
func NewGormPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// FindByID finds a job by ID
func (r *GormPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintJob, error) {
	var model models.PrintJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID returns the jobs of an order, oldest first
func (r *GormPrintJobRepository) FindByOrderID(ctx context.Context, orderID string) ([]*printing.PrintJob, error) {
	return r.find(r.db.WithContext(ctx).Where("order_id = ?", orderID))
}

// FindByPaymentID returns the jobs committed with a payment, oldest first
func (r *GormPrintJobRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]*printing.PrintJob, error) {
	return r.find(r.db.WithContext(ctx).Where("payment_id = ?", paymentID))
}

// FindAll lists jobs matching the filter, oldest first unless NewestFirst
func (r *GormPrintJobRepository) FindAll(ctx context.Context, filter printing.JobFilter) ([]*printing.PrintJob, error) {
	query := r.db.WithContext(ctx).Model(&models.PrintJobModel{})
	if filter.PrinterID != "" {
		query = query.Where("printer_id = ?", filter.PrinterID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.Search != "" {
		query = query.Where("(order_id = ? OR phone_number = ?)", filter.Search, filter.Search)
	}
	if filter.EditRequested {
		query = query.Where("edit_requested = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.NewestFirst {
		return r.findOrdered(query, "created_at DESC, id DESC")
	}
	return r.find(query)
}

// DeleteAll removes every print job
func (r *GormPrintJobRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.PrintJobModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormPrintJobRepository) find(query *gorm.DB) ([]*printing.PrintJob, error) {
	return r.findOrdered(query, "created_at ASC, id ASC")
}

func (r *GormPrintJobRepository) findOrdered(query *gorm.DB, order string) ([]*printing.PrintJob, error) {
	var jobModels []models.PrintJobModel
	if err := query.Order(order).Find(&jobModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]*printing.PrintJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = jobModels[i].ToDomain()
	}
	return jobs, nil
}

// Save inserts a new job or updates an existing one with optimistic locking.
// The domain has already incremented Version for the change being saved.
func (r *GormPrintJobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	model := models.PrintJobModelFromDomain(job)
	if job.Version <= 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("version = ?", job.Version-1).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveBatch inserts all jobs of an order in one transaction
func (r *GormPrintJobRepository) SaveBatch(ctx context.Context, jobs []*printing.PrintJob) error {
	if len(jobs) == 0 {
		return nil
	}
	jobModels := make([]*models.PrintJobModel, len(jobs))
	for i, j := range jobs {
		jobModels[i] = models.PrintJobModelFromDomain(j)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&jobModels).Error
	})
}

// Ensure GormPrintJobRepository implements PrintJobRepository
var _ printing.PrintJobRepository = (*GormPrintJobRepository)(nil)
