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

// GormPageCountRepository implements PageCountRepository using GORM
type GormPageCountRepository struct {
	db *gorm.DB
}

// NewGormPageCountRepository creates a new GormPageCountRepository
func NewGormPageCountRepository(db *gorm.DB) *GormPageCountRepository {
	return &GormPageCountRepository{db: db}
}

// FindByID finds a page-count request by ID
func (r *GormPageCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PageCountRequest, error) {
	var model models.PageCountRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPending returns unanswered requests, oldest first
func (r *GormPageCountRepository) FindPending(ctx context.Context, limit int) ([]*printing.PageCountRequest, error) {
	var reqModels []models.PageCountRequestModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(printing.JobStatusPageCountRequest)).
		Order("created_at ASC").
		Limit(limit).
		Find(&reqModels).Error; err != nil {
		return nil, err
	}
	reqs := make([]*printing.PageCountRequest, len(reqModels))
	for i := range reqModels {
		reqs[i] = reqModels[i].ToDomain()
	}
	return reqs, nil
}

// Save saves a request (insert or update)
func (r *GormPageCountRepository) Save(ctx context.Context, req *printing.PageCountRequest) error {
	model := models.PageCountRequestModelFromDomain(req)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPageCountRepository implements PageCountRepository
var _ printing.PageCountRepository = (*GormPageCountRepository)(nil)
