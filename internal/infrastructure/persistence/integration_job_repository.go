package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
	"github.com/datasync/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// IntegrationJobRepository implements integration.JobRepository using GORM
type IntegrationJobRepository struct {
	db *gorm.DB
}

// NewIntegrationJobRepository creates a new integration job repository
func NewIntegrationJobRepository(db *gorm.DB) *IntegrationJobRepository {
	return &IntegrationJobRepository{db: db}
}

var _ integration.JobRepository = (*IntegrationJobRepository)(nil)

// Insert creates the job row and writes the assigned row identity back
func (r *IntegrationJobRepository) Insert(ctx context.Context, job *integration.Job) error {
	var model models.IntegrationJobModel
	model.FromDomain(job)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert integration job: %w", err)
	}
	job.ID = model.ID
	return nil
}

// FindByIntegrationID finds a job by its integration ID
func (r *IntegrationJobRepository) FindByIntegrationID(ctx context.Context, integrationID string) (*integration.Job, error) {
	var model models.IntegrationJobModel
	err := r.db.WithContext(ctx).Where("integration_id = ?", integrationID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find integration job: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all jobs in creation order
func (r *IntegrationJobRepository) FindAll(ctx context.Context) ([]integration.Job, error) {
	var rows []models.IntegrationJobModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list integration jobs: %w", err)
	}
	jobs := make([]integration.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, *rows[i].ToDomain())
	}
	return jobs, nil
}

// Update overwrites the job row wholesale
func (r *IntegrationJobRepository) Update(ctx context.Context, job *integration.Job) error {
	var model models.IntegrationJobModel
	model.FromDomain(job)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to update integration job: %w", err)
	}
	return nil
}
