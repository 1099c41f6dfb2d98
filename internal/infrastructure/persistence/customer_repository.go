package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/shared"
	"github.com/datasync/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// CustomerRepository implements customer.Repository using GORM
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ customer.Repository = (*CustomerRepository)(nil)

// FindByID finds a customer by its identifier
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all customers in creation order
func (r *CustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	customers := make([]customer.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, *rows[i].ToDomain())
	}
	return customers, nil
}

// Create inserts a new customer and writes the assigned identifier back onto
// the entity
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites an existing customer row wholesale
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	return nil
}

// Delete removes a customer by identifier
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
