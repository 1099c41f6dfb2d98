package persistence

import (
	"context"
	"testing"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/shared"
	"github.com/datasync/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}, &models.IntegrationJobModel{}))
	return db
}

func newStoredCustomer(t *testing.T, repo *CustomerRepository, name string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, "info@example.com", "555-0001", "1 Main St")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestCustomerRepositoryCreateAssignsID(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))

	first := newStoredCustomer(t, repo, "First")
	second := newStoredCustomer(t, repo, "Second")

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCustomerRepositoryFindByID(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))
	created := newStoredCustomer(t, repo, "Acme")

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Acme", found.Name)
	assert.Equal(t, "info@example.com", found.Email)
}

func TestCustomerRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerRepositoryFindAllCreationOrder(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))
	newStoredCustomer(t, repo, "First")
	newStoredCustomer(t, repo, "Second")
	newStoredCustomer(t, repo, "Third")

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
	assert.Equal(t, "Third", all[2].Name)
}

func TestCustomerRepositoryUpdate(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))
	created := newStoredCustomer(t, repo, "Old")

	created.Name = "New"
	created.Email = "new@example.com"
	require.NoError(t, repo.Update(context.Background(), created))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Name)
	assert.Equal(t, "new@example.com", found.Email)
}

func TestCustomerRepositoryDelete(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))
	created := newStoredCustomer(t, repo, "Doomed")

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err := repo.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Deleting again reports not found
	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), shared.ErrNotFound)
}
