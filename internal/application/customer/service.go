package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// EntityCacheTTL bounds how long a single customer stays cached
	EntityCacheTTL = 30 * time.Minute

	// ListCacheKey caches the full customer listing. It has no expiry and is
	// invalidated explicitly on every mutation.
	ListCacheKey = "customers:all"
)

// EntityCacheKey returns the cache key for a single customer
func EntityCacheKey(id int64) string {
	return fmt.Sprintf("customer:%d", id)
}

// Service handles customer use cases. Every mutation goes through the store
// first, then refreshes the entity cache, invalidates the list cache and
// publishes a change event.
type Service struct {
	repo      customer.Repository
	cache     shared.Cache[customer.Customer]
	listCache shared.Cache[[]customer.Customer]
	publisher shared.ChangePublisher
	logger    *zap.Logger
}

// NewService creates a new customer service
func NewService(
	repo customer.Repository,
	cache shared.Cache[customer.Customer],
	listCache shared.Cache[[]customer.Customer],
	publisher shared.ChangePublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		listCache: listCache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateInput carries the fields for creating a customer
type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// UpdateInput carries the fields for updating a customer wholesale
type UpdateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Create creates a new customer
func (s *Service) Create(ctx context.Context, input CreateInput) (*customer.Customer, error) {
	c, err := customer.NewCustomer(input.Name, input.Email, input.Phone, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a customer by identifier, reading through the entity cache
func (s *Service) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	key := EntityCacheKey(id)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("customer cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return &cached, nil
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheEntity(ctx, c)
	return c, nil
}

// List returns all customers in creation order, reading through the list cache
func (s *Service) List(ctx context.Context) ([]customer.Customer, error) {
	cached, ok, err := s.listCache.Get(ctx, ListCacheKey)
	if err != nil {
		s.logger.Warn("customer list cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.listCache.Set(ctx, ListCacheKey, customers, 0); err != nil {
		s.logger.Warn("customer list cache write failed", zap.Error(err))
	}
	return customers, nil
}

// Update overwrites an existing customer's fields
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = input.Name
	c.Email = input.Email
	c.Phone = input.Phone
	c.Address = input.Address
	c.UpdatedAt = time.Now()

	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer and publishes the deletion
func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, EntityCacheKey(id)); err != nil {
		s.logger.Warn("customer cache eviction failed", zap.Int64("id", id), zap.Error(err))
	}
	s.invalidateList(ctx)
	s.publish(ctx, customer.NewDeletedEvent(c))
	return nil
}

// Insert persists a new customer. The store assigns the identifier; the
// caller's ID field must be zero. Used by Create and by the integration
// pipeline for APPEND and create-on-miss reconciliation.
func (s *Service) Insert(ctx context.Context, c *customer.Customer) error {
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.cacheEntity(ctx, c)
	s.invalidateList(ctx)
	s.publish(ctx, customer.NewCreatedEvent(c))
	return nil
}

// Save persists an existing customer wholesale. Used by Update and by the
// integration pipeline for MERGE and REPLACE reconciliation.
func (s *Service) Save(ctx context.Context, c *customer.Customer) error {
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.cacheEntity(ctx, c)
	s.invalidateList(ctx)
	s.publish(ctx, customer.NewUpdatedEvent(c))
	return nil
}

func (s *Service) cacheEntity(ctx context.Context, c *customer.Customer) {
	key := EntityCacheKey(c.ID)
	if err := s.cache.Set(ctx, key, *c, EntityCacheTTL); err != nil {
		s.logger.Warn("customer cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidateList(ctx context.Context) {
	if err := s.listCache.Delete(ctx, ListCacheKey); err != nil {
		s.logger.Warn("customer list cache eviction failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, event shared.ChangeEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish change event",
			zap.String("entity_type", event.EntityType),
			zap.Int64("entity_id", event.EntityID),
			zap.String("operation", string(event.Operation)),
			zap.Error(err))
	}
}
