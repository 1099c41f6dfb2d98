package customer

import "context"

// Repository defines the interface for customer persistence
type Repository interface {
	// FindByID finds a customer by its identifier, shared.ErrNotFound when absent
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindAll returns all customers in creation order
	FindAll(ctx context.Context) ([]Customer, error)

	// Create inserts a new customer; the store assigns the identifier and
	// writes it back onto the entity
	Create(ctx context.Context, c *Customer) error

	// Update overwrites an existing customer row wholesale
	Update(ctx context.Context, c *Customer) error

	// Delete removes a customer by identifier
	Delete(ctx context.Context, id int64) error
}
