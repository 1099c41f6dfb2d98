package customer

import (
	"strings"
	"time"

	"github.com/datasync/backend/internal/domain/shared"
)

// EntityType is the tag used on change events for customers
const EntityType = "customer"

// Customer is the primary business entity mutated by direct CRUD and by the
// integration pipeline. The identifier is store-assigned.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer creates a customer with the given fields. The store assigns the
// identifier on insert.
func NewCustomer(name, email, phone, address string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	now := time.Now()
	return &Customer{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Patch is a partially-populated customer produced by field mapping. Nil
// fields were absent from the source record and must not overwrite existing
// values when merging.
type Patch struct {
	ID      *int64
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Apply copies the non-nil fields of the patch onto the target customer
func (p Patch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	c.UpdatedAt = time.Now()
}

// Materialize builds a full customer from the patch; nil fields become zero
// values. The identifier is carried over when present.
func (p Patch) Materialize() Customer {
	var c Customer
	if p.ID != nil {
		c.ID = *p.ID
	}
	p.Apply(&c)
	c.CreatedAt = time.Now()
	return c
}
