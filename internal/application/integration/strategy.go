package integration

import (
	"context"
	"errors"
	"fmt"

	appcustomer "github.com/datasync/backend/internal/application/customer"
	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
)

// EntityReconciler applies one mapped record to the customer store per the
// job's strategy. Writing through the customer service keeps the cache and
// change-event side effects identical for direct CRUD and imported records.
type EntityReconciler struct {
	customers *appcustomer.Service
}

// NewEntityReconciler creates a reconciler writing through the given service
func NewEntityReconciler(customers *appcustomer.Service) *EntityReconciler {
	return &EntityReconciler{customers: customers}
}

// Reconcile applies the patch to the store. Strategies:
//   - MERGE: patch the matching entity in place, or create when no match
//   - REPLACE: overwrite the matching entity wholesale, or create when no match
//   - APPEND: always create; any source identifier is discarded
//
// Any other strategy value yields an UNSUPPORTED_STRATEGY error, which fails
// the whole job rather than one record.
func (r *EntityReconciler) Reconcile(ctx context.Context, patch customer.Patch, strategy integration.Strategy) error {
	switch strategy {
	case integration.StrategyMerge:
		if patch.ID != nil {
			existing, err := r.customers.Get(ctx, *patch.ID)
			if err == nil {
				patch.Apply(existing)
				return r.customers.Save(ctx, existing)
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}
		return r.create(ctx, patch)

	case integration.StrategyReplace:
		if patch.ID != nil {
			existing, err := r.customers.Get(ctx, *patch.ID)
			if err == nil {
				replacement := patch.Materialize()
				replacement.ID = existing.ID
				replacement.CreatedAt = existing.CreatedAt
				return r.customers.Save(ctx, &replacement)
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}
		return r.create(ctx, patch)

	case integration.StrategyAppend:
		return r.create(ctx, patch)

	default:
		return shared.NewDomainError("UNSUPPORTED_STRATEGY",
			fmt.Sprintf("Unsupported strategy: %s", strategy))
	}
}

// create inserts a fresh entity; the store assigns the identifier regardless
// of what the source record carried
func (r *EntityReconciler) create(ctx context.Context, patch customer.Patch) error {
	c := patch.Materialize()
	c.ID = 0
	return r.customers.Insert(ctx, &c)
}
