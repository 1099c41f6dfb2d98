package integration

import "context"

// JobRepository defines the interface for integration job persistence
type JobRepository interface {
	// Insert creates the job row; only internal row identity is assigned
	Insert(ctx context.Context, job *Job) error

	// FindByIntegrationID finds a job by its integration ID,
	// shared.ErrNotFound when absent
	FindByIntegrationID(ctx context.Context, integrationID string) (*Job, error)

	// FindAll returns all jobs in creation order
	FindAll(ctx context.Context) ([]Job, error)

	// Update overwrites the job row wholesale
	Update(ctx context.Context, job *Job) error
}
