package handler

import (
	"context"
	"sync"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
)

// fakeCustomerRepo is an in-memory customer.Repository
type fakeCustomerRepo struct {
	mu     sync.Mutex
	nextID int64
	order  []int64
	rows   map[int64]customer.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: make(map[int64]customer.Customer)}
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *fakeCustomerRepo) FindAll(ctx context.Context) ([]customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]customer.Customer, 0, len(r.order))
	for _, id := range r.order {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.rows[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// fakeJobRepo is an in-memory integration.JobRepository
type fakeJobRepo struct {
	mu     sync.Mutex
	nextID int64
	order  []string
	jobs   map[string]integration.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]integration.Job)}
}

func (r *fakeJobRepo) Insert(ctx context.Context, job *integration.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	r.jobs[job.IntegrationID] = *job
	r.order = append(r.order, job.IntegrationID)
	return nil
}

func (r *fakeJobRepo) FindByIntegrationID(ctx context.Context, integrationID string) (*integration.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[integrationID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := job
	return &copied, nil
}

func (r *fakeJobRepo) FindAll(ctx context.Context) ([]integration.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]integration.Job, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, job *integration.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.IntegrationID] = *job
	return nil
}

// inlineRunner executes submitted tasks synchronously
type inlineRunner struct{}

type closedHandle struct{}

func (closedHandle) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (closedHandle) Wait(ctx context.Context) error { return nil }

func (inlineRunner) Submit(name string, fn func(ctx context.Context)) (shared.TaskHandle, error) {
	fn(context.Background())
	return closedHandle{}, nil
}

// nopPublisher drops change events
type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, events ...shared.ChangeEvent) error { return nil }
