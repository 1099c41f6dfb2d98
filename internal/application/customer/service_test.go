package customer

import (
	"context"
	"sync"
	"testing"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/shared"
	"github.com/datasync/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCustomerRepo is an in-memory customer.Repository storing value snapshots
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

// recordingPublisher collects published change events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.ChangeEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) published() []shared.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.ChangeEvent, len(p.events))
	copy(out, p.events)
	return out
}

type fixture struct {
	service   *Service
	repo      *fakeCustomerRepo
	cache     *cache.Memory[customer.Customer]
	listCache *cache.Memory[[]customer.Customer]
	publisher *recordingPublisher
}

func newFixture() *fixture {
	repo := newFakeCustomerRepo()
	entityCache := cache.NewMemory[customer.Customer]()
	listCache := cache.NewMemory[[]customer.Customer]()
	publisher := &recordingPublisher{}
	svc := NewService(repo, entityCache, listCache, publisher, zap.NewNop())
	return &fixture{service: svc, repo: repo, cache: entityCache, listCache: listCache, publisher: publisher}
}

func TestCreateCustomer(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), CreateInput{
		Name:  "Acme Corp",
		Email: "info@acme.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	// The entity is cached and a CREATE event published
	cached, ok, err := f.cache.Get(context.Background(), EntityCacheKey(created.ID))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", cached.Name)

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, customer.EntityType, events[0].EntityType)
	assert.Equal(t, shared.OperationCreate, events[0].Operation)
	assert.Equal(t, created.ID, events[0].EntityID)
}

func TestCreateCustomerEmptyName(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), CreateInput{Name: "  "})
	assert.Error(t, err)
	assert.Empty(t, f.publisher.published())
}

func TestGetReadsThroughCache(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), CreateInput{Name: "Acme"})
	require.NoError(t, err)

	// A cache miss falls back to the store and repopulates the cache
	require.NoError(t, f.cache.Delete(context.Background(), EntityCacheKey(created.ID)))

	got, err := f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, ok, err := f.cache.Get(context.Background(), EntityCacheKey(created.ID))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetUnknownCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.service.Get(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListCachesAndMutationsInvalidate(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), CreateInput{Name: "Acme"})
	require.NoError(t, err)

	listed, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// The listing is cached with no expiry
	_, ok, err := f.listCache.Get(context.Background(), ListCacheKey)
	require.NoError(t, err)
	assert.True(t, ok)

	// A mutation invalidates the listing
	_, err = f.service.Update(context.Background(), created.ID, UpdateInput{Name: "Acme Corp"})
	require.NoError(t, err)

	_, ok, err = f.listCache.Get(context.Background(), ListCacheKey)
	require.NoError(t, err)
	assert.False(t, ok)

	listed, err = f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Acme Corp", listed[0].Name)
}

func TestUpdateCustomer(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), CreateInput{Name: "Acme", Email: "old@acme.com"})
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), created.ID, UpdateInput{
		Name:  "Acme Corp",
		Email: "new@acme.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "new@acme.com", updated.Email)

	events := f.publisher.published()
	require.Len(t, events, 2)
	assert.Equal(t, shared.OperationUpdate, events[1].Operation)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), 99, UpdateInput{Name: "Ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), CreateInput{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), created.ID))

	_, err = f.service.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Entity cache no longer holds the row
	_, ok, err := f.cache.Get(context.Background(), EntityCacheKey(created.ID))
	require.NoError(t, err)
	assert.False(t, ok)

	events := f.publisher.published()
	require.Len(t, events, 2)
	assert.Equal(t, shared.OperationDelete, events[1].Operation)
	assert.Equal(t, created.ID, events[1].EntityID)

	// DELETE events carry the last-known state
	payload, ok := events[1].Payload.(customer.Customer)
	require.True(t, ok)
	assert.Equal(t, "Acme", payload.Name)
}

func TestDeleteUnknownCustomer(t *testing.T) {
	f := newFixture()

	err := f.service.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, f.publisher.published())
}
