package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatusCacheTTL bounds how long a job status projection stays cached. The
// job row remains the source of truth; expired entries are repopulated on
// read.
const StatusCacheTTL = 24 * time.Hour

// StatusCacheKey returns the cache key for a job's status projection
func StatusCacheKey(integrationID string) string {
	return "integration:status:" + integrationID
}

// Reconciler applies one mapped record to the entity store per strategy
type Reconciler interface {
	Reconcile(ctx context.Context, patch customer.Patch, strategy integration.Strategy) error
}

// Service owns the integration job state machine. Submit accepts a request,
// persists a pending job and schedules asynchronous execution; the worker
// drives fetch, mapping and reconciliation and moves the job to a terminal
// state. Every transition is written to the store first, then mirrored to the
// status cache.
type Service struct {
	jobs       integration.JobRepository
	status     shared.Cache[integration.JobStatus]
	fetchers   integration.FetcherFactory
	reconciler Reconciler
	runner     shared.TaskRunner
	logger     *zap.Logger
}

// NewService creates a new integration service
func NewService(
	jobs integration.JobRepository,
	status shared.Cache[integration.JobStatus],
	fetchers integration.FetcherFactory,
	reconciler Reconciler,
	runner shared.TaskRunner,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:       jobs,
		status:     status,
		fetchers:   fetchers,
		reconciler: reconciler,
		runner:     runner,
		logger:     logger,
	}
}

// Submit accepts an integration request, persists a PENDING job, schedules
// the asynchronous execution and returns the initial status snapshot.
// Counters and timestamps are null until the worker runs. Invalid source
// types and strategies are accepted here and fail the job during execution.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (integration.JobStatus, error) {
	requestTime := req.RequestTime
	if requestTime.IsZero() {
		requestTime = time.Now()
	}

	mappings, err := json.Marshal(req.FieldMappings)
	if err != nil {
		return integration.JobStatus{}, fmt.Errorf("failed to serialize field mappings: %w", err)
	}
	config, err := json.Marshal(req.SourceConfig)
	if err != nil {
		return integration.JobStatus{}, fmt.Errorf("failed to serialize source config: %w", err)
	}

	job := integration.NewJob(req.SourceName, req.SourceType, req.TargetEntity,
		req.Strategy, requestTime, string(mappings), string(config))

	if err := s.jobs.Insert(ctx, job); err != nil {
		return integration.JobStatus{}, err
	}
	s.cacheStatus(ctx, job)

	integrationID := job.IntegrationID
	if _, err := s.runner.Submit("integration:"+integrationID, func(taskCtx context.Context) {
		s.execute(taskCtx, integrationID)
	}); err != nil {
		// The job row stays PENDING; there is no compensating transition for
		// a submission that never reaches a worker.
		s.logger.Error("failed to schedule integration job",
			zap.String("integration_id", integrationID), zap.Error(err))
	}

	s.logger.Info("integration job submitted",
		zap.String("integration_id", integrationID),
		zap.String("source_name", job.SourceName),
		zap.String("source_type", string(job.SourceType)),
		zap.String("strategy", string(job.Strategy)))

	return job.Projection(), nil
}

// GetStatus returns a job's status projection, reading through the cache and
// repopulating it from the store on a miss
func (s *Service) GetStatus(ctx context.Context, integrationID string) (integration.JobStatus, error) {
	key := StatusCacheKey(integrationID)
	cached, ok, err := s.status.Get(ctx, key)
	if err != nil {
		s.logger.Warn("status cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	job, err := s.jobs.FindByIntegrationID(ctx, integrationID)
	if err != nil {
		return integration.JobStatus{}, err
	}
	s.cacheStatus(ctx, job)
	return job.Projection(), nil
}

// List returns the status projection of every job in creation order. Listing
// always consults the durable store; the cache may hold expired or
// never-cached jobs.
func (s *Service) List(ctx context.Context) ([]integration.JobStatus, error) {
	jobs, err := s.jobs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]integration.JobStatus, 0, len(jobs))
	for i := range jobs {
		statuses = append(statuses, jobs[i].Projection())
	}
	return statuses, nil
}

// execute is the asynchronous worker for one job
func (s *Service) execute(ctx context.Context, integrationID string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("integration job panicked",
				zap.String("integration_id", integrationID), zap.Any("panic", r))
			s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: %v", r))
		}
	}()

	job, err := s.jobs.FindByIntegrationID(ctx, integrationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// The row vanished between Submit and execution. There is no row
			// left to transition, so nothing moves to FAILED.
			s.logger.Warn("integration job missing at execution start",
				zap.String("integration_id", integrationID))
			return
		}
		s.logger.Error("failed to load integration job",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}

	if err := job.Start(); err != nil {
		s.logger.Warn("integration job not in a startable state",
			zap.String("integration_id", integrationID),
			zap.String("status", string(job.Status)))
		return
	}
	if err := s.persistTransition(ctx, job); err != nil {
		s.logger.Error("failed to persist PROCESSING transition",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}

	s.logger.Info("integration job started", zap.String("integration_id", integrationID))

	// Customer is the only entity the pipeline reconciles into
	if job.TargetEntity != customer.EntityType {
		s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: Unsupported target entity: %s", job.TargetEntity))
		return
	}

	mappings, config, err := s.deserializeRequest(job)
	if err != nil {
		s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: %s", err))
		return
	}

	fetcher, err := s.fetchers.ForType(job.SourceType)
	if err != nil {
		s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: %s", err))
		return
	}

	// A bad strategy fails the whole job before any record is applied; a bad
	// field value only fails that one record.
	if !job.Strategy.IsValid() {
		s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: Unsupported strategy: %s", job.Strategy))
		return
	}

	records, err := fetcher.Fetch(ctx, config)
	if err != nil {
		s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: %s", err))
		return
	}

	var processed, success, failed int64
	for _, record := range records {
		processed++

		patch, err := mapRecord(record, mappings, s.logger)
		if err != nil {
			failed++
			s.logger.Warn("failed to map source record",
				zap.String("integration_id", integrationID), zap.Error(err))
			continue
		}

		if err := s.reconciler.Reconcile(ctx, patch, job.Strategy); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "UNSUPPORTED_STRATEGY" {
				s.failJob(ctx, integrationID, fmt.Sprintf("Integration failed: %s", err))
				return
			}
			failed++
			s.logger.Warn("failed to reconcile record",
				zap.String("integration_id", integrationID), zap.Error(err))
			continue
		}
		success++
	}

	job.RecordCounts(processed, success, failed)
	if err := job.Complete(); err != nil {
		s.logger.Error("failed to complete integration job",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}
	if err := s.persistTransition(ctx, job); err != nil {
		s.logger.Error("failed to persist COMPLETED transition",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}

	s.logger.Info("integration job completed",
		zap.String("integration_id", integrationID),
		zap.Int64("processed", processed),
		zap.Int64("success", success),
		zap.Int64("failed", failed))
}

// failJob re-fetches the job row and moves it to FAILED with the message.
// Re-fetching picks up counters or transitions persisted since this worker's
// snapshot.
func (s *Service) failJob(ctx context.Context, integrationID, message string) {
	job, err := s.jobs.FindByIntegrationID(ctx, integrationID)
	if err != nil {
		s.logger.Error("failed to load job for failure transition",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}
	if err := job.Fail(message); err != nil {
		s.logger.Warn("job already in a terminal state",
			zap.String("integration_id", integrationID),
			zap.String("status", string(job.Status)))
		return
	}
	if err := s.persistTransition(ctx, job); err != nil {
		s.logger.Error("failed to persist FAILED transition",
			zap.String("integration_id", integrationID), zap.Error(err))
		return
	}
	s.logger.Warn("integration job failed",
		zap.String("integration_id", integrationID),
		zap.String("error", message))
}

// persistTransition writes the job row, then mirrors the projection to the
// status cache. Store first: a reader must never see a status before it is
// durable.
func (s *Service) persistTransition(ctx context.Context, job *integration.Job) error {
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}
	s.cacheStatus(ctx, job)
	return nil
}

// cacheStatus mirrors the job's projection to the status cache. Cache
// failures degrade reads to the store and are never fatal.
func (s *Service) cacheStatus(ctx context.Context, job *integration.Job) {
	key := StatusCacheKey(job.IntegrationID)
	if err := s.status.Set(ctx, key, job.Projection(), StatusCacheTTL); err != nil {
		s.logger.Warn("status cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// deserializeRequest decodes the mapping table and source config blobs stored
// on the job row
func (s *Service) deserializeRequest(job *integration.Job) (map[string]string, map[string]any, error) {
	mappings := map[string]string{}
	if job.FieldMappings != "" {
		if err := json.Unmarshal([]byte(job.FieldMappings), &mappings); err != nil {
			return nil, nil, fmt.Errorf("invalid field mappings: %w", err)
		}
	}
	config := map[string]any{}
	if job.SourceConfig != "" {
		if err := json.Unmarshal([]byte(job.SourceConfig), &config); err != nil {
			return nil, nil, fmt.Errorf("invalid source config: %w", err)
		}
	}
	return mappings, config, nil
}
