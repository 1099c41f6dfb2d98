package integration

import (
	"fmt"
	"time"

	"github.com/datasync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SourceType identifies the connector used to pull source records
type SourceType string

const (
	SourceTypeCSV  SourceType = "CSV"
	SourceTypeJSON SourceType = "JSON"
	SourceTypeAPI  SourceType = "API"
	SourceTypeMock SourceType = "MOCK"
)

// IsValid checks if the source type is one of the known connectors
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeCSV, SourceTypeJSON, SourceTypeAPI, SourceTypeMock:
		return true
	}
	return false
}

// Strategy is the conflict-resolution policy applied when mapped records
// collide with existing entities
type Strategy string

const (
	StrategyMerge   Strategy = "MERGE"
	StrategyReplace Strategy = "REPLACE"
	StrategyAppend  Strategy = "APPEND"
)

// IsValid checks if the strategy is one of the known policies
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyMerge, StrategyReplace, StrategyAppend:
		return true
	}
	return false
}

// Status represents the lifecycle state of an integration job
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// IsTerminal returns true for states a job never leaves
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the durable record of one integration run. Identity is the
// IntegrationID; one ID maps to exactly one row, created once, mutated in
// place through its lifecycle and never deleted.
type Job struct {
	ID            int64
	IntegrationID string
	SourceName    string
	SourceType    SourceType
	TargetEntity  string
	Strategy      Strategy
	Status        Status
	RequestTime   time.Time
	StartTime     *time.Time
	EndTime       *time.Time

	// Counters are nil until the first execution overwrites them
	RecordsProcessed *int64
	RecordsSuccess   *int64
	RecordsFailed    *int64

	ErrorMessage string

	// Serialized request payloads; opaque to the store
	FieldMappings string
	SourceConfig  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a pending job with a fresh integration ID. The serialized
// mappings and config blobs are stored verbatim and deserialized again by the
// worker.
func NewJob(sourceName string, sourceType SourceType, targetEntity string, strategy Strategy, requestTime time.Time, fieldMappings, sourceConfig string) *Job {
	now := time.Now()
	return &Job{
		IntegrationID: uuid.New().String(),
		SourceName:    sourceName,
		SourceType:    sourceType,
		TargetEntity:  targetEntity,
		Strategy:      strategy,
		Status:        StatusPending,
		RequestTime:   requestTime,
		FieldMappings: fieldMappings,
		SourceConfig:  sourceConfig,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Start transitions the job from PENDING to PROCESSING and stamps StartTime.
// Entering PROCESSING is allowed exactly once per job.
func (j *Job) Start() error {
	if j.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", j.Status))
	}
	now := time.Now()
	j.Status = StatusProcessing
	j.StartTime = &now
	j.UpdatedAt = now
	return nil
}

// Complete transitions the job from PROCESSING to COMPLETED and stamps EndTime
func (j *Job) Complete() error {
	if j.Status != StatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", j.Status))
	}
	now := time.Now()
	j.Status = StatusCompleted
	j.EndTime = &now
	j.UpdatedAt = now
	return nil
}

// Fail transitions the job to FAILED with the given message and stamps
// EndTime. Failing is valid from any non-terminal state.
func (j *Job) Fail(message string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", j.Status))
	}
	now := time.Now()
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.EndTime = &now
	j.UpdatedAt = now
	return nil
}

// RecordCounts overwrites the counters with this run's totals. Counts are
// never accumulated across runs.
func (j *Job) RecordCounts(processed, success, failed int64) {
	j.RecordsProcessed = &processed
	j.RecordsSuccess = &success
	j.RecordsFailed = &failed
	j.UpdatedAt = time.Now()
}

// Projection builds the read-optimized status view exposed to the cache and
// to status queries. Always reconstructible from the job row.
func (j *Job) Projection() JobStatus {
	return JobStatus{
		IntegrationID:    j.IntegrationID,
		SourceName:       j.SourceName,
		TargetEntity:     j.TargetEntity,
		Status:           j.Status,
		StartTime:        j.StartTime,
		EndTime:          j.EndTime,
		RecordsProcessed: j.RecordsProcessed,
		RecordsSuccess:   j.RecordsSuccess,
		RecordsFailed:    j.RecordsFailed,
		ErrorMessage:     j.ErrorMessage,
	}
}
