package integration

import "time"

// JobStatus is the read-optimized projection of a Job. It is the only shape
// exposed to the status cache and to status queries; the job row stays the
// source of truth.
type JobStatus struct {
	IntegrationID    string     `json:"integration_id"`
	SourceName       string     `json:"source_name"`
	TargetEntity     string     `json:"target_entity"`
	Status           Status     `json:"status"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	RecordsProcessed *int64     `json:"records_processed,omitempty"`
	RecordsSuccess   *int64     `json:"records_success,omitempty"`
	RecordsFailed    *int64     `json:"records_failed,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}
