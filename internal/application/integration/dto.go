package integration

import (
	"time"

	"github.com/datasync/backend/internal/domain/integration"
)

// SubmitRequest is an accepted integration request. It is immutable once
// accepted; the mapping table and source config are serialized onto the job
// row verbatim.
type SubmitRequest struct {
	SourceName    string
	SourceType    integration.SourceType
	SourceConfig  map[string]any
	TargetEntity  string
	Strategy      integration.Strategy
	FieldMappings map[string]string
	ValidateData  bool
	RequestTime   time.Time
}
