package models

import (
	"time"

	"github.com/datasync/backend/internal/domain/integration"
)

// IntegrationJobModel is the persistence model for the integration Job
// aggregate. The field mapping and source config blobs are stored verbatim
// and never interpreted by the store.
type IntegrationJobModel struct {
	ID               int64                  `gorm:"primaryKey;autoIncrement"`
	IntegrationID    string                 `gorm:"type:varchar(64);not null;uniqueIndex"`
	SourceName       string                 `gorm:"type:varchar(200);not null"`
	SourceType       integration.SourceType `gorm:"type:varchar(20);not null"`
	TargetEntity     string                 `gorm:"type:varchar(100);not null"`
	Strategy         integration.Strategy   `gorm:"type:varchar(20);not null"`
	Status           integration.Status     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RequestTime      time.Time              `gorm:"not null"`
	StartTime        *time.Time
	EndTime          *time.Time
	RecordsProcessed *int64
	RecordsSuccess   *int64
	RecordsFailed    *int64
	ErrorMessage     string    `gorm:"type:text"`
	FieldMappings    string    `gorm:"type:text"`
	SourceConfig     string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationJobModel) TableName() string {
	return "integration_jobs"
}

// ToDomain converts the persistence model to a domain Job
func (m *IntegrationJobModel) ToDomain() *integration.Job {
	return &integration.Job{
		ID:               m.ID,
		IntegrationID:    m.IntegrationID,
		SourceName:       m.SourceName,
		SourceType:       m.SourceType,
		TargetEntity:     m.TargetEntity,
		Strategy:         m.Strategy,
		Status:           m.Status,
		RequestTime:      m.RequestTime,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		RecordsProcessed: m.RecordsProcessed,
		RecordsSuccess:   m.RecordsSuccess,
		RecordsFailed:    m.RecordsFailed,
		ErrorMessage:     m.ErrorMessage,
		FieldMappings:    m.FieldMappings,
		SourceConfig:     m.SourceConfig,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Job
func (m *IntegrationJobModel) FromDomain(j *integration.Job) {
	m.ID = j.ID
	m.IntegrationID = j.IntegrationID
	m.SourceName = j.SourceName
	m.SourceType = j.SourceType
	m.TargetEntity = j.TargetEntity
	m.Strategy = j.Strategy
	m.Status = j.Status
	m.RequestTime = j.RequestTime
	m.StartTime = j.StartTime
	m.EndTime = j.EndTime
	m.RecordsProcessed = j.RecordsProcessed
	m.RecordsSuccess = j.RecordsSuccess
	m.RecordsFailed = j.RecordsFailed
	m.ErrorMessage = j.ErrorMessage
	m.FieldMappings = j.FieldMappings
	m.SourceConfig = j.SourceConfig
	m.CreatedAt = j.CreatedAt
	m.UpdatedAt = j.UpdatedAt
}
