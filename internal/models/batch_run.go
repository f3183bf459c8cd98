package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchRun is one execution cycle of the ingestion pipeline over a set of
// emails. Counters are maintained transactionally by the status aggregator.
type BatchRun struct {
	RunID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	StartTS         time.Time      `gorm:"column:start_ts"`
	EndTS           *time.Time     `gorm:"column:end_ts"`
	Status          BatchRunStatus `gorm:"index"`
	EmailsProcessed int
	Errors          int
	MailboxID       string
	RunMode         RunMode
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
