package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailProcessingLog is the outcome of one (email, run) attempt. Exactly one
// row exists per pair, enforced by the unique pair index; a retry within the
// same run overwrites it.
type EmailProcessingLog struct {
	EmailProcessingUUID uuid.UUID        `gorm:"type:uuid;primaryKey"`
	EmailLogUUID        uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_processing_pair"`
	RunID               uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_processing_pair"`
	ProcessingStatus    ProcessingStatus `gorm:"index"`
	ErrorMessage        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
