package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EmailLog records one inbound email. (BatchRunID, EmailID, EmailSource) is
// the natural key, unique at the storage layer so concurrent re-deliveries
// cannot insert two rows.
type EmailLog struct {
	EmailLogUUID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchRunID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_email_natural_key"`
	EmailID        string    `gorm:"uniqueIndex:idx_email_natural_key"`
	EmailSource    string    `gorm:"uniqueIndex:idx_email_natural_key"`
	ReceivedDate   time.Time
	Subject        string
	Sender         string
	OriginalSender *string
	MailboxID      string
	GroupUUIDs     datatypes.JSONSlice[string] `gorm:"column:group_uuids"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasGroup reports whether the group is already associated with the email.
func (e *EmailLog) HasGroup(groupUUID string) bool {
	for _, g := range e.GroupUUIDs {
		if g == groupUUID {
			return true
		}
	}
	return false
}
