package models

import (
	"time"

	"github.com/google/uuid"
)

// DocNumberReservation is the persisted index behind the uniqueness
// registrar. Numbers are reserved for the lifetime of the system; there is
// no release path.
type DocNumberReservation struct {
	ID        uint      `gorm:"primaryKey"`
	Kind      DocKind   `gorm:"uniqueIndex:idx_doc_number_reservation"`
	Number    string    `gorm:"uniqueIndex:idx_doc_number_reservation"`
	OwnerUUID uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}
