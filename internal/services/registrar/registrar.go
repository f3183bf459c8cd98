package registrar

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
)

// Registrar enforces global uniqueness of invoice and other-doc numbers.
// Reservations are held in the doc_number_reservations table; the mutex is
// the single synchronization point making check-and-reserve atomic across
// concurrently running batch runs. One instance must be shared process-wide.
type Registrar struct {
	mu     sync.Mutex
	repo   *repository.ReservationRepository
	logger *zap.Logger
}

func New(repo *repository.ReservationRepository, logger *zap.Logger) *Registrar {
	return &Registrar{repo: repo, logger: logger}
}

// Reserve claims (kind, number) for ownerUUID. When the number is already
// held by a different owner it returns *models.UniquenessConflict carrying
// the existing owner. Re-reserving for the same owner is a no-op. There is
// no release: numbers stay reserved for the lifetime of the system.
func (r *Registrar) Reserve(ctx context.Context, kind models.DocKind, number string, ownerUUID uuid.UUID) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	if number == "" {
		return &models.ValidationError{Field: "number", Reason: "required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.repo.Find(ctx, kind, number)
	if err != nil {
		return fmt.Errorf("lookup reservation %s/%s: %w", kind, number, err)
	}
	if existing != nil {
		if existing.OwnerUUID == ownerUUID {
			return nil
		}
		return &models.UniquenessConflict{Kind: kind, Number: number, OwnerUUID: existing.OwnerUUID}
	}

	if err := r.repo.Create(ctx, &models.DocNumberReservation{
		Kind:      kind,
		Number:    number,
		OwnerUUID: ownerUUID,
	}); err != nil {
		return fmt.Errorf("persist reservation %s/%s: %w", kind, number, err)
	}
	r.logger.Debug("reserved document number",
		zap.String("kind", string(kind)),
		zap.String("number", number),
		zap.String("owner", ownerUUID.String()))
	return nil
}
