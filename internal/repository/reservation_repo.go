package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Find returns the reservation holding (kind, number), or (nil, nil) when the
// number is still free.
func (r *ReservationRepository) Find(ctx context.Context, kind models.DocKind, number string) (*models.DocNumberReservation, error) {
	var reservation models.DocNumberReservation
	err := r.db.WithContext(ctx).
		Where("kind = ? AND number = ?", kind, number).
		First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *models.DocNumberReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}
