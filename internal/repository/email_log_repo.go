package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

func (r *EmailLogRepository) Create(ctx context.Context, log *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *EmailLogRepository) Save(ctx context.Context, log *models.EmailLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *EmailLogRepository) GetByUUID(ctx context.Context, emailLogUUID uuid.UUID) (*models.EmailLog, error) {
	var log models.EmailLog
	if err := r.db.WithContext(ctx).First(&log, "email_log_uuid = ?", emailLogUUID).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// FindByNaturalKey looks up an email by (email_id, email_source) scoped to a
// run. Returns (nil, nil) when no log exists yet.
func (r *EmailLogRepository) FindByNaturalKey(ctx context.Context, runID uuid.UUID, emailID, emailSource string) (*models.EmailLog, error) {
	var log models.EmailLog
	err := r.db.WithContext(ctx).
		Where("batch_run_id = ? AND email_id = ? AND email_source = ?", runID, emailID, emailSource).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}
