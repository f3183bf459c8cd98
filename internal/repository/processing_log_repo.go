package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
)

type ProcessingLogRepository struct {
	db *gorm.DB
}

func NewProcessingLogRepository(db *gorm.DB) *ProcessingLogRepository {
	return &ProcessingLogRepository{db: db}
}

func (r *ProcessingLogRepository) DB() *gorm.DB {
	return r.db
}

func (r *ProcessingLogRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.EmailProcessingLog, error) {
	var logs []models.EmailProcessingLog
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *ProcessingLogRepository) CountByStatus(ctx context.Context, runID uuid.UUID) (map[models.ProcessingStatus]int64, error) {
	type statusRow struct {
		ProcessingStatus models.ProcessingStatus
		Count            int64
	}
	var rows []statusRow
	err := r.db.WithContext(ctx).Model(&models.EmailProcessingLog{}).
		Where("run_id = ?", runID).
		Select("processing_status, COUNT(*) as count").
		Group("processing_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.ProcessingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.ProcessingStatus] = row.Count
	}
	return counts, nil
}
