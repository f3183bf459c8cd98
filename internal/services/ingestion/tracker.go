package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
)

// Tracker records one EmailLog per distinct (run, email_id, email_source).
// Upstream delivery is at-least-once, so re-ingesting the same email within
// a run must return the existing log instead of creating a second one.
type Tracker struct {
	repo   *repository.EmailLogRepository
	logger *zap.Logger
}

func NewTracker(repo *repository.EmailLogRepository, logger *zap.Logger) *Tracker {
	return &Tracker{repo: repo, logger: logger}
}

// Ingest returns the existing log unchanged on duplicate delivery, otherwise
// creates a new one with the supplied group memberships.
func (t *Tracker) Ingest(ctx context.Context, run *models.BatchRun, meta models.RawEmailMeta) (*models.EmailLog, error) {
	existing, err := t.repo.FindByNaturalKey(ctx, run.RunID, meta.EmailID, meta.EmailSource)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		t.logger.Info("duplicate email delivery, reusing existing log",
			zap.String("email_id", meta.EmailID),
			zap.String("email_source", meta.EmailSource),
			zap.String("email_log_uuid", existing.EmailLogUUID.String()))
		return existing, nil
	}

	log := &models.EmailLog{
		EmailLogUUID:   uuid.New(),
		BatchRunID:     run.RunID,
		EmailID:        meta.EmailID,
		EmailSource:    meta.EmailSource,
		ReceivedDate:   meta.ReceivedDate,
		Subject:        meta.Subject,
		Sender:         meta.Sender,
		OriginalSender: meta.OriginalSender,
		MailboxID:      meta.MailboxID,
		GroupUUIDs:     datatypes.JSONSlice[string](dedupe(meta.GroupUUIDs)),
	}
	if err := t.repo.Create(ctx, log); err != nil {
		// A concurrent delivery may win the insert between the lookup and
		// here; the unique natural key rejects ours, so return the winner.
		winner, findErr := t.repo.FindByNaturalKey(ctx, run.RunID, meta.EmailID, meta.EmailSource)
		if findErr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}
	t.logger.Info("created email log",
		zap.String("email_log_uuid", log.EmailLogUUID.String()),
		zap.String("sender", log.Sender))
	return log, nil
}

// AddGroup associates a group with the email. Set semantics: adding a group
// that is already present changes nothing.
func (t *Tracker) AddGroup(ctx context.Context, log *models.EmailLog, groupUUID string) error {
	if log.HasGroup(groupUUID) {
		return nil
	}
	log.GroupUUIDs = append(log.GroupUUIDs, groupUUID)
	log.UpdatedAt = time.Now().UTC()
	return t.repo.Save(ctx, log)
}

func dedupe(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
