package batchrun

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/services/ingestion"
	"payment-advice-backend/internal/services/reconciliation"
	"payment-advice-backend/internal/services/status"
)

// Extractor is the external collaborator that turns an email's attachments
// into structured drafts. Implementations are expected to honor ctx; the
// coordinator imposes the call timeout.
type Extractor interface {
	Extract(ctx context.Context, emailLog *models.EmailLog, payload []byte) ([]models.Draft, error)
}

// EmailJob is one email queued for a run: its metadata plus the opaque
// payload handed to the extractor.
type EmailJob struct {
	Meta    models.RawEmailMeta
	Payload []byte
}

// Coordinator is the top-level state machine for a batch run. It creates the
// run, pushes every email through ingestion, extraction, reconciliation and
// status recording on a bounded worker pool, and finalizes the run status.
type Coordinator struct {
	runRepo        *repository.BatchRunRepository
	logRepo        *repository.ProcessingLogRepository
	tracker        *ingestion.Tracker
	engine         *reconciliation.Engine
	aggregator     *status.Aggregator
	extractor      Extractor
	poolSize       int
	gatewayTimeout time.Duration
	logger         *zap.Logger
}

func NewCoordinator(
	runRepo *repository.BatchRunRepository,
	logRepo *repository.ProcessingLogRepository,
	tracker *ingestion.Tracker,
	engine *reconciliation.Engine,
	aggregator *status.Aggregator,
	extractor Extractor,
	poolSize int,
	gatewayTimeout time.Duration,
	logger *zap.Logger,
) *Coordinator {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Coordinator{
		runRepo:        runRepo,
		logRepo:        logRepo,
		tracker:        tracker,
		engine:         engine,
		aggregator:     aggregator,
		extractor:      extractor,
		poolSize:       poolSize,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
	}
}

// StartRun creates a run in NEW state. It fails only when the backing store
// is unavailable.
func (c *Coordinator) StartRun(ctx context.Context, mailboxID string, mode models.RunMode) (*models.BatchRun, error) {
	if !mode.IsValid() {
		mode = models.RunModeIncremental
	}
	run := &models.BatchRun{
		RunID:     uuid.New(),
		StartTS:   time.Now().UTC(),
		Status:    models.BatchRunNew,
		MailboxID: mailboxID,
		RunMode:   mode,
	}
	if err := c.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}
	c.logger.Info("started batch run",
		zap.String("run_id", run.RunID.String()),
		zap.String("mailbox_id", mailboxID),
		zap.String("run_mode", string(mode)))
	return run, nil
}

// ProcessRun dispatches every email through the pipeline on a bounded worker
// pool. Per-email failures become FAILED processing logs without touching
// sibling emails; only storage unavailability aborts the run.
func (c *Coordinator) ProcessRun(ctx context.Context, run *models.BatchRun, jobs []EmailJob) error {
	if len(jobs) == 0 {
		return nil
	}
	if err := c.runRepo.MarkInProgress(ctx, run.RunID); err != nil {
		return err
	}
	run.Status = models.BatchRunInProgress

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.poolSize)
	for _, job := range jobs {
		g.Go(func() error {
			return c.processEmail(gctx, run, job)
		})
	}
	return g.Wait()
}

// Run is the full cycle: process every email, then finalize.
func (c *Coordinator) Run(ctx context.Context, run *models.BatchRun, jobs []EmailJob) error {
	if err := c.ProcessRun(ctx, run, jobs); err != nil {
		c.logger.Error("batch run aborted",
			zap.String("run_id", run.RunID.String()),
			zap.Error(err))
		return c.Cancel(ctx, run)
	}
	return c.Finalize(ctx, run)
}

func (c *Coordinator) processEmail(ctx context.Context, run *models.BatchRun, job EmailJob) error {
	emailLog, err := c.tracker.Ingest(ctx, run, job.Meta)
	if err != nil {
		// Without an email log there is no row to attach an outcome to;
		// treat as storage failure and abort the run.
		return err
	}

	drafts, err := c.extract(ctx, emailLog, job.Payload)
	if err != nil {
		msg := err.Error()
		_, recErr := c.aggregator.Record(ctx, run, emailLog, models.ProcessingFailed, &msg)
		return recErr
	}

	outcome, errMsg := c.reconcileDrafts(ctx, emailLog, drafts)
	_, err = c.aggregator.Record(ctx, run, emailLog, outcome, errMsg)
	return err
}

// extract calls the external extractor under the caller-imposed timeout.
// A timeout is reported as GatewayTimeout so the email is marked FAILED
// without aborting the run.
func (c *Coordinator) extract(ctx context.Context, emailLog *models.EmailLog, payload []byte) ([]models.Draft, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.gatewayTimeout)
	defer cancel()

	drafts, err := c.extractor.Extract(callCtx, emailLog, payload)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &models.GatewayTimeout{Gateway: "extractor"}
	}
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// reconcileDrafts runs every draft of the email through the engine and folds
// the per-draft statuses into one email-level outcome.
func (c *Coordinator) reconcileDrafts(ctx context.Context, emailLog *models.EmailLog, drafts []models.Draft) (models.ProcessingStatus, *string) {
	if len(drafts) == 0 {
		msg := "extractor yielded no drafts"
		return models.ProcessingFailed, &msg
	}

	var statuses []models.ProcessingStatus
	var firstError *string
	for i := range drafts {
		out, err := c.engine.Reconcile(ctx, emailLog, &drafts[i])
		if err != nil {
			statuses = append(statuses, models.ProcessingFailed)
			if firstError == nil {
				msg := err.Error()
				firstError = &msg
			}
			continue
		}
		statuses = append(statuses, out.Status)
		if out.Status != models.ProcessingSuccess && firstError == nil && len(out.Issues) > 0 {
			msg := out.Issues[0].Detail
			firstError = &msg
		}
	}
	return combine(statuses), firstError
}

// combine folds draft statuses: all SUCCESS is SUCCESS, none SUCCESS is
// FAILED, anything mixed is PARTIAL.
func combine(statuses []models.ProcessingStatus) models.ProcessingStatus {
	success, failed := 0, 0
	for _, s := range statuses {
		switch s {
		case models.ProcessingSuccess:
			success++
		case models.ProcessingFailed:
			failed++
		}
	}
	switch {
	case success == len(statuses):
		return models.ProcessingSuccess
	case success == 0 && failed == len(statuses):
		return models.ProcessingFailed
	default:
		return models.ProcessingPartial
	}
}

// Finalize computes the terminal run status from the recorded processing
// logs: SUCCESS iff every email succeeded, FAILED iff none did, PARTIAL
// otherwise. Re-finalizing a terminal run is a no-op.
func (c *Coordinator) Finalize(ctx context.Context, run *models.BatchRun) error {
	current, err := c.runRepo.GetByID(ctx, run.RunID)
	if err != nil {
		return err
	}
	if current.Status.IsTerminal() {
		*run = *current
		return nil
	}

	counts, err := c.logRepo.CountByStatus(ctx, run.RunID)
	if err != nil {
		return err
	}
	total := counts[models.ProcessingSuccess] + counts[models.ProcessingFailed] + counts[models.ProcessingPartial]

	var final models.BatchRunStatus
	switch {
	case counts[models.ProcessingSuccess] == total:
		// A run with zero recorded emails finalizes as SUCCESS.
		final = models.BatchRunSuccess
	case counts[models.ProcessingSuccess] == 0:
		final = models.BatchRunFailed
	default:
		final = models.BatchRunPartial
	}

	now := time.Now().UTC()
	current.Status = final
	current.EndTS = &now
	if err := c.runRepo.Save(ctx, current); err != nil {
		return err
	}
	*run = *current

	c.logger.Info("finalized batch run",
		zap.String("run_id", run.RunID.String()),
		zap.String("status", string(final)),
		zap.Int("emails_processed", run.EmailsProcessed),
		zap.Int("errors", run.Errors))
	return nil
}

// Cancel marks an in-progress run FAILED immediately. Entities and number
// reservations already persisted by completed emails stand. Cancelling a
// terminal run is a no-op.
func (c *Coordinator) Cancel(ctx context.Context, run *models.BatchRun) error {
	current, err := c.runRepo.GetByID(ctx, run.RunID)
	if err != nil {
		return err
	}
	if current.Status.IsTerminal() {
		*run = *current
		return nil
	}

	now := time.Now().UTC()
	current.Status = models.BatchRunFailed
	current.EndTS = &now
	if err := c.runRepo.Save(ctx, current); err != nil {
		return err
	}
	*run = *current

	c.logger.Warn("cancelled batch run", zap.String("run_id", run.RunID.String()))
	return nil
}
