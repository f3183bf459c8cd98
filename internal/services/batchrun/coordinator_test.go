package batchrun

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/services/ingestion"
	"payment-advice-backend/internal/services/reconciliation"
	"payment-advice-backend/internal/services/registrar"
	"payment-advice-backend/internal/services/status"
	"payment-advice-backend/internal/testutil"
)

// slowExtractor never answers before the coordinator's deadline fires.
type slowExtractor struct{}

func (slowExtractor) Extract(ctx context.Context, _ *models.EmailLog, _ []byte) ([]models.Draft, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newCoordinator(t *testing.T, extractor Extractor, poolSize int) (*Coordinator, *gorm.DB) {
	db := testutil.NewTestDB(t)
	nop := zap.NewNop()
	runRepo := repository.NewBatchRunRepository(db)
	logRepo := repository.NewProcessingLogRepository(db)
	tracker := ingestion.NewTracker(repository.NewEmailLogRepository(db), nop)
	engine := reconciliation.NewEngine(db, registrar.New(repository.NewReservationRepository(db), nop), nop)
	aggregator := status.NewAggregator(db, runRepo, logRepo, nop)
	c := NewCoordinator(runRepo, logRepo, tracker, engine, aggregator, extractor, poolSize, 50*time.Millisecond, nop)
	return c, db
}

func draftJob(t *testing.T, emailID string, drafts ...models.Draft) EmailJob {
	t.Helper()
	payload, err := json.Marshal(drafts)
	require.NoError(t, err)
	return EmailJob{
		Meta: models.RawEmailMeta{
			EmailID:      emailID,
			EmailSource:  "gmail",
			ReceivedDate: time.Now().UTC(),
			Subject:      "Payment advice",
			Sender:       "payer@example.com",
		},
		Payload: payload,
	}
}

func validDraft(number string) models.Draft {
	customer := uuid.New()
	return models.Draft{
		Header: models.DraftHeader{
			LegalEntityUUID:     uuid.New(),
			PaymentAdviceNumber: "PA-" + number,
			PaymentAdviceDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			PaymentAdviceAmount: decimal.RequireFromString("100.00"),
		},
		InvoiceLines: []models.DraftInvoiceLine{
			{CustomerUUID: customer, InvoiceNumber: number, BookingAmount: decimal.RequireFromString("100.00")},
		},
		SettlementLines: []models.DraftSettlementLine{
			{CustomerUUID: customer, TargetKind: models.DocKindInvoice, TargetNumber: number, SettlementAmount: decimal.RequireFromString("100.00")},
		},
	}
}

func invalidDraft() models.Draft {
	d := validDraft("INV-X")
	d.Header.PaymentAdviceNumber = ""
	return d
}

func TestStartRun(t *testing.T) {
	c, _ := newCoordinator(t, DraftPassthroughExtractor{}, 2)
	run, err := c.StartRun(context.Background(), "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, models.BatchRunNew, run.Status)
	assert.Zero(t, run.EmailsProcessed)
	assert.Nil(t, run.EndTS)
}

func TestRunMixedOutcomesIsPartial(t *testing.T) {
	c, db := newCoordinator(t, DraftPassthroughExtractor{}, 4)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)

	jobs := []EmailJob{
		draftJob(t, "msg-1", validDraft("INV-1")),
		draftJob(t, "msg-2", validDraft("INV-2")),
		draftJob(t, "msg-3", invalidDraft()),
	}
	require.NoError(t, c.Run(ctx, run, jobs))

	assert.Equal(t, models.BatchRunPartial, run.Status)
	assert.Equal(t, 3, run.EmailsProcessed)
	assert.Equal(t, 1, run.Errors)
	assert.NotNil(t, run.EndTS)

	var logs int64
	db.Model(&models.EmailProcessingLog{}).Where("run_id = ?", run.RunID).Count(&logs)
	assert.EqualValues(t, 3, logs)
}

func TestRunAllSuccess(t *testing.T) {
	c, _ := newCoordinator(t, DraftPassthroughExtractor{}, 2)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	jobs := []EmailJob{
		draftJob(t, "msg-1", validDraft("INV-1")),
		draftJob(t, "msg-2", validDraft("INV-2")),
	}
	require.NoError(t, c.Run(ctx, run, jobs))
	assert.Equal(t, models.BatchRunSuccess, run.Status)
	assert.Equal(t, 0, run.Errors)
}

func TestRunAllFailed(t *testing.T) {
	c, _ := newCoordinator(t, DraftPassthroughExtractor{}, 2)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	jobs := []EmailJob{
		draftJob(t, "msg-1", invalidDraft()),
		draftJob(t, "msg-2", invalidDraft()),
	}
	require.NoError(t, c.Run(ctx, run, jobs))
	assert.Equal(t, models.BatchRunFailed, run.Status)
	assert.Equal(t, 2, run.Errors)
}

func TestExtractorTimeoutFailsOnlyThatEmail(t *testing.T) {
	c, db := newCoordinator(t, slowExtractor{}, 2)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	require.NoError(t, c.Run(ctx, run, []EmailJob{draftJob(t, "msg-1")}))

	assert.Equal(t, models.BatchRunFailed, run.Status)
	assert.Equal(t, 1, run.Errors)

	var log models.EmailProcessingLog
	require.NoError(t, db.First(&log, "run_id = ?", run.RunID).Error)
	assert.Equal(t, models.ProcessingFailed, log.ProcessingStatus)
	require.NotNil(t, log.ErrorMessage)
	assert.Contains(t, *log.ErrorMessage, "timed out")
}

func TestDuplicateDeliveryWithinRun(t *testing.T) {
	// Pool of one so the re-delivery is observed after the first ingest.
	c, db := newCoordinator(t, DraftPassthroughExtractor{}, 1)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	jobs := []EmailJob{
		draftJob(t, "msg-1", validDraft("INV-1")),
		draftJob(t, "msg-1", validDraft("INV-1")),
	}
	require.NoError(t, c.Run(ctx, run, jobs))

	var emailLogs, processingLogs int64
	db.Model(&models.EmailLog{}).Where("batch_run_id = ?", run.RunID).Count(&emailLogs)
	db.Model(&models.EmailProcessingLog{}).Where("run_id = ?", run.RunID).Count(&processingLogs)
	assert.EqualValues(t, 1, emailLogs, "re-delivery must not create a second email log")
	assert.EqualValues(t, 1, processingLogs)
	assert.Equal(t, 1, run.EmailsProcessed)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	c, _ := newCoordinator(t, DraftPassthroughExtractor{}, 2)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	require.NoError(t, c.Run(ctx, run, []EmailJob{draftJob(t, "msg-1", validDraft("INV-1"))}))

	firstStatus, firstEnd := run.Status, *run.EndTS
	require.NoError(t, c.Finalize(ctx, run))
	assert.Equal(t, firstStatus, run.Status)
	assert.True(t, firstEnd.Equal(*run.EndTS), "re-finalizing must not move end_ts")
}

func TestCancel(t *testing.T) {
	c, _ := newCoordinator(t, DraftPassthroughExtractor{}, 2)
	ctx := context.Background()

	run, err := c.StartRun(ctx, "remittances", models.RunModeIncremental)
	require.NoError(t, err)
	require.NoError(t, c.Cancel(ctx, run))
	assert.Equal(t, models.BatchRunFailed, run.Status)
	assert.NotNil(t, run.EndTS)

	// Cancelling or finalizing a terminal run changes nothing.
	end := *run.EndTS
	require.NoError(t, c.Cancel(ctx, run))
	require.NoError(t, c.Finalize(ctx, run))
	assert.Equal(t, models.BatchRunFailed, run.Status)
	assert.True(t, end.Equal(*run.EndTS))
}

func TestCombine(t *testing.T) {
	s, f, p := models.ProcessingSuccess, models.ProcessingFailed, models.ProcessingPartial
	assert.Equal(t, s, combine([]models.ProcessingStatus{s, s}))
	assert.Equal(t, f, combine([]models.ProcessingStatus{f, f}))
	assert.Equal(t, p, combine([]models.ProcessingStatus{s, f}))
	assert.Equal(t, p, combine([]models.ProcessingStatus{p}))
	assert.Equal(t, p, combine([]models.ProcessingStatus{f, p}))
}
