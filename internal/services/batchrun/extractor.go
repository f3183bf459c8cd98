package batchrun

import (
	"context"
	"encoding/json"
	"fmt"

	"payment-advice-backend/internal/models"
)

// DraftPassthroughExtractor decodes pre-extracted drafts from the job
// payload. It is the extractor used when callers submit already structured
// data instead of raw attachments.
type DraftPassthroughExtractor struct{}

func (DraftPassthroughExtractor) Extract(ctx context.Context, emailLog *models.EmailLog, payload []byte) ([]models.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var drafts []models.Draft
	if err := json.Unmarshal(payload, &drafts); err != nil {
		return nil, fmt.Errorf("decode drafts payload: %w", err)
	}
	return drafts, nil
}
