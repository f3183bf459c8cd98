package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftHeaderValidate(t *testing.T) {
	valid := DraftHeader{
		LegalEntityUUID:     uuid.New(),
		PaymentAdviceNumber: "PA-100",
		PaymentAdviceDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PaymentAdviceAmount: decimal.RequireFromString("250.00"),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(h *DraftHeader)
		field  string
	}{
		{"missing legal entity", func(h *DraftHeader) { h.LegalEntityUUID = uuid.Nil }, "legal_entity_uuid"},
		{"missing advice number", func(h *DraftHeader) { h.PaymentAdviceNumber = "" }, "payment_advice_number"},
		{"missing advice date", func(h *DraftHeader) { h.PaymentAdviceDate = time.Time{} }, "payment_advice_date"},
		{"zero amount", func(h *DraftHeader) { h.PaymentAdviceAmount = decimal.Zero }, "payment_advice_amount"},
		{"negative amount", func(h *DraftHeader) { h.PaymentAdviceAmount = decimal.RequireFromString("-1") }, "payment_advice_amount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := valid
			tc.mutate(&h)

			var verr *ValidationError
			require.ErrorAs(t, h.Validate(), &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
