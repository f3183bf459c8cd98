package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettlement(t *testing.T) {
	advice, customer := uuid.New(), uuid.New()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("75.25")

	t.Run("invoice target sets only the invoice key", func(t *testing.T) {
		target := InvoiceTarget(uuid.New())
		s, err := NewSettlement(advice, customer, target, date, amount)
		require.NoError(t, err)
		require.NotNil(t, s.InvoiceUUID)
		assert.Equal(t, target.UUID, *s.InvoiceUUID)
		assert.Nil(t, s.OtherDocUUID)
		assert.Equal(t, SettlementReady, s.SettlementStatus)
	})

	t.Run("other doc target sets only the other doc key", func(t *testing.T) {
		target := OtherDocTarget(uuid.New())
		s, err := NewSettlement(advice, customer, target, date, amount)
		require.NoError(t, err)
		require.NotNil(t, s.OtherDocUUID)
		assert.Equal(t, target.UUID, *s.OtherDocUUID)
		assert.Nil(t, s.InvoiceUUID)
	})

	t.Run("rejects an untagged target", func(t *testing.T) {
		_, err := NewSettlement(advice, customer, SettlementTarget{}, date, amount)
		assert.Error(t, err)
	})
}

func TestSettlementTarget(t *testing.T) {
	invoiceUUID, otherDocUUID := uuid.New(), uuid.New()

	t.Run("round-trips the invoice reference", func(t *testing.T) {
		s := Settlement{InvoiceUUID: &invoiceUUID}
		target, err := s.Target()
		require.NoError(t, err)
		assert.Equal(t, InvoiceTarget(invoiceUUID), target)
	})

	t.Run("round-trips the other doc reference", func(t *testing.T) {
		s := Settlement{OtherDocUUID: &otherDocUUID}
		target, err := s.Target()
		require.NoError(t, err)
		assert.Equal(t, OtherDocTarget(otherDocUUID), target)
	})

	t.Run("rejects rows violating the either/or rule", func(t *testing.T) {
		empty := Settlement{}
		_, err := empty.Target()
		assert.Error(t, err)

		both := Settlement{InvoiceUUID: &invoiceUUID, OtherDocUUID: &otherDocUUID}
		_, err = both.Target()
		assert.Error(t, err)
	})
}
