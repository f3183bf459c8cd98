package registrar

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/testutil"
)

func newRegistrar(t *testing.T) *Registrar {
	db := testutil.NewTestDB(t)
	return New(repository.NewReservationRepository(db), zap.NewNop())
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves a free number", func(t *testing.T) {
		reg := newRegistrar(t)
		err := reg.Reserve(ctx, models.DocKindInvoice, "INV-1", uuid.New())
		require.NoError(t, err)
	})

	t.Run("same owner can re-reserve", func(t *testing.T) {
		reg := newRegistrar(t)
		owner := uuid.New()
		require.NoError(t, reg.Reserve(ctx, models.DocKindInvoice, "INV-1", owner))
		require.NoError(t, reg.Reserve(ctx, models.DocKindInvoice, "INV-1", owner))
	})

	t.Run("different owner gets a conflict carrying the holder", func(t *testing.T) {
		reg := newRegistrar(t)
		owner := uuid.New()
		require.NoError(t, reg.Reserve(ctx, models.DocKindInvoice, "INV-1", owner))

		err := reg.Reserve(ctx, models.DocKindInvoice, "INV-1", uuid.New())
		var conflict *models.UniquenessConflict
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, owner, conflict.OwnerUUID)
		assert.Equal(t, "INV-1", conflict.Number)
	})

	t.Run("invoice and other doc number spaces are independent", func(t *testing.T) {
		reg := newRegistrar(t)
		require.NoError(t, reg.Reserve(ctx, models.DocKindInvoice, "DOC-9", uuid.New()))
		require.NoError(t, reg.Reserve(ctx, models.DocKindOtherDoc, "DOC-9", uuid.New()))
	})

	t.Run("rejects unknown kind and empty number", func(t *testing.T) {
		reg := newRegistrar(t)
		assert.Error(t, reg.Reserve(ctx, models.DocKind("VOUCHER"), "X-1", uuid.New()))
		assert.Error(t, reg.Reserve(ctx, models.DocKindInvoice, "", uuid.New()))
	})
}

func TestReserveConcurrent(t *testing.T) {
	reg := newRegistrar(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- reg.Reserve(ctx, models.DocKindInvoice, "INV-42", uuid.New())
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var conflict *models.UniquenessConflict
		if errors.As(err, &conflict) {
			conflicts++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one reservation must win")
	assert.Equal(t, workers-1, conflicts)
}
