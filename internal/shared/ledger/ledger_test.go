package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db/dbtest"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

func TestInsufficientCreditsError(t *testing.T) {
	t.Parallel()

	var err error = &ledger.InsufficientCreditsError{Required: 10, Balance: 5}
	assert.True(t, errors.Is(err, ledger.ErrInsufficientCredits))

	var ice *ledger.InsufficientCreditsError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, int64(5), ice.Shortfall())

	wrapped := errors.Join(errors.New("place prediction"), err)
	assert.ErrorIs(t, wrapped, ledger.ErrInsufficientCredits)
}

func TestDebitCredit_RejectNonPositiveAmount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, amount := range []int64{0, -1, -100} {
		_, err := ledger.Debit(ctx, nil, "u", amount, ledger.Ref{Type: ledger.RefPrediction, ID: "p"})
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

		_, err = ledger.Credit(ctx, nil, "u", amount, ledger.Ref{Type: ledger.RefCreditTransaction, ID: "t"})
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	}
}

func debit(ctx context.Context, pg *sql.DB, userID string, amount int64, ref ledger.Ref) (int64, error) {
	var bal int64
	err := db.WithTx(ctx, pg, func(tx *sql.Tx) error {
		var err error
		bal, err = ledger.Debit(ctx, tx, userID, amount, ref)
		return err
	})
	return bal, err
}

func TestLedger_Integration(t *testing.T) {
	pg := dbtest.New(t)
	ctx := context.Background()

	t.Run("debit returns new balance and records entry", func(t *testing.T) {
		user := dbtest.SeedProfile(t, pg, 100, false)
		ref := ledger.Ref{Type: ledger.RefPrediction, ID: uuid.NewString()}

		bal, err := debit(ctx, pg, user, 30, ref)
		require.NoError(t, err)
		assert.Equal(t, int64(70), bal)
		assert.Equal(t, int64(70), dbtest.Balance(t, pg, user))

		entries, err := ledger.Entries(ctx, pg, user, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ledger.OpDebit, entries[0].Operation)
		assert.Equal(t, int64(30), entries[0].Amount)
		assert.Equal(t, int64(70), entries[0].BalanceAfter)
		assert.Equal(t, ref.ID, entries[0].RefID)
	})

	t.Run("debit to exactly zero", func(t *testing.T) {
		user := dbtest.SeedProfile(t, pg, 10, false)
		bal, err := debit(ctx, pg, user, 10, ledger.Ref{Type: ledger.RefPrediction, ID: uuid.NewString()})
		require.NoError(t, err)
		assert.Equal(t, int64(0), bal)
	})

	t.Run("insufficient credits leaves balance unchanged", func(t *testing.T) {
		user := dbtest.SeedProfile(t, pg, 5, false)

		_, err := debit(ctx, pg, user, 10, ledger.Ref{Type: ledger.RefPrediction, ID: uuid.NewString()})
		require.Error(t, err)

		var ice *ledger.InsufficientCreditsError
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, int64(10), ice.Required)
		assert.Equal(t, int64(5), ice.Balance)
		assert.Equal(t, int64(5), dbtest.Balance(t, pg, user))

		entries, err := ledger.Entries(ctx, pg, user, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := debit(ctx, pg, uuid.NewString(), 10, ledger.Ref{Type: ledger.RefPrediction, ID: uuid.NewString()})
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

		_, err = ledger.Balance(ctx, pg, uuid.NewString())
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	})

	t.Run("same reference is credited once", func(t *testing.T) {
		user := dbtest.SeedProfile(t, pg, 0, false)
		ref := ledger.Ref{Type: ledger.RefCreditTransaction, ID: uuid.NewString()}

		credit := func() error {
			return db.WithTx(ctx, pg, func(tx *sql.Tx) error {
				_, err := ledger.Credit(ctx, tx, user, 300, ref)
				return err
			})
		}

		require.NoError(t, credit())
		assert.ErrorIs(t, credit(), ledger.ErrDuplicateEntry)
		assert.Equal(t, int64(300), dbtest.Balance(t, pg, user))
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		user := dbtest.SeedProfile(t, pg, 50, false)

		const workers = 12
		var ok, refused int32
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, err := debit(ctx, pg, user, 10, ledger.Ref{Type: ledger.RefPrediction, ID: uuid.NewString()})
				switch {
				case err == nil:
					atomic.AddInt32(&ok, 1)
				case errors.Is(err, ledger.ErrInsufficientCredits):
					atomic.AddInt32(&refused, 1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), ok)
		assert.Equal(t, int32(workers-5), refused)
		assert.Equal(t, int64(0), dbtest.Balance(t, pg, user))
	})
}
