package repo

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db/dbtest"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

func countPredictions(t *testing.T, pg *sql.DB, userID string) int {
	t.Helper()
	var n int
	require.NoError(t, pg.QueryRow(`SELECT COUNT(*) FROM predictions WHERE user_id = $1`, userID).Scan(&n))
	return n
}

func TestPlacePrediction(t *testing.T) {
	pg := dbtest.New(t)
	ctx := context.Background()
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)

	t.Run("balance 10, cost 10, then cost 5 is refused", func(t *testing.T) {
		repo := NewPostgres(pg)
		user := dbtest.SeedProfile(t, pg, 10, false)
		m1 := dbtest.SeedMatch(t, pg, tomorrow, 10)
		m2 := dbtest.SeedMatch(t, pg, tomorrow, 5)

		placed, err := repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: m1, HomeScore: 2, AwayScore: 1}, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), placed.Balance)
		assert.Equal(t, int64(10), placed.Cost)
		assert.Equal(t, "pending", placed.Prediction.Status)

		_, err = repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: m2, HomeScore: 0, AwayScore: 0}, now)
		var ice *ledger.InsufficientCreditsError
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, int64(5), ice.Required)
		assert.Equal(t, int64(0), ice.Balance)

		assert.Equal(t, int64(0), dbtest.Balance(t, pg, user))
		assert.Equal(t, 1, countPredictions(t, pg, user))

		list, err := repo.ListByUser(ctx, user, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, m1, list[0].MatchID)
	})

	t.Run("failure after insert leaves no partial state", func(t *testing.T) {
		repo := NewPostgres(pg)
		repo.afterInsert = func(*sql.Tx) error { return errors.New("simulated crash") }

		user := dbtest.SeedProfile(t, pg, 50, false)
		match := dbtest.SeedMatch(t, pg, tomorrow, 10)

		_, err := repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: match, HomeScore: 1, AwayScore: 1}, now)
		require.Error(t, err)

		assert.Equal(t, 0, countPredictions(t, pg, user))
		assert.Equal(t, int64(50), dbtest.Balance(t, pg, user))
		entries, err := ledger.Entries(ctx, pg, user, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("closed and unknown matches", func(t *testing.T) {
		repo := NewPostgres(pg)
		user := dbtest.SeedProfile(t, pg, 50, false)

		past := dbtest.SeedMatch(t, pg, now.Add(-time.Hour), 10)
		_, err := repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: past}, now)
		assert.ErrorIs(t, err, ErrMatchClosed)

		live := dbtest.SeedMatch(t, pg, tomorrow, 10)
		_, err = pg.Exec(`UPDATE matches SET status = 'live' WHERE id = $1`, live)
		require.NoError(t, err)
		_, err = repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: live}, now)
		assert.ErrorIs(t, err, ErrMatchClosed)

		_, err = repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: "00000000-0000-0000-0000-000000000000"}, now)
		assert.ErrorIs(t, err, ErrMatchNotFound)

		assert.Equal(t, int64(50), dbtest.Balance(t, pg, user))
	})

	t.Run("concurrent submissions cannot both spend the same balance", func(t *testing.T) {
		repo := NewPostgres(pg)
		user := dbtest.SeedProfile(t, pg, 10, false)
		m1 := dbtest.SeedMatch(t, pg, tomorrow, 10)
		m2 := dbtest.SeedMatch(t, pg, tomorrow, 10)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, m := range []string{m1, m2} {
			wg.Add(1)
			go func(i int, m string) {
				defer wg.Done()
				_, errs[i] = repo.PlacePrediction(ctx, NewPrediction{UserID: user, MatchID: m, HomeScore: 1, AwayScore: 0}, now)
			}(i, m)
		}
		wg.Wait()

		var okCount, refused int
		for _, err := range errs {
			switch {
			case err == nil:
				okCount++
			case errors.Is(err, ledger.ErrInsufficientCredits):
				refused++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, okCount)
		assert.Equal(t, 1, refused)
		assert.Equal(t, int64(0), dbtest.Balance(t, pg, user))
		assert.Equal(t, 1, countPredictions(t, pg, user))
	})
}
