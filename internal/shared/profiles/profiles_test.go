package profiles_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db/dbtest"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
)

func TestStore(t *testing.T) {
	pg := dbtest.New(t)
	store := profiles.NewStore(pg)
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, profiles.ErrNotFound)
	})

	t.Run("get or create starts at zero and is idempotent", func(t *testing.T) {
		id := uuid.NewString()
		p, err := store.GetOrCreate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.Credits)
		assert.False(t, p.IsAdmin)

		_, err = pg.Exec(`UPDATE profiles SET credits = 40 WHERE id = $1`, id)
		require.NoError(t, err)

		again, err := store.GetOrCreate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(40), again.Credits)
	})

	t.Run("is admin", func(t *testing.T) {
		admin := dbtest.SeedProfile(t, pg, 0, true)
		user := dbtest.SeedProfile(t, pg, 0, false)

		ok, err := store.IsAdmin(ctx, admin)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.IsAdmin(ctx, user)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.IsAdmin(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update keeps credits and admin flag", func(t *testing.T) {
		id := dbtest.SeedProfile(t, pg, 75, true)
		name, user, avatar := "Ana Souza", "ana", "https://cdn.example.com/ana.png"

		p, err := store.Update(ctx, id, profiles.Update{FullName: &name, Username: &user, AvatarURL: &avatar})
		require.NoError(t, err)
		require.NotNil(t, p.FullName)
		assert.Equal(t, name, *p.FullName)
		assert.Equal(t, user, *p.Username)
		assert.Equal(t, avatar, *p.AvatarURL)
		assert.Equal(t, int64(75), p.Credits)
		assert.True(t, p.IsAdmin)

		p, err = store.Update(ctx, id, profiles.Update{FullName: &name})
		require.NoError(t, err)
		assert.Nil(t, p.Username)
		assert.Nil(t, p.AvatarURL)
		assert.Equal(t, int64(75), p.Credits)
	})

	t.Run("update creates a missing profile", func(t *testing.T) {
		id := uuid.NewString()
		name := "Bruno"
		p, err := store.Update(ctx, id, profiles.Update{FullName: &name})
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, int64(0), p.Credits)
		assert.False(t, p.IsAdmin)
	})
}
