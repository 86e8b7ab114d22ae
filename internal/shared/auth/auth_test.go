package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

type MockAdminLookup struct {
	mock.Mock
}

func (m *MockAdminLookup) IsAdmin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if s.IsAdmin {
			w.Header().Set("X-Admin", "1")
		}
		_, _ = w.Write([]byte(s.UserID))
	})
}

func TestVerifier_Parse(t *testing.T) {
	t.Parallel()
	v := NewVerifier(secret)
	userID := uuid.NewString()

	tok, err := Sign(secret, userID, time.Hour)
	require.NoError(t, err)

	s, err := v.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, s.UserID)
	assert.False(t, s.IsAdmin)

	t.Run("wrong secret", func(t *testing.T) {
		bad, err := Sign("other", userID, time.Hour)
		require.NoError(t, err)
		_, err = v.Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old, err := Sign(secret, userID, -time.Minute)
		require.NoError(t, err)
		_, err = v.Parse(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject must be a uuid", func(t *testing.T) {
		weird, err := Sign(secret, "not-a-uuid", time.Hour)
		require.NoError(t, err)
		_, err = v.Parse(weird)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := TokenFromRequest(r)
	assert.ErrorIs(t, err, ErrNoToken)

	r.Header.Set("Authorization", "Basic abc")
	_, err = TokenFromRequest(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r.Header.Set("Authorization", "Bearer abc")
	tok, err := TokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	ws := httptest.NewRequest(http.MethodGet, "/ws?token=xyz", nil)
	tok, err = TokenFromRequest(ws)
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)
}

func TestMiddlewares(t *testing.T) {
	t.Parallel()
	v := NewVerifier(secret)
	userID := uuid.NewString()
	tok, err := Sign(secret, userID, time.Hour)
	require.NoError(t, err)

	t.Run("optional without token passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Optional(v)(sessionEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("optional with bad token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		Optional(v)(sessionEcho()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("required sets session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		Required(v)(sessionEcho()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, rec.Body.String())
	})

	t.Run("required without token is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Required(v)(sessionEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	adminChain := func(l AdminLookup) http.Handler {
		return Required(v)(RequireAdmin(l, zap.NewNop())(sessionEcho()))
	}

	t.Run("admin allowed", func(t *testing.T) {
		l := new(MockAdminLookup)
		l.On("IsAdmin", mock.Anything, userID).Return(true, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		adminChain(l).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-Admin"))
		l.AssertExpectations(t)
	})

	t.Run("non admin forbidden", func(t *testing.T) {
		l := new(MockAdminLookup)
		l.On("IsAdmin", mock.Anything, userID).Return(false, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		adminChain(l).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("lookup failure is 500", func(t *testing.T) {
		l := new(MockAdminLookup)
		l.On("IsAdmin", mock.Anything, userID).Return(false, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		adminChain(l).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
