package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/service"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

const secret = "test-secret"

type MockPredictions struct {
	mock.Mock
}

func (m *MockPredictions) Submit(ctx context.Context, sess *auth.Session, in service.SubmitInput) (repo.Placed, error) {
	args := m.Called(ctx, sess, in)
	return args.Get(0).(repo.Placed), args.Error(1)
}

func (m *MockPredictions) List(ctx context.Context, sess *auth.Session, matchID string) ([]repo.Prediction, error) {
	args := m.Called(ctx, sess, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repo.Prediction), args.Error(1)
}

func doPost(t *testing.T, h http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	token, err := auth.Sign(secret, userID, time.Hour)
	require.NoError(t, err)

	body := `{"matchId":"` + uuid.NewString() + `","homeScore":"2","awayScore":1}`
	withUser := mock.MatchedBy(func(s *auth.Session) bool { return s != nil && s.UserID == userID })

	t.Run("created returns prediction and balance", func(t *testing.T) {
		svc := new(MockPredictions)
		svc.On("Submit", mock.Anything, withUser, mock.Anything).
			Return(repo.Placed{Prediction: repo.Prediction{ID: "p1", Status: "pending"}, Cost: 10, Balance: 0}, nil)

		rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), token, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.SubmitPredictionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "p1", resp.Prediction.ID)
		assert.Equal(t, int64(0), resp.Balance)
	})

	t.Run("no session", func(t *testing.T) {
		svc := new(MockPredictions)
		svc.On("Submit", mock.Anything, (*auth.Session)(nil), mock.Anything).Return(repo.Placed{}, service.ErrNoSession)

		rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "faça login")
	})

	t.Run("insufficient credits is 402 with shortfall", func(t *testing.T) {
		svc := new(MockPredictions)
		svc.On("Submit", mock.Anything, withUser, mock.Anything).
			Return(repo.Placed{}, &ledger.InsufficientCreditsError{Required: 10, Balance: 4})

		rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), token, body)
		require.Equal(t, http.StatusPaymentRequired, rec.Code)

		var resp dto.InsufficientCreditsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Você não tem créditos suficientes. Necessário: 10 créditos", resp.Error)
		assert.Equal(t, int64(10), resp.Required)
		assert.Equal(t, int64(4), resp.Balance)
		assert.Equal(t, int64(6), resp.Shortfall)
		assert.Equal(t, buyCreditsURL, resp.BuyCreditsURL)
	})

	statusCases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid score", service.ErrInvalidScore, http.StatusBadRequest},
		{"negative score", service.ErrNegativeScore, http.StatusBadRequest},
		{"match not found", repo.ErrMatchNotFound, http.StatusNotFound},
		{"match closed", repo.ErrMatchClosed, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range statusCases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			svc := new(MockPredictions)
			svc.On("Submit", mock.Anything, withUser, mock.Anything).Return(repo.Placed{}, c.err)

			rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), token, body)
			assert.Equal(t, c.code, rec.Code)
		})
	}

	t.Run("generic message on 500", func(t *testing.T) {
		svc := new(MockPredictions)
		svc.On("Submit", mock.Anything, withUser, mock.Anything).Return(repo.Placed{}, errors.New("pq: connection reset"))

		rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), token, body)
		assert.Contains(t, rec.Body.String(), "Erro ao registrar palpite")
		assert.NotContains(t, rec.Body.String(), "pq:")
	})

	t.Run("bad json", func(t *testing.T) {
		svc := new(MockPredictions)
		rec := doPost(t, NewServer(zap.NewNop(), svc, auth.NewVerifier(secret)).Router(), token, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}
