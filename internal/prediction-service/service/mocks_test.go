package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) PlacePrediction(ctx context.Context, in repo.NewPrediction, now time.Time) (repo.Placed, error) {
	args := m.Called(ctx, in, now)
	return args.Get(0).(repo.Placed), args.Error(1)
}

func (m *MockStore) ListByUser(ctx context.Context, userID, matchID string) ([]repo.Prediction, error) {
	args := m.Called(ctx, userID, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repo.Prediction), args.Error(1)
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPredictionPlaced(ctx context.Context, e events.PredictionPlaced) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
