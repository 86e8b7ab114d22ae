package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/repo"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListTeams(ctx context.Context) ([]repo.Team, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repo.Team), args.Error(1)
}

func (m *MockStore) GetTeam(ctx context.Context, id string) (repo.Team, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repo.Team), args.Error(1)
}

func (m *MockStore) CreateTeam(ctx context.Context, in repo.TeamInput) (repo.Team, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(repo.Team), args.Error(1)
}

func (m *MockStore) UpdateTeam(ctx context.Context, id string, in repo.TeamInput) (repo.Team, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(repo.Team), args.Error(1)
}

func (m *MockStore) DeleteTeam(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListChampionships(ctx context.Context) ([]repo.Championship, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repo.Championship), args.Error(1)
}

func (m *MockStore) GetChampionship(ctx context.Context, id string) (repo.Championship, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repo.Championship), args.Error(1)
}

func (m *MockStore) CreateChampionship(ctx context.Context, in repo.TeamInput) (repo.Championship, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(repo.Championship), args.Error(1)
}

func (m *MockStore) UpdateChampionship(ctx context.Context, id string, in repo.TeamInput) (repo.Championship, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(repo.Championship), args.Error(1)
}

func (m *MockStore) DeleteChampionship(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ReplaceChampionshipTeams(ctx context.Context, id string, teamIDs []string) (repo.Championship, error) {
	args := m.Called(ctx, id, teamIDs)
	return args.Get(0).(repo.Championship), args.Error(1)
}

func (m *MockStore) ListMatches(ctx context.Context, f repo.MatchFilter) ([]repo.Match, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]repo.Match), args.Error(1)
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (repo.Match, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repo.Match), args.Error(1)
}

func (m *MockStore) CreateMatch(ctx context.Context, in repo.MatchInput) (repo.Match, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(repo.Match), args.Error(1)
}

func (m *MockStore) UpdateMatch(ctx context.Context, id string, in repo.MatchInput) (repo.MatchUpdate, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(repo.MatchUpdate), args.Error(1)
}

func (m *MockStore) DeleteMatch(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCache is a mock implementation of Cache
func (m *MockStore) Stats(ctx context.Context) (repo.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repo.Stats), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, v any) error {
	return m.Called(ctx, key, v).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMatchFinished(ctx context.Context, e events.MatchFinished) error {
	return m.Called(ctx, e).Error(0)
}
