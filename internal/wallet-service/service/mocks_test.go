package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/repo"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreatePending(ctx context.Context, in repo.NewTransaction) (repo.CreditTransaction, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(repo.CreditTransaction), args.Error(1)
}

func (m *MockStore) ListByUser(ctx context.Context, userID string) ([]repo.CreditTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repo.CreditTransaction), args.Error(1)
}

func (m *MockStore) ListAll(ctx context.Context, status string) ([]repo.CreditTransaction, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repo.CreditTransaction), args.Error(1)
}

func (m *MockStore) Approve(ctx context.Context, id, adminID string) (repo.Decision, error) {
	args := m.Called(ctx, id, adminID)
	return args.Get(0).(repo.Decision), args.Error(1)
}

func (m *MockStore) Reject(ctx context.Context, id, adminID string) (repo.Decision, error) {
	args := m.Called(ctx, id, adminID)
	return args.Get(0).(repo.Decision), args.Error(1)
}

func (m *MockStore) LedgerEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

type MockReceipts struct {
	mock.Mock
}

func (m *MockReceipts) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockReceipts) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) GetOrCreate(ctx context.Context, userID string) (*profiles.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profiles.Profile), args.Error(1)
}

func (m *MockProfiles) Update(ctx context.Context, userID string, u profiles.Update) (*profiles.Profile, error) {
	args := m.Called(ctx, userID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profiles.Profile), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPurchaseRequested(ctx context.Context, e events.CreditPurchaseRequested) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) PublishDecision(ctx context.Context, e events.CreditTransactionDecided) error {
	return m.Called(ctx, e).Error(0)
}
