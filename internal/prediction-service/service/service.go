package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

var ErrNoSession = errors.New("faça login para registrar um palpite")

// Store é o que o fluxo de palpite precisa do banco
type Store interface {
	PlacePrediction(ctx context.Context, in repo.NewPrediction, now time.Time) (repo.Placed, error)
	ListByUser(ctx context.Context, userID, matchID string) ([]repo.Prediction, error)
}

type Publisher interface {
	PublishPredictionPlaced(ctx context.Context, e events.PredictionPlaced) error
}

// SubmitInput traz os placares crus, como chegaram do cliente
type SubmitInput struct {
	MatchID   string
	HomeScore json.RawMessage
	AwayScore json.RawMessage
}

type Service struct {
	log   *zap.Logger
	store Store
	pub   Publisher
	now   func() time.Time
}

func New(log *zap.Logger, store Store, pub Publisher) *Service {
	return &Service{log: log, store: store, pub: pub, now: time.Now}
}

// WithClock troca o relógio usado para decidir se a partida ainda aceita palpites
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit valida e registra um palpite, debitando o custo da partida de forma atômica.
// O saldo devolvido é o resultado do próprio débito.
func (s *Service) Submit(ctx context.Context, sess *auth.Session, in SubmitInput) (repo.Placed, error) {
	if sess == nil || sess.UserID == "" {
		return repo.Placed{}, ErrNoSession
	}

	home, err := ParseScore(in.HomeScore)
	if err != nil {
		metrics.PredictionsRejected.WithLabelValues("invalid_score").Inc()
		return repo.Placed{}, err
	}
	away, err := ParseScore(in.AwayScore)
	if err != nil {
		metrics.PredictionsRejected.WithLabelValues("invalid_score").Inc()
		return repo.Placed{}, err
	}

	if _, err := uuid.Parse(in.MatchID); err != nil {
		metrics.PredictionsRejected.WithLabelValues("match_not_found").Inc()
		return repo.Placed{}, repo.ErrMatchNotFound
	}

	placed, err := s.store.PlacePrediction(ctx, repo.NewPrediction{
		UserID:    sess.UserID,
		MatchID:   in.MatchID,
		HomeScore: home,
		AwayScore: away,
	}, s.now())
	if err != nil {
		metrics.PredictionsRejected.WithLabelValues(rejectReason(err)).Inc()
		return repo.Placed{}, err
	}
	metrics.PredictionsPlaced.Inc()

	// evento depois do commit; falha de publicação não desfaz o palpite
	if err := s.pub.PublishPredictionPlaced(ctx, events.PredictionPlaced{
		PredictionID: placed.Prediction.ID,
		UserID:       placed.Prediction.UserID,
		MatchID:      placed.Prediction.MatchID,
		HomeScore:    placed.Prediction.HomeScore,
		AwayScore:    placed.Prediction.AwayScore,
		Cost:         placed.Cost,
		BalanceAfter: placed.Balance,
	}); err != nil {
		s.log.Warn("publish prediction_placed", zap.String("predictionId", placed.Prediction.ID), zap.Error(err))
	}

	return placed, nil
}

// List devolve os palpites de quem chama
func (s *Service) List(ctx context.Context, sess *auth.Session, matchID string) ([]repo.Prediction, error) {
	if sess == nil || sess.UserID == "" {
		return nil, ErrNoSession
	}
	if matchID != "" {
		if _, err := uuid.Parse(matchID); err != nil {
			return []repo.Prediction{}, nil
		}
	}
	return s.store.ListByUser(ctx, sess.UserID, matchID)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, repo.ErrMatchNotFound):
		return "match_not_found"
	case errors.Is(err, repo.ErrMatchClosed):
		return "match_closed"
	default:
		return "error"
	}
}
