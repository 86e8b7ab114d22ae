package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-resolution/repo"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

const retries = 3

var errInvalidEvent = errors.New("invalid match_finished event")

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Resolver interface {
	Resolve(ctx context.Context, e events.MatchFinished) ([]repo.Resolved, error)
}

type Publisher interface {
	PublishPredictionResolved(ctx context.Context, e events.PredictionResolved) error
	DeadLetter(ctx context.Context, key, value []byte) error
}

// Processor consome match_finished e resolve os palpites pendentes da partida
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log      *zap.Logger
	Reader   MessageReader
	Resolver Resolver
	Pub      Publisher

	// Backoff entre tentativas; nil usa 300ms * tentativa
	Backoff func(attempt int) time.Duration

	OnConsumed func()
	OnResolved func(status string)
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal; retorna quando o contexto é cancelado
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.onError("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		if err := p.Handle(ctx, m); err != nil {
			p.Log.Error("process match_finished", zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

// Handle resolve uma mensagem. Falhas persistentes vão para a DLQ.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) error {
	var e events.MatchFinished
	if err := json.Unmarshal(m.Value, &e); err != nil || e.MatchID == "" {
		p.onError("decode")
		p.deadLetter(ctx, m)
		return errInvalidEvent
	}

	resolved, err := p.Resolver.Resolve(ctx, e)
	for i := 0; err != nil && i < retries; i++ {
		p.onError("resolve")
		if werr := p.wait(ctx, i+1); werr != nil {
			return werr
		}
		resolved, err = p.Resolver.Resolve(ctx, e)
	}
	if err != nil {
		p.onError("resolve")
		p.deadLetter(ctx, m)
		return err
	}

	for _, r := range resolved {
		if p.OnResolved != nil {
			p.OnResolved(r.Status)
		}
		out := events.PredictionResolved{
			PredictionID: r.PredictionID,
			UserID:       r.UserID,
			MatchID:      r.MatchID,
			Status:       r.Status,
			Ts:           r.ResolvedAt,
		}
		// o status já foi gravado; perder a notificação não desfaz o resultado
		if err := p.Pub.PublishPredictionResolved(ctx, out); err != nil {
			p.onError("publish")
			p.Log.Warn("publish prediction_resolved", zap.String("prediction_id", r.PredictionID), zap.Error(err))
		}
	}
	p.Log.Info("match resolved", zap.String("match_id", e.MatchID), zap.Int("predictions", len(resolved)))
	return nil
}

func (p *Processor) wait(ctx context.Context, attempt int) error {
	d := time.Duration(300*attempt) * time.Millisecond
	if p.Backoff != nil {
		d = p.Backoff(attempt)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message) {
	if err := p.Pub.DeadLetter(ctx, m.Key, m.Value); err != nil {
		p.onError("dlq")
		p.Log.Error("dlq write", zap.Error(err))
	}
}

func (p *Processor) onError(phase string) {
	if p.OnError != nil {
		p.OnError(phase)
	}
}
