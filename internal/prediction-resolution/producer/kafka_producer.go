package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// KafkaPublisher publica resultados e, opcionalmente, envia eventos para a DLQ
type KafkaPublisher struct {
	Resolved *kafka.Writer
	DLQ      *kafka.Writer // nil desliga a DLQ
}

// PublishPredictionResolved usa o usuário como chave
func (p *KafkaPublisher) PublishPredictionResolved(ctx context.Context, e events.PredictionResolved) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := skafka.WriteJSON(ctx, p.Resolved, e.UserID, b); err != nil {
		metrics.EventsFailed.WithLabelValues(p.Resolved.Topic).Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(p.Resolved.Topic).Inc()
	return nil
}

// DeadLetter repassa a mensagem original sem alteração
func (p *KafkaPublisher) DeadLetter(ctx context.Context, key, value []byte) error {
	if p.DLQ == nil {
		return nil
	}
	if err := skafka.WriteJSON(ctx, p.DLQ, string(key), value); err != nil {
		metrics.EventsFailed.WithLabelValues(p.DLQ.Topic).Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(p.DLQ.Topic).Inc()
	return nil
}
