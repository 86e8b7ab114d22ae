package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishMatchFinished usa o id da partida como chave
func (p *KafkaPublisher) PublishMatchFinished(ctx context.Context, e events.MatchFinished) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := skafka.WriteJSON(ctx, p.Writer, e.MatchID, b); err != nil {
		metrics.EventsFailed.WithLabelValues(p.Topic).Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(p.Topic).Inc()
	return nil
}
