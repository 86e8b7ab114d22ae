package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// KafkaPublisher usa um writer sem tópico fixo; cada evento vai para o seu tópico
type KafkaPublisher struct {
	Writer         *kafka.Writer
	TopicRequested string
	TopicDecided   string
}

func NewKafkaPublisher(w *kafka.Writer, topicRequested, topicDecided string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, TopicRequested: topicRequested, TopicDecided: topicDecided}
}

func (p *KafkaPublisher) PublishPurchaseRequested(ctx context.Context, e events.CreditPurchaseRequested) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.write(ctx, p.TopicRequested, e.TransactionID, e)
}

func (p *KafkaPublisher) PublishDecision(ctx context.Context, e events.CreditTransactionDecided) error {
	if e.Ts.IsZero() {
		e.Ts = time.Now()
	}
	// chave = usuário, para manter a ordem das notificações de cada um
	return p.write(ctx, p.TopicDecided, e.UserID, e)
}

func (p *KafkaPublisher) write(ctx context.Context, topic, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := skafka.WriteTopic(ctx, p.Writer, topic, key, b); err != nil {
		metrics.EventsFailed.WithLabelValues(topic).Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}
