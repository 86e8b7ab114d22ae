package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Forwarder transforma eventos de domínio em notificações por usuário
// e as publica no canal Redis lido pelas instâncias do hub
type Forwarder struct {
	Log     *zap.Logger
	Reader  MessageReader
	Pub     Broadcaster
	Channel string

	// tópico Kafka -> tipo de notificação
	Types map[string]string

	OnForwarded func()
	OnError     func(string)
}

// Run consome até o contexto ser cancelado
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		m, err := f.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.Log.Warn("kafka read failed", zap.Error(err))
			f.onError("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if err := f.Forward(ctx, m); err != nil {
			f.Log.Warn("forward notification", zap.String("topic", m.Topic), zap.Error(err))
		}
	}
}

// Forward publica uma mensagem; tópicos desconhecidos são ignorados
func (f *Forwarder) Forward(ctx context.Context, m kafka.Message) error {
	typ, ok := f.Types[m.Topic]
	if !ok {
		return nil
	}

	var owner struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(m.Value, &owner); err != nil || owner.UserID == "" {
		f.onError("decode")
		return fmt.Errorf("decode %s: missing userId", m.Topic)
	}

	b, err := json.Marshal(events.UserNotification{
		UserID:  owner.UserID,
		Type:    typ,
		Payload: json.RawMessage(m.Value),
	})
	if err != nil {
		return err
	}
	if err := f.Pub.Publish(ctx, f.Channel, b); err != nil {
		f.onError("publish")
		return err
	}
	if f.OnForwarded != nil {
		f.OnForwarded()
	}
	return nil
}

func (f *Forwarder) onError(phase string) {
	if f.OnError != nil {
		f.OnError(phase)
	}
}
