package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal de notificações e entrega cada mensagem
// às conexões locais do usuário. Cada instância do serviço assina o canal,
// então o usuário recebe a notificação onde quer que esteja conectado.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var n events.UserNotification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					log.Warn("notification unmarshal", zap.Error(err))
					continue
				}
				hub.Deliver(n)
			}
		}
	}()
}
