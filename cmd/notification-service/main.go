package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/notification-service/consumer"
	"github.com/radieske/palpiteiro-premiado/internal/notification-service/pubsub"
	"github.com/radieske/palpiteiro-premiado/internal/notification-service/ws"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/cache"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/internal/shared/server"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	metrics.MustRegister(metrics.NotificationsDelivered, metrics.WSConnections, metrics.EventsFailed)

	// Kafka -> Redis: cada instância lê sua parte das partições
	reader := kafka.NewGroupReader(cfg.KafkaBrokers,
		[]string{cfg.TopicCreditTransactionDecided, cfg.TopicPredictionResolved}, "notification-service")
	defer reader.Close()

	fwd := &consumer.Forwarder{
		Log:     log,
		Reader:  reader,
		Pub:     pubsub.NewRedisBroadcaster(rdb),
		Channel: cfg.RedisNotificationChannel,
		Types: map[string]string{
			cfg.TopicCreditTransactionDecided: events.NotificationCreditDecided,
			cfg.TopicPredictionResolved:       events.NotificationPredictionResolved,
		},
		OnError: func(phase string) {
			metrics.EventsFailed.WithLabelValues("notifications:" + phase).Inc()
		},
	}
	go func() {
		if err := fwd.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("forwarder stopped", zap.Error(err))
		}
	}()

	// Redis -> WebSocket: todas as instâncias recebem e entregam às conexões locais
	hub := ws.NewHub(log, auth.NewVerifier(cfg.JWTSecret), func(*http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, rdb, cfg.RedisNotificationChannel, hub, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/ws", hub.HandleWS)

	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// sem WriteTimeout: conexões WebSocket são longas
	srv := server.New(cfg.HTTPPort, r)
	srv.ReadTimeout, srv.WriteTimeout = 0, 0

	if err := server.Serve(ctx, log, srv, msrv); err != nil {
		log.Fatal("api", zap.Error(err))
	}
}
