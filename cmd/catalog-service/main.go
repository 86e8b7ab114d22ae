package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	chttp "github.com/radieske/palpiteiro-premiado/internal/catalog-service/http"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/producer"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/service"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/cache"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/shared/server"
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

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic match_finished)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMatchFinished)
	defer writer.Close()

	metrics.MustRegister(metrics.CatalogCacheLookups, metrics.EventsPublished, metrics.EventsFailed)

	svc := service.New(log,
		repo.NewPostgres(pg),
		cache.NewJSON(rdb, "catalog:", cfg.CatalogCacheTTL),
		producer.NewKafkaPublisher(writer, cfg.TopicMatchFinished),
	)
	api := chttp.NewServer(log, svc, auth.NewVerifier(cfg.JWTSecret), profiles.NewStore(pg))

	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return rdb.Ping(ctx).Err()
	})

	if err := server.Serve(ctx, log, server.New(cfg.HTTPPort, api.Router()), msrv); err != nil {
		log.Fatal("api", zap.Error(err))
	}
}
