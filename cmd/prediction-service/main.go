package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	phttp "github.com/radieske/palpiteiro-premiado/internal/prediction-service/http"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/producer"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/service"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
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

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic prediction_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionPlaced)
	defer writer.Close()

	metrics.MustRegister(metrics.PredictionsPlaced, metrics.PredictionsRejected, metrics.EventsPublished, metrics.EventsFailed)

	svc := service.New(log, repo.NewPostgres(pg), producer.NewKafkaPublisher(writer, cfg.TopicPredictionPlaced))
	api := phttp.NewServer(log, svc, auth.NewVerifier(cfg.JWTSecret))

	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, pg.PingContext)

	if err := server.Serve(ctx, log, server.New(cfg.HTTPPort, api.Router()), msrv); err != nil {
		log.Fatal("api", zap.Error(err))
	}
}
