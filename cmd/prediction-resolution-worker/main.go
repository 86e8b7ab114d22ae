package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-resolution/consumer"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-resolution/producer"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-resolution/repo"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres: resolução dos palpites
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: match_finished
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMatchFinished, "prediction-resolution")
	defer reader.Close()

	// Kafka producers: prediction_resolved e DLQ
	resolvedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionResolved)
	defer resolvedWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicMatchFinishedDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMatchFinishedDLQ)
		defer dlqWriter.Close()
	}

	metrics.MustRegister(metrics.PredictionsResolved, metrics.EventsPublished, metrics.EventsFailed)
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, pg.PingContext)

	proc := &consumer.Processor{
		Log:      log,
		Reader:   reader,
		Resolver: repo.NewPostgres(pg),
		Pub:      &producer.KafkaPublisher{Resolved: resolvedWriter, DLQ: dlqWriter},
		OnResolved: func(status string) {
			metrics.PredictionsResolved.WithLabelValues(status).Inc()
		},
		OnError: func(phase string) {
			metrics.EventsFailed.WithLabelValues(cfg.TopicMatchFinished + ":" + phase).Inc()
		},
	}

	log.Info("prediction-resolution-worker started",
		zap.String("consume", cfg.TopicMatchFinished),
		zap.String("publish", cfg.TopicPredictionResolved),
	)
	if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("processor stopped", zap.Error(err))
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = msrv.Shutdown(sctx)
}
