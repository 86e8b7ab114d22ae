package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/kafka"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/shared/server"
	whttp "github.com/radieske/palpiteiro-premiado/internal/wallet-service/http"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/producer"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/receipts"
	wrepo "github.com/radieske/palpiteiro-premiado/internal/wallet-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/service"
)

func main() {
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conexão com Postgres para saldo, extrato e transações de crédito
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Storage dos comprovantes PIX
	store, err := receipts.NewMinIO(cfg.Storage)
	if err != nil {
		log.Fatal("storage client", zap.Error(err))
	}
	bctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := store.EnsureBucket(bctx); err != nil {
		log.Fatal("storage bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}
	cancel()

	// writer sem tópico fixo: compra solicitada e decisão vão para tópicos diferentes
	writer := kafka.NewWriter(cfg.KafkaBrokers, "")
	defer writer.Close()

	metrics.MustRegister(metrics.PurchasesRequested, metrics.TransactionsDecided, metrics.EventsPublished, metrics.EventsFailed)

	profileStore := profiles.NewStore(pg)
	svc := service.New(log,
		wrepo.NewPostgres(pg),
		store,
		profileStore,
		producer.NewKafkaPublisher(writer, cfg.TopicCreditPurchaseRequested, cfg.TopicCreditTransactionDecided),
	)
	api := whttp.NewServer(log, svc, auth.NewVerifier(cfg.JWTSecret), profileStore)

	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		return nil
	})

	if err := server.Serve(ctx, log, server.New(cfg.HTTPPort, api.Router()), msrv); err != nil {
		log.Fatal("api", zap.Error(err))
	}
}
