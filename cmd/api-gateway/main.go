package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	gateway "github.com/radieske/palpiteiro-premiado/internal/api-gateway"
	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
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

	h, err := gateway.Handler(log, []gateway.Route{
		{Prefix: "/api/catalog", Target: cfg.CatalogURL},
		{Prefix: "/api/predictions", Target: cfg.PredictionURL},
		{Prefix: "/api/wallet", Target: cfg.WalletURL},
		{Prefix: "/api/notifications", Target: cfg.NotificationURL},
	})
	if err != nil {
		log.Fatal("gateway routes", zap.Error(err))
	}

	// sem WriteTimeout: o proxy também carrega WebSocket
	srv := server.New(cfg.HTTPPort, h)
	srv.WriteTimeout = 0

	if err := server.Serve(ctx, log, srv); err != nil {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
