package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/config"
	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
)

func main() {
	down := flag.Int("down", 0, "desfaz N migrações em vez de aplicar")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New("migrator", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	if *down > 0 {
		if err := db.MigrateDown(pg, *down); err != nil {
			log.Fatal("migrate down", zap.Error(err))
		}
		log.Info("migrations reverted", zap.Int("steps", *down))
		return
	}

	version, err := db.Migrate(pg)
	if err != nil {
		log.Fatal("migrate up", zap.Error(err))
	}
	log.Info("migrations applied", zap.Uint("version", version))
}
