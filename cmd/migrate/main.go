// migrate applies pending schema migrations embedded in the binary.
//
// Usage: go run ./cmd/migrate [list]
package main

import (
	"context"
	"fmt"
	"os"

	"water-admin/internal/config"
	"water-admin/internal/db"
	"water-admin/internal/logging"
	"water-admin/migrations"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) > 1 && os.Args[1] == "list" {
		files, err := db.DiscoverMigrations(migrations.Files)
		if err != nil {
			logger.WithError(err).Fatal("discover")
		}
		for _, m := range files {
			fmt.Printf("%s  %s  %s\n", m.Version, m.Checksum[:12], m.Filename)
		}
		return
	}

	if err := cfg.Validate(false); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.WithError(err).Fatal("connect")
	}
	defer pool.Close()
	logger.Info("connected")

	if err := db.Migrate(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		logger.WithError(err).Fatal("migration failed")
	}
	logger.Info("all migrations processed")
}
