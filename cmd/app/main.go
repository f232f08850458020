// app is the operator entry point. With no arguments it opens the
// interactive console; otherwise it runs one report command and exits.
package main

import (
	"bufio"
	"context"
	"os"

	"water-admin/internal/adapters/cli"
	"water-admin/internal/adapters/repl"
	"water-admin/internal/app"
	"water-admin/internal/config"
	"water-admin/internal/core"
	"water-admin/internal/db"
	"water-admin/internal/logging"

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
	if err := cfg.Validate(false); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	roles := core.NewMemoryRoleCache(core.NewReferenceService(pool), cfg.RoleCacheTTL)
	svc := app.NewAppService(pool, roles, core.InitialStatus{
		Title:      cfg.PendingStatusTitle,
		FallbackID: cfg.FallbackStatusID,
	})

	if len(os.Args) < 2 {
		repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
		return
	}
	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		pool.Close()
		logger.WithError(err).Fatal("command failed")
	}
}
