package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "water-admin/internal/adapters/web"
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
	if err := cfg.Validate(true); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	defer pool.Close()

	reference := core.NewReferenceService(pool)
	var roles core.RoleCache
	if cfg.RedisURL != "" {
		rdb, err := core.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("redis")
		}
		defer rdb.Close()
		roles = core.NewRedisRoleCache(rdb, reference, cfg.RoleCacheTTL)
		logger.Info("role cache backed by redis")
	} else {
		roles = core.NewMemoryRoleCache(reference, cfg.RoleCacheTTL)
	}

	svc := app.NewAppService(pool, roles, core.InitialStatus{
		Title:      cfg.PendingStatusTitle,
		FallbackID: cfg.FallbackStatusID,
	})

	boot, err := svc.EnsureAdminUser(ctx, app.AdminBootstrap{
		RoleName: cfg.AdminRoleName,
		Phone:    cfg.DefaultAdminPhone,
		Password: cfg.DefaultAdminPassword,
	})
	if err != nil {
		// Startup continues so health checks and reads work while the
		// operator fixes the database.
		logger.WithError(err).Error("failed to ensure default admin user")
	} else {
		logger.WithFields(logrus.Fields{
			"role_id":      boot.RoleID,
			"user_id":      boot.UserID,
			"role_created": boot.RoleCreated,
			"user_created": boot.UserCreated,
		}).Info("default admin user ready")
	}

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		AdminRole:      cfg.AdminRoleName,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
}
