// seed restores the reference data every installation relies on: the
// built-in roles, order statuses and measures, plus the default admin user.
// Rows that were soft-deleted or deactivated are revived. Run it after
// migrations, or when reference rows have been accidentally removed.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"

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
		logger.WithError(err).Fatal("failed to connect")
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	logger.Info("restoring roles")
	_, err = tx.Exec(ctx, `
		INSERT INTO roles (id, rolename) VALUES
		    (1, 'Admin'),
		    (2, 'Customer'),
		    (3, 'Delivery Boy')
		ON CONFLICT (id) DO UPDATE
		  SET rolename   = EXCLUDED.rolename,
		      is_active  = true,
		      is_deleted = false,
		      updated_at = now();
		SELECT setval(pg_get_serial_sequence('roles', 'id'), (SELECT MAX(id) FROM roles));
	`)
	if err != nil {
		logger.WithError(err).Fatal("failed to restore roles")
	}

	logger.Info("restoring order statuses")
	_, err = tx.Exec(ctx, `
		INSERT INTO order_statuses (id, status_title, status_priority) VALUES
		    (1, 'Pending',          1),
		    (2, 'Out for Delivery', 2),
		    (3, 'Completed',        3),
		    (4, 'Cancelled',        4)
		ON CONFLICT (id) DO UPDATE
		  SET status_title    = EXCLUDED.status_title,
		      status_priority = EXCLUDED.status_priority,
		      is_active       = true,
		      is_deleted      = false,
		      updated_at      = now();
		SELECT setval(pg_get_serial_sequence('order_statuses', 'id'), (SELECT MAX(id) FROM order_statuses));
	`)
	if err != nil {
		logger.WithError(err).Fatal("failed to restore order statuses")
	}

	logger.Info("restoring measures")
	_, err = tx.Exec(ctx, `
		INSERT INTO measures (title, notes)
		SELECT m.title, m.notes
		FROM (VALUES
		    ('Litre',  NULL),
		    ('Bottle', NULL),
		    ('Jar',    '20 litre refillable jar')
		) AS m(title, notes)
		WHERE NOT EXISTS (
		    SELECT 1 FROM measures x WHERE x.title = m.title AND NOT x.is_deleted
		);
	`)
	if err != nil {
		logger.WithError(err).Fatal("failed to restore measures")
	}

	if err := tx.Commit(ctx); err != nil {
		logger.WithError(err).Fatal("failed to commit")
	}

	roles := core.NewMemoryRoleCache(core.NewReferenceService(pool), 0)
	svc := app.NewAppService(pool, roles, core.DefaultInitialStatus)
	boot, err := svc.EnsureAdminUser(ctx, app.AdminBootstrap{
		RoleName: cfg.AdminRoleName,
		Phone:    cfg.DefaultAdminPhone,
		Password: cfg.DefaultAdminPassword,
	})
	if err != nil {
		pool.Close()
		logger.WithError(err).Fatal("failed to ensure default admin user")
	}

	logger.WithFields(logrus.Fields{
		"admin_user_id": boot.UserID,
		"user_created":  boot.UserCreated,
	}).Info("seed data restored")
}
