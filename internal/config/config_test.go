package config_test

import (
	"testing"
	"time"

	"water-admin/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/water")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBMaxConns != 10 {
		t.Errorf("expected DBMaxConns 10, got %d", cfg.DBMaxConns)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.ServerPort)
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("expected JWT TTL 1h, got %s", cfg.JWTTTL)
	}
	if cfg.RoleCacheTTL != 5*time.Minute {
		t.Errorf("expected role cache TTL 5m, got %s", cfg.RoleCacheTTL)
	}
	if cfg.PendingStatusTitle != "Pending" || cfg.FallbackStatusID != 1 {
		t.Errorf("unexpected status defaults: %q / %d", cfg.PendingStatusTitle, cfg.FallbackStatusID)
	}
	if cfg.AdminRoleName != "Admin" {
		t.Errorf("expected admin role name Admin, got %s", cfg.AdminRoleName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/water")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("ROLE_CACHE_TTL", "30s")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBMaxConns != 25 {
		t.Errorf("expected DBMaxConns 25, got %d", cfg.DBMaxConns)
	}
	if cfg.RoleCacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.RoleCacheTTL)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected text, got %s", cfg.LogFormat)
	}
}

func TestValidate(t *testing.T) {
	base := config.Config{DatabaseURL: "postgres://x", DBMaxConns: 10, JWTTTL: time.Hour, JWTSecret: "s"}

	tests := []struct {
		name       string
		mutate     func(c *config.Config)
		requireJWT bool
		wantErr    bool
	}{
		{"valid", func(c *config.Config) {}, true, false},
		{"missing database url", func(c *config.Config) { c.DatabaseURL = "" }, false, true},
		{"zero pool size", func(c *config.Config) { c.DBMaxConns = 0 }, false, true},
		{"missing secret when required", func(c *config.Config) { c.JWTSecret = "" }, true, true},
		{"missing secret when not required", func(c *config.Config) { c.JWTSecret = "" }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate(tt.requireJWT)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
