package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration assembled from defaults, an optional
// YAML file named by CONFIG_FILE, and environment variables (highest priority).
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	DBMaxConns  int32  `mapstructure:"db_max_conns"`

	ServerPort      string        `mapstructure:"server_port"`
	AllowedOrigins  string        `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	RedisURL      string        `mapstructure:"redis_url"`
	RoleCacheTTL  time.Duration `mapstructure:"role_cache_ttl"`
	AdminRoleName string        `mapstructure:"admin_role_name"`

	DefaultAdminPhone    string `mapstructure:"default_admin_phone"`
	DefaultAdminPassword string `mapstructure:"default_admin_password"`

	PendingStatusTitle string `mapstructure:"pending_status_title"`
	FallbackStatusID   int    `mapstructure:"fallback_status_id"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"database_url":           "",
	"db_max_conns":           10,
	"server_port":            "8080",
	"allowed_origins":        "",
	"shutdown_timeout":       "10s",
	"jwt_secret":             "",
	"jwt_ttl":                "1h",
	"redis_url":              "",
	"role_cache_ttl":         "5m",
	"admin_role_name":        "Admin",
	"default_admin_phone":    "0000000000",
	"default_admin_password": "admin123",
	"pending_status_title":   "Pending",
	"fallback_status_id":     1,
	"log_level":              "info",
	"log_format":             "json",
}

// Load reads configuration. Call godotenv.Load before Load so values from a
// local .env file are visible as environment variables.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every binary needs. Pass requireJWT for
// processes that issue or verify tokens.
func (c *Config) Validate(requireJWT bool) error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if requireJWT && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}
