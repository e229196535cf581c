package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr   string `mapstructure:"HTTP_ADDR"`
	InstanceID string `mapstructure:"INSTANCE_ID"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisUsername string `mapstructure:"REDIS_USERNAME"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisTLS      bool   `mapstructure:"REDIS_TLS"`

	LeaderboardCacheTTL time.Duration `mapstructure:"LEADERBOARD_CACHE_TTL"`
	RateLimitSessions   int           `mapstructure:"RATE_LIMIT_SESSIONS"`
	RateLimitWindow     time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

var defaults = map[string]any{
	"HTTP_ADDR":             ":8080",
	"INSTANCE_ID":           "",
	"LOG_LEVEL":             "info",
	"JWT_SECRET":            "",
	"DB_DRIVER":             "postgres",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "zombie_defense",
	"DB_SSLMODE":            "disable",
	"SQLITE_PATH":           "zombie_defense.db",
	"REDIS_ADDR":            "",
	"REDIS_USERNAME":        "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"REDIS_TLS":             false,
	"LEADERBOARD_CACHE_TTL": "30s",
	"RATE_LIMIT_SESSIONS":   30,
	"RATE_LIMIT_WINDOW":     "1m",
}

// LoadConfig reads app.env from path when present; environment variables
// always win over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return errors.New("DB_DRIVER must be postgres or sqlite")
	}
	if c.RateLimitSessions < 0 {
		return errors.New("RATE_LIMIT_SESSIONS must not be negative")
	}
	return nil
}
