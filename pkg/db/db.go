package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/ZombieDefense/internal/config"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB
var Rdb *redis.Client

func Init(cfg *config.Config) error {
	var err error
	DB, err = Open(cfg)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.RedisAddr == "" {
		logger.Warnf("REDIS_ADDR not set, leaderboard cache and live feed disabled")
		return nil
	}
	Rdb, err = redisDBConnection(cfg)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.GormLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	switch cfg.DBDriver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, gormCfg)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}
}

// OpenSQLite opens a single-connection SQLite database. ":memory:" gives a
// private in-memory database, which is what the tests use.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

func redisDBConnection(cfg *config.Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var tlsConfig *tls.Config
	if cfg.RedisTLS {
		tlsConfig = &tls.Config{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.RedisAddr,
		Username:  cfg.RedisUsername,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		TLSConfig: tlsConfig,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	logger.Infof("Redis connected: %s", pong)
	return client, nil
}

// Health pings every configured backend. A nil entry means healthy.
func Health(ctx context.Context) map[string]error {
	status := map[string]error{}
	if DB != nil {
		sqlDB, err := DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		status["database"] = err
	}
	if Rdb != nil {
		status["redis"] = Rdb.Ping(ctx).Err()
	}
	return status
}
