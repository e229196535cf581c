package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	api_middleware "github.com/thesrcielos/ZombieDefense/api/middleware"
	v1 "github.com/thesrcielos/ZombieDefense/api/v1"
	"github.com/thesrcielos/ZombieDefense/internal/config"
	"github.com/thesrcielos/ZombieDefense/internal/game"
	"github.com/thesrcielos/ZombieDefense/internal/user"
	"github.com/thesrcielos/ZombieDefense/pkg/db"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"github.com/thesrcielos/ZombieDefense/websocket"
)

type statsEvents interface {
	game.StatsPublisher
	Subscribe(ctx context.Context, handle func(game.StatsEvent)) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Infof("File .env not found, using system values")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	user.SetJWTSecret(cfg.JWTSecret)

	if err := db.Init(cfg); err != nil {
		logger.Fatalf("%v", err)
	}
	if err := game.AutoMigrate(db.DB); err != nil {
		logger.Fatalf("Error migrating schema: %v", err)
	}

	instance := cfg.InstanceID
	if instance == "" {
		instance = uuid.NewString()
	}

	var cache game.LeaderboardCache
	var events statsEvents = game.NewLocalStatsEvents()
	if db.Rdb != nil {
		cache = game.NewLeaderboardCache(db.Rdb, cfg.LeaderboardCacheTTL)
		events = game.NewStatsEvents(db.Rdb, instance)
	}

	v1.UserService = user.NewUserService(user.NewUserRepository(db.DB))
	v1.SessionService = game.NewSessionService(game.NewSessionRepository(db.DB), cache, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := websocket.NewLeaderboardFeed(v1.SessionService)
	if err := events.Subscribe(ctx, feed.OnStatsEvent); err != nil {
		logger.Fatalf("Error subscribing to stats events: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger.Get()
	e.HTTPErrorHandler = v1.HTTPErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	limiter := api_middleware.NewRateLimiter(db.Rdb)
	v1.RegisterRoutes(e, limiter.Limit("sessions", cfg.RateLimitSessions, cfg.RateLimitWindow))
	e.GET("/ws/leaderboard", feed.Handler)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down: %v", err)
	}
}
