// Command seed loads a couple of demo players and their sessions.
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/internal/config"
	"github.com/thesrcielos/ZombieDefense/internal/game"
	"github.com/thesrcielos/ZombieDefense/internal/user"
	"github.com/thesrcielos/ZombieDefense/pkg/db"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

type seedSession struct {
	score, level, zombies, duration int
}

type seedUser struct {
	email, password, name string
	sessions              []seedSession
}

var players = []seedUser{
	{
		email: "alice@example.com", password: "alice-password", name: "Alice",
		sessions: []seedSession{{1200, 3, 45, 540}, {2000, 5, 80, 900}},
	},
	{
		email: "bob@example.com", password: "bob-password", name: "Bob",
		sessions: []seedSession{{1500, 4, 60, 720}},
	},
}

func main() {
	_ = godotenv.Load()

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

	var cache game.LeaderboardCache
	if db.Rdb != nil {
		cache = game.NewLeaderboardCache(db.Rdb, cfg.LeaderboardCacheTTL)
	}
	users := user.NewUserService(user.NewUserRepository(db.DB))
	sessions := game.NewSessionService(game.NewSessionRepository(db.DB), cache, nil)

	ctx := context.Background()
	for _, p := range players {
		resp, err := users.Register(ctx, user.RegisterRequest{Email: p.email, Password: p.password, DisplayName: p.name})
		if apperrors.IsConflict(err) {
			logger.Infof("%s already exists, skipping", p.email)
			continue
		}
		if err != nil {
			logger.Fatalf("Error creating %s: %v", p.email, err)
		}

		for _, s := range p.sessions {
			s := s
			_, err := sessions.RecordSession(ctx, &game.SessionRequest{
				UserID:          &resp.User.ID,
				Score:           &s.score,
				LevelReached:    &s.level,
				ZombiesDefeated: &s.zombies,
				DurationSeconds: &s.duration,
			})
			if err != nil {
				logger.Fatalf("Error recording session for %s: %v", p.email, err)
			}
		}
		logger.Infof("Seeded %s with %d sessions", p.email, len(p.sessions))
	}
}
