package game

import (
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/user"
)

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// GameSession is one completed play. Sessions may be corrected or removed,
// but the owner never changes.
type GameSession struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            *user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score           int        `gorm:"not null" json:"score"`
	LevelReached    int        `gorm:"not null" json:"level_reached"`
	ZombiesDefeated int        `gorm:"not null" json:"zombies_defeated"`
	DurationSeconds int        `gorm:"not null" json:"duration_seconds"`
	CompletedAt     time.Time  `gorm:"not null" json:"completed_at"`
}

// SessionRequest is the body of a new session submission. Nil fields take
// their defaults.
type SessionRequest struct {
	UserID          *uint      `json:"user_id"`
	Score           *int       `json:"score"`
	LevelReached    *int       `json:"level_reached"`
	ZombiesDefeated *int       `json:"zombies_defeated"`
	DurationSeconds *int       `json:"duration_seconds"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// SessionUpdate names every mutable session field; nil means untouched.
type SessionUpdate struct {
	Score           *int       `json:"score"`
	LevelReached    *int       `json:"level_reached"`
	ZombiesDefeated *int       `json:"zombies_defeated"`
	DurationSeconds *int       `json:"duration_seconds"`
	CompletedAt     *time.Time `json:"completed_at"`
}

type LeaderboardEntry struct {
	UserID          uint   `json:"user_id"`
	DisplayName     string `json:"display_name"`
	HighScore       int    `json:"high_score"`
	TotalGames      int    `json:"total_games"`
	LevelsCompleted int    `json:"levels_completed"`
}

type StatsEvent struct {
	Type     string         `json:"type"`
	UserID   uint           `json:"user_id"`
	Stats    user.UserStats `json:"stats"`
	Instance string         `json:"instance"`
}

const StatsUpdated = "STATS_UPDATED"
