package game

import (
	"context"
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session *GameSession) (*GameSession, *user.UserStats, error)
	GetSession(ctx context.Context, id uint) (*GameSession, error)
	ListSessions(ctx context.Context, userID *uint) ([]GameSession, error)
	UpdateSession(ctx context.Context, id uint, update SessionUpdate) (*GameSession, *user.UserStats, error)
	DeleteSession(ctx context.Context, id uint) (*GameSession, *user.UserStats, error)
	FetchUserStats(ctx context.Context, userID uint) (*user.UserStats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// GormSessionRepository keeps user_stats equal to Fold(game_sessions) for
// every user. Each write locks the owner's users row, mutates the session and
// rewrites the summary in a single transaction, so concurrent writers for the
// same user serialize and writers for different users never contend.
type GormSessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db, now: time.Now}
}

func AutoMigrate(db *gorm.DB) error {
	if err := user.AutoMigrate(db); err != nil {
		return err
	}
	return db.AutoMigrate(&GameSession{})
}

func (r *GormSessionRepository) CreateSession(ctx context.Context, session *GameSession) (*GameSession, *user.UserStats, error) {
	var stats *user.UserStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, session.UserID); err != nil {
			return err
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		var err error
		stats, err = r.recomputeStats(tx, session.UserID)
		return err
	})
	if err != nil {
		return nil, nil, apperrors.FromDB(err, "user not found")
	}
	return session, stats, nil
}

func (r *GormSessionRepository) GetSession(ctx context.Context, id uint) (*GameSession, error) {
	var session GameSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "session not found")
	}
	return &session, nil
}

func (r *GormSessionRepository) ListSessions(ctx context.Context, userID *uint) ([]GameSession, error) {
	query := r.db.WithContext(ctx).Order("id")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	sessions := []GameSession{}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, apperrors.FromDB(err, "session not found")
	}
	return sessions, nil
}

func (r *GormSessionRepository) UpdateSession(ctx context.Context, id uint, update SessionUpdate) (*GameSession, *user.UserStats, error) {
	var session GameSession
	var stats *user.UserStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockSessionOwner(tx, id, &session); err != nil {
			return err
		}
		update.apply(&session)
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		var err error
		stats, err = r.recomputeStats(tx, session.UserID)
		return err
	})
	if err != nil {
		return nil, nil, apperrors.FromDB(err, "session not found")
	}
	return &session, stats, nil
}

func (r *GormSessionRepository) DeleteSession(ctx context.Context, id uint) (*GameSession, *user.UserStats, error) {
	var session GameSession
	var stats *user.UserStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockSessionOwner(tx, id, &session); err != nil {
			return err
		}
		result := tx.Delete(&GameSession{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var err error
		stats, err = r.recomputeStats(tx, session.UserID)
		return err
	})
	if err != nil {
		return nil, nil, apperrors.FromDB(err, "session not found")
	}
	return &session, stats, nil
}

// FetchUserStats returns nil, nil when the user has no summary row yet.
func (r *GormSessionRepository) FetchUserStats(ctx context.Context, userID uint) (*user.UserStats, error) {
	var stats []user.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&stats).Error; err != nil {
		return nil, apperrors.FromDB(err, "stats not found")
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return &stats[0], nil
}

func (r *GormSessionRepository) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	entries := []LeaderboardEntry{}
	err := r.db.WithContext(ctx).
		Table("user_stats AS s").
		Select("s.user_id, p.display_name, s.high_score, s.total_games, s.levels_completed").
		Joins("JOIN profiles AS p ON p.user_id = s.user_id").
		Order("s.high_score DESC, s.user_id ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "leaderboard not found")
	}
	return entries, nil
}

// lockUser takes a row lock on the user for the rest of the transaction.
// SQLite has no row locks; its single writer gives the same guarantee.
func lockUser(tx *gorm.DB, userID uint) error {
	var u user.User
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		First(&u, userID).Error
	if err != nil {
		return apperrors.FromDB(err, "user not found")
	}
	return nil
}

// lockSessionOwner loads the session, locks its owner and reloads the
// session under the lock, since it may have changed in between.
func (r *GormSessionRepository) lockSessionOwner(tx *gorm.DB, id uint, session *GameSession) error {
	var current GameSession
	if err := tx.Select("user_id").First(&current, id).Error; err != nil {
		return apperrors.FromDB(err, "session not found")
	}
	if err := lockUser(tx, current.UserID); err != nil {
		return err
	}
	if err := tx.First(session, id).Error; err != nil {
		return apperrors.FromDB(err, "session not found")
	}
	return nil
}

func (r *GormSessionRepository) recomputeStats(tx *gorm.DB, userID uint) (*user.UserStats, error) {
	var sessions []GameSession
	if err := tx.Where("user_id = ?", userID).Order("id").Find(&sessions).Error; err != nil {
		return nil, err
	}

	stats := Fold(sessions)
	stats.UserID = userID
	stats.UpdatedAt = r.now().UTC()

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_games", "high_score", "total_score",
			"levels_completed", "zombies_defeated", "updated_at",
		}),
	}).Create(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
