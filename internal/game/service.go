package game

import (
	"context"
	"fmt"
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/internal/user"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

var (
	errMissingUserID    = apperrors.InvalidArgument("user_id is required")
	errNegativeScore    = apperrors.InvalidArgument("score must not be negative")
	errInvalidLevel     = apperrors.InvalidArgument("level_reached must be at least 1")
	errNegativeZombies  = apperrors.InvalidArgument("zombies_defeated must not be negative")
	errNegativeDuration = apperrors.InvalidArgument("duration_seconds must not be negative")
	errValueTooLarge    = apperrors.InvalidArgument(fmt.Sprintf("session values must not exceed %d", MaxFieldValue))
	errEmptyUpdate      = apperrors.InvalidArgument("no fields to update")
	errInvalidLimit     = apperrors.InvalidArgument("limit must be at least 1")
)

type SessionService struct {
	repo   SessionRepository
	cache  LeaderboardCache
	events StatsPublisher
	now    func() time.Time
}

// NewSessionService wires the service. cache and events may be nil.
func NewSessionService(repo SessionRepository, cache LeaderboardCache, events StatsPublisher) *SessionService {
	if cache == nil {
		cache = noopCache{}
	}
	return &SessionService{repo: repo, cache: cache, events: events, now: time.Now}
}

func (s *SessionService) RecordSession(ctx context.Context, req *SessionRequest) (*GameSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session := &GameSession{
		UserID:          *req.UserID,
		Score:           valueOr(req.Score, 0),
		LevelReached:    valueOr(req.LevelReached, 1),
		ZombiesDefeated: valueOr(req.ZombiesDefeated, 0),
		DurationSeconds: valueOr(req.DurationSeconds, 0),
		CompletedAt:     s.now().UTC(),
	}
	if req.CompletedAt != nil {
		session.CompletedAt = req.CompletedAt.UTC()
	}

	created, stats, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	s.statsChanged(ctx, created.UserID, stats)
	return created, nil
}

func (s *SessionService) GetSession(ctx context.Context, id uint) (*GameSession, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *SessionService) ListSessions(ctx context.Context, userID *uint) ([]GameSession, error) {
	return s.repo.ListSessions(ctx, userID)
}

func (s *SessionService) UpdateSession(ctx context.Context, id uint, update SessionUpdate) (*GameSession, error) {
	if update.Empty() {
		return nil, errEmptyUpdate
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	updated, stats, err := s.repo.UpdateSession(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.statsChanged(ctx, updated.UserID, stats)
	return updated, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, id uint) error {
	deleted, stats, err := s.repo.DeleteSession(ctx, id)
	if err != nil {
		return err
	}
	s.statsChanged(ctx, deleted.UserID, stats)
	return nil
}

// GetStats never reports NotFound: a user without sessions has the zero
// summary.
func (s *SessionService) GetStats(ctx context.Context, userID uint) (*user.UserStats, error) {
	stats, err := s.repo.FetchUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &user.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func (s *SessionService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 {
		return nil, errInvalidLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	entries, ok, err := s.cache.Get(ctx, limit)
	if err != nil {
		logger.Warnf("leaderboard cache read failed: %v", err)
	} else if ok {
		return entries, nil
	}

	entries, err = s.repo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, limit, entries); err != nil {
		logger.Warnf("leaderboard cache write failed: %v", err)
	}
	return entries, nil
}

// statsChanged runs after the write has committed, so failures here are
// logged rather than returned.
func (s *SessionService) statsChanged(ctx context.Context, userID uint, stats *user.UserStats) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warnf("leaderboard cache invalidation failed: %v", err)
	}
	if s.events == nil || stats == nil {
		return
	}
	s.events.PublishStatsUpdated(ctx, StatsEvent{UserID: userID, Stats: *stats})
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
