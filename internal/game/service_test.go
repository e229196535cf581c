package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/internal/user"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSessionService() (*SessionService, *SessionRepositoryMock, *LeaderboardCacheMock, *StatsPublisherMock) {
	repo := &SessionRepositoryMock{}
	cache := &LeaderboardCacheMock{}
	events := &StatsPublisherMock{}
	svc := NewSessionService(repo, cache, events)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, cache, events
}

func intPtr(v int) *int { return &v }

func TestSessionService_RecordSession_Defaults(t *testing.T) {
	svc, repo, cache, events := newTestSessionService()
	userID := uint(7)

	expected := &GameSession{
		UserID:       7,
		LevelReached: 1,
		CompletedAt:  fixedNow,
	}
	stats := &user.UserStats{UserID: 7, TotalGames: 1, LevelsCompleted: 1}
	repo.On("CreateSession", mock.Anything, expected).Return(expected, stats, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)
	events.On("PublishStatsUpdated", mock.Anything, StatsEvent{UserID: 7, Stats: *stats}).Return()

	session, err := svc.RecordSession(context.Background(), &SessionRequest{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, 1, session.LevelReached)
	assert.Equal(t, 0, session.Score)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestSessionService_RecordSession_Invalid(t *testing.T) {
	svc, repo, _, _ := newTestSessionService()
	userID := uint(7)

	_, err := svc.RecordSession(context.Background(), &SessionRequest{})
	assert.True(t, apperrors.IsInvalid(err))

	_, err = svc.RecordSession(context.Background(), &SessionRequest{UserID: &userID, Score: intPtr(-5)})
	assert.True(t, apperrors.IsInvalid(err))

	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestSessionService_RecordSession_UnknownUser(t *testing.T) {
	svc, repo, cache, events := newTestSessionService()
	userID := uint(404)

	repo.On("CreateSession", mock.Anything, mock.AnythingOfType("*game.GameSession")).
		Return(nil, nil, apperrors.NotFound("user not found"))

	_, err := svc.RecordSession(context.Background(), &SessionRequest{UserID: &userID, Score: intPtr(10)})
	assert.True(t, apperrors.IsNotFound(err))
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	events.AssertNotCalled(t, "PublishStatsUpdated", mock.Anything, mock.Anything)
}

func TestSessionService_UpdateSession(t *testing.T) {
	svc, repo, cache, events := newTestSessionService()
	update := SessionUpdate{Score: intPtr(20)}
	updated := &GameSession{ID: 3, UserID: 2, Score: 20, LevelReached: 4}
	stats := &user.UserStats{UserID: 2, TotalGames: 1, HighScore: 20}

	repo.On("UpdateSession", mock.Anything, uint(3), update).Return(updated, stats, nil)
	cache.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
	events.On("PublishStatsUpdated", mock.Anything, mock.AnythingOfType("game.StatsEvent")).Return()

	session, err := svc.UpdateSession(context.Background(), 3, update)
	require.NoError(t, err)
	assert.Equal(t, 20, session.Score)
	events.AssertExpectations(t)
}

func TestSessionService_UpdateSession_Rejects(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	_, err := svc.UpdateSession(context.Background(), 3, SessionUpdate{})
	assert.Equal(t, errEmptyUpdate, err)

	_, err = svc.UpdateSession(context.Background(), 3, SessionUpdate{LevelReached: intPtr(0)})
	assert.Equal(t, errInvalidLevel, err)
}

func TestSessionService_DeleteSession_NotFound(t *testing.T) {
	svc, repo, cache, _ := newTestSessionService()
	repo.On("DeleteSession", mock.Anything, uint(9)).Return(nil, nil, apperrors.NotFound("session not found"))

	err := svc.DeleteSession(context.Background(), 9)
	assert.True(t, apperrors.IsNotFound(err))
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestSessionService_GetStats_ZeroWhenMissing(t *testing.T) {
	svc, repo, _, _ := newTestSessionService()
	repo.On("FetchUserStats", mock.Anything, uint(11)).Return(nil, nil)

	stats, err := svc.GetStats(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, &user.UserStats{UserID: 11}, stats)
}

func TestSessionService_GetLeaderboard_CacheHit(t *testing.T) {
	svc, repo, cache, _ := newTestSessionService()
	cached := []LeaderboardEntry{{UserID: 1, DisplayName: "Alice", HighScore: 2000}}
	cache.On("Get", mock.Anything, 20).Return(cached, true, nil)

	entries, err := svc.GetLeaderboard(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, cached, entries)
	repo.AssertNotCalled(t, "GetLeaderboard", mock.Anything, mock.Anything)
}

func TestSessionService_GetLeaderboard_CacheMissAndCap(t *testing.T) {
	svc, repo, cache, _ := newTestSessionService()
	fresh := []LeaderboardEntry{{UserID: 2, DisplayName: "Bob", HighScore: 1500}}
	cache.On("Get", mock.Anything, MaxLeaderboardLimit).Return(nil, false, nil)
	repo.On("GetLeaderboard", mock.Anything, MaxLeaderboardLimit).Return(fresh, nil)
	cache.On("Set", mock.Anything, MaxLeaderboardLimit, fresh).Return(nil)

	entries, err := svc.GetLeaderboard(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, fresh, entries)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSessionService_GetLeaderboard_InvalidLimit(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	_, err := svc.GetLeaderboard(context.Background(), 0)
	assert.True(t, apperrors.IsInvalid(err))
}

func TestSessionService_NilCollaborators(t *testing.T) {
	repo := &SessionRepositoryMock{}
	svc := NewSessionService(repo, nil, nil)
	userID := uint(1)
	created := &GameSession{ID: 1, UserID: 1, LevelReached: 1}
	repo.On("CreateSession", mock.Anything, mock.AnythingOfType("*game.GameSession")).
		Return(created, &user.UserStats{UserID: 1, TotalGames: 1}, nil)

	_, err := svc.RecordSession(context.Background(), &SessionRequest{UserID: &userID})
	assert.NoError(t, err)
}
