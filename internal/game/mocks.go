package game

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/ZombieDefense/internal/user"
)

type SessionRepositoryMock struct {
	mock.Mock
}

func (m *SessionRepositoryMock) CreateSession(ctx context.Context, session *GameSession) (*GameSession, *user.UserStats, error) {
	args := m.Called(ctx, session)
	s, _ := args.Get(0).(*GameSession)
	stats, _ := args.Get(1).(*user.UserStats)
	return s, stats, args.Error(2)
}

func (m *SessionRepositoryMock) GetSession(ctx context.Context, id uint) (*GameSession, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*GameSession)
	return s, args.Error(1)
}

func (m *SessionRepositoryMock) ListSessions(ctx context.Context, userID *uint) ([]GameSession, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]GameSession)
	return sessions, args.Error(1)
}

func (m *SessionRepositoryMock) UpdateSession(ctx context.Context, id uint, update SessionUpdate) (*GameSession, *user.UserStats, error) {
	args := m.Called(ctx, id, update)
	s, _ := args.Get(0).(*GameSession)
	stats, _ := args.Get(1).(*user.UserStats)
	return s, stats, args.Error(2)
}

func (m *SessionRepositoryMock) DeleteSession(ctx context.Context, id uint) (*GameSession, *user.UserStats, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*GameSession)
	stats, _ := args.Get(1).(*user.UserStats)
	return s, stats, args.Error(2)
}

func (m *SessionRepositoryMock) FetchUserStats(ctx context.Context, userID uint) (*user.UserStats, error) {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*user.UserStats)
	return stats, args.Error(1)
}

func (m *SessionRepositoryMock) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]LeaderboardEntry)
	return entries, args.Error(1)
}

type LeaderboardCacheMock struct {
	mock.Mock
}

func (m *LeaderboardCacheMock) Get(ctx context.Context, limit int) ([]LeaderboardEntry, bool, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]LeaderboardEntry)
	return entries, args.Bool(1), args.Error(2)
}

func (m *LeaderboardCacheMock) Set(ctx context.Context, limit int, entries []LeaderboardEntry) error {
	args := m.Called(ctx, limit, entries)
	return args.Error(0)
}

func (m *LeaderboardCacheMock) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type StatsPublisherMock struct {
	mock.Mock
}

func (m *StatsPublisherMock) PublishStatsUpdated(ctx context.Context, event StatsEvent) {
	m.Called(ctx, event)
}

type cacheStoreMock struct {
	mock.Mock
}

func (m *cacheStoreMock) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	cmd := redis.NewStringCmd(ctx, "get", key)
	if err := args.Error(1); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(args.String(0))
	}
	return cmd
}

func (m *cacheStoreMock) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func (m *cacheStoreMock) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	cmd := redis.NewIntCmd(ctx, "del")
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(int64(len(keys)))
	}
	return cmd
}
