package game

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/internal/user"
	"github.com/thesrcielos/ZombieDefense/pkg/db"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	repo    *GormSessionRepository
	service *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))
	repo := NewSessionRepository(gdb)
	return &testEnv{db: gdb, repo: repo, service: NewSessionService(repo, nil, nil)}
}

// createUser inserts a user the way registration does: user, profile and an
// empty stats row.
func (e *testEnv) createUser(t *testing.T, email, name string) uint {
	u := user.User{Email: email, Password: "x", Profile: &user.Profile{DisplayName: name}}
	require.NoError(t, e.db.Create(&u).Error)
	require.NoError(t, e.db.Create(&user.UserStats{UserID: u.ID}).Error)
	return u.ID
}

func (e *testEnv) record(t *testing.T, userID uint, score, level int) *GameSession {
	s, err := e.service.RecordSession(context.Background(), &SessionRequest{
		UserID: &userID, Score: &score, LevelReached: &level,
	})
	require.NoError(t, err)
	return s
}

// assertConsistent checks the stored summary against a fold of the stored
// sessions.
func (e *testEnv) assertConsistent(t *testing.T, userID uint) {
	ctx := context.Background()
	sessions, err := e.repo.ListSessions(ctx, &userID)
	require.NoError(t, err)
	stats, err := e.service.GetStats(ctx, userID)
	require.NoError(t, err)

	want := Fold(sessions)
	assert.Equal(t, want.TotalGames, stats.TotalGames)
	assert.Equal(t, want.HighScore, stats.HighScore)
	assert.Equal(t, want.TotalScore, stats.TotalScore)
	assert.Equal(t, want.LevelsCompleted, stats.LevelsCompleted)
	assert.Equal(t, want.ZombiesDefeated, stats.ZombiesDefeated)
}

func TestRecordSession_AggregatesTwoSessions(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice@example.com", "Alice")

	env.record(t, u, 1200, 3)
	env.record(t, u, 2000, 5)

	stats, err := env.service.GetStats(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 2000, stats.HighScore)
	assert.Equal(t, 3200, stats.TotalScore)
	assert.Equal(t, 5, stats.LevelsCompleted)
}

func TestDeleteSession_RecomputesHighScore(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice@example.com", "Alice")
	env.record(t, u, 1200, 3)
	best := env.record(t, u, 2000, 5)

	require.NoError(t, env.service.DeleteSession(context.Background(), best.ID))

	stats, err := env.service.GetStats(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1200, stats.HighScore)
	assert.Equal(t, 1200, stats.TotalScore)
	assert.Equal(t, 3, stats.LevelsCompleted)
}

func TestUpdateSession_PartialAndRecomputed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "carol@example.com", "Carol")
	zombies, duration, level, score := 12, 300, 4, 900
	created, err := env.service.RecordSession(ctx, &SessionRequest{
		UserID: &u, Score: &score, LevelReached: &level, ZombiesDefeated: &zombies, DurationSeconds: &duration,
	})
	require.NoError(t, err)

	lowered := 20
	updated, err := env.service.UpdateSession(ctx, created.ID, SessionUpdate{Score: &lowered})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Score)
	assert.Equal(t, 4, updated.LevelReached)
	assert.Equal(t, 12, updated.ZombiesDefeated)
	assert.Equal(t, 300, updated.DurationSeconds)
	assert.True(t, created.CompletedAt.Equal(updated.CompletedAt))

	stats, err := env.service.GetStats(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.HighScore)
	assert.Equal(t, 20, stats.TotalScore)
}

func TestGetStats_NewUserIsZero(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "dave@example.com", "Dave")

	stats, err := env.service.GetStats(context.Background(), u)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.HighScore)
	assert.Zero(t, stats.TotalScore)
	assert.Zero(t, stats.LevelsCompleted)
	assert.Zero(t, stats.ZombiesDefeated)

	unknown, err := env.service.GetStats(context.Background(), 9999)
	require.NoError(t, err)
	assert.Equal(t, uint(9999), unknown.UserID)
	assert.Zero(t, unknown.TotalGames)
}

func TestGetStats_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "erin@example.com", "Erin")
	env.record(t, u, 50, 2)

	first, err := env.service.GetStats(context.Background(), u)
	require.NoError(t, err)
	second, err := env.service.GetStats(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecordSession_CreatesStatsRowLazily(t *testing.T) {
	env := newTestEnv(t)
	u := user.User{Email: "lazy@example.com", Password: "x", Profile: &user.Profile{DisplayName: "Lazy"}}
	require.NoError(t, env.db.Create(&u).Error)

	env.record(t, u.ID, 10, 1)

	var count int64
	require.NoError(t, env.db.Model(&user.UserStats{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	env.assertConsistent(t, u.ID)
}

func TestSessionErrors_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	missing := uint(77)

	_, err := env.service.RecordSession(ctx, &SessionRequest{UserID: &missing})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.service.GetSession(ctx, 123)
	assert.True(t, apperrors.IsNotFound(err))

	score := 1
	_, err = env.service.UpdateSession(ctx, 123, SessionUpdate{Score: &score})
	assert.True(t, apperrors.IsNotFound(err))

	err = env.service.DeleteSession(ctx, 123)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListSessions_FilterByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a@example.com", "A")
	b := env.createUser(t, "b@example.com", "B")
	env.record(t, a, 1, 1)
	env.record(t, b, 2, 1)
	env.record(t, a, 3, 1)

	all, err := env.service.ListSessions(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := env.service.ListSessions(ctx, &a)
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, 1, onlyA[0].Score)
	assert.Equal(t, 3, onlyA[1].Score)

	none := uint(999)
	empty, err := env.service.ListSessions(ctx, &none)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetLeaderboard_OrderAndTieBreak(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")
	carol := env.createUser(t, "carol@example.com", "Carol")
	env.record(t, alice, 1200, 3)
	env.record(t, alice, 2000, 5)
	env.record(t, bob, 1500, 4)
	env.record(t, carol, 1500, 2)

	top, err := env.service.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Alice", top[0].DisplayName)
	assert.Equal(t, 2000, top[0].HighScore)
	assert.Equal(t, 2, top[0].TotalGames)
	assert.Equal(t, 5, top[0].LevelsCompleted)

	board, err := env.service.GetLeaderboard(ctx, DefaultLeaderboardLimit)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []uint{alice, bob, carol}, []uint{board[0].UserID, board[1].UserID, board[2].UserID})
}

func TestSummaryMatchesFoldAfterRandomWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := []uint{
		env.createUser(t, "p1@example.com", "P1"),
		env.createUser(t, "p2@example.com", "P2"),
	}
	rng := rand.New(rand.NewSource(42))
	var live []*GameSession

	for i := 0; i < 60; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			u := users[rng.Intn(len(users))]
			live = append(live, env.record(t, u, rng.Intn(5000), 1+rng.Intn(10)))
		case op == 1:
			idx := rng.Intn(len(live))
			score := rng.Intn(5000)
			updated, err := env.service.UpdateSession(ctx, live[idx].ID, SessionUpdate{Score: &score})
			require.NoError(t, err)
			live[idx] = updated
		default:
			idx := rng.Intn(len(live))
			require.NoError(t, env.service.DeleteSession(ctx, live[idx].ID))
			live = append(live[:idx], live[idx+1:]...)
		}
	}

	for _, u := range users {
		env.assertConsistent(t, u)
	}
}

func TestRecordSession_RejectsOversizedScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "big@example.com", "Big")
	huge := math.MaxInt64

	_, err := env.service.RecordSession(ctx, &SessionRequest{UserID: &u, Score: &huge})
	assert.True(t, apperrors.IsInvalid(err))

	env.record(t, u, MaxFieldValue, 1)
	env.record(t, u, MaxFieldValue, 1)
	stats, err := env.service.GetStats(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 2*MaxFieldValue, stats.TotalScore)
	env.assertConsistent(t, u)
}

func TestConcurrentWritesForOneUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "busy@example.com", "Busy")
	seed := env.record(t, u, 100, 1)

	const writers = 30
	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(score int) {
			defer wg.Done()
			level := 1 + score%7
			_, err := env.service.RecordSession(ctx, &SessionRequest{UserID: &u, Score: &score, LevelReached: &level})
			errs <- err
		}(i * 10)
		go func(score int) {
			defer wg.Done()
			_, err := env.service.UpdateSession(ctx, seed.ID, SessionUpdate{Score: &score})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := env.service.GetStats(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, writers+1, stats.TotalGames)
	env.assertConsistent(t, u)
}
