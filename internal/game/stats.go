package game

import (
	"math"

	"github.com/thesrcielos/ZombieDefense/internal/user"
)

// MaxFieldValue bounds every numeric session field so the summary sums stay
// within int range.
const MaxFieldValue = math.MaxInt32

// Fold derives a user's summary from all of their sessions. It is the only
// place the aggregation rule lives; the repository stores its result after
// every session write. Fold of no sessions is the zero summary.
func Fold(sessions []GameSession) user.UserStats {
	var stats user.UserStats
	for _, s := range sessions {
		stats.TotalGames++
		stats.TotalScore += s.Score
		stats.ZombiesDefeated += s.ZombiesDefeated
		if s.Score > stats.HighScore {
			stats.HighScore = s.Score
		}
		if s.LevelReached > stats.LevelsCompleted {
			stats.LevelsCompleted = s.LevelReached
		}
	}
	return stats
}

func (r *SessionRequest) Validate() error {
	if r.UserID == nil || *r.UserID == 0 {
		return errMissingUserID
	}
	return validateFields(r.Score, r.LevelReached, r.ZombiesDefeated, r.DurationSeconds)
}

func (u *SessionUpdate) Validate() error {
	return validateFields(u.Score, u.LevelReached, u.ZombiesDefeated, u.DurationSeconds)
}

func (u *SessionUpdate) Empty() bool {
	return u.Score == nil && u.LevelReached == nil && u.ZombiesDefeated == nil &&
		u.DurationSeconds == nil && u.CompletedAt == nil
}

func (u *SessionUpdate) apply(s *GameSession) {
	if u.Score != nil {
		s.Score = *u.Score
	}
	if u.LevelReached != nil {
		s.LevelReached = *u.LevelReached
	}
	if u.ZombiesDefeated != nil {
		s.ZombiesDefeated = *u.ZombiesDefeated
	}
	if u.DurationSeconds != nil {
		s.DurationSeconds = *u.DurationSeconds
	}
	if u.CompletedAt != nil {
		s.CompletedAt = u.CompletedAt.UTC()
	}
}

func validateFields(score, level, zombies, duration *int) error {
	if score != nil && *score < 0 {
		return errNegativeScore
	}
	if level != nil && *level < 1 {
		return errInvalidLevel
	}
	if zombies != nil && *zombies < 0 {
		return errNegativeZombies
	}
	if duration != nil && *duration < 0 {
		return errNegativeDuration
	}
	for _, v := range []*int{score, level, zombies, duration} {
		if v != nil && *v > MaxFieldValue {
			return errValueTooLarge
		}
	}
	return nil
}
