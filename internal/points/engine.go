// Package points is the gamification ledger: point awards, level
// derivation, streak bonuses, achievement unlocks and reward redemption.
// Every operation is a read-modify-write over the whole userStats
// collection.
package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/repository"
)

const (
	pointsPerLevel = 500
	streakBonus    = 50
	streakPeriod   = 7
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownReward      = errors.New("unknown reward")
	ErrUnknownAchievement = errors.New("unknown achievement")
)

// LevelForPoints derives level from cumulative points.
func LevelForPoints(points int) int {
	return points/pointsPerLevel + 1
}

type Engine struct {
	stats       repository.StatsRepository
	redemptions repository.RedemptionRepository
}

func NewEngine(stats repository.StatsRepository, redemptions repository.RedemptionRepository) *Engine {
	return &Engine{
		stats:       stats,
		redemptions: redemptions,
	}
}

// Get returns the user's stats, materializing a default record for a user
// seen for the first time. The default is not persisted until a mutation.
func (e *Engine) Get(ctx context.Context, userID string) (models.UserStats, error) {
	all, err := e.stats.Stats(ctx)
	if err != nil {
		return models.UserStats{}, err
	}
	return getOrCreate(all, userID), nil
}

func getOrCreate(all map[string]models.UserStats, userID string) models.UserStats {
	if s, ok := all[userID]; ok {
		return s
	}
	return models.UserStats{
		UserID: userID,
		Level:  1,
	}
}

// mutate loads the full stats collection, applies fn to the user's record,
// recomputes the level and writes the collection back.
func (e *Engine) mutate(ctx context.Context, userID string, fn func(*models.UserStats)) (models.UserStats, error) {
	all, err := e.stats.Stats(ctx)
	if err != nil {
		return models.UserStats{}, err
	}

	s := getOrCreate(all, userID)
	fn(&s)
	s.Level = LevelForPoints(s.Points)

	all[userID] = s
	if err := e.stats.SaveStats(ctx, all); err != nil {
		return models.UserStats{}, err
	}
	return s, nil
}

// AddPoints credits delta to the user. Deltas are earnings and assumed
// non-negative; TotalEarned grows by the same amount.
func (e *Engine) AddPoints(ctx context.Context, userID string, delta int) (models.UserStats, error) {
	return e.mutate(ctx, userID, func(s *models.UserStats) {
		s.Points += delta
		s.TotalEarned += delta
	})
}

// IncrementReports bumps reportsSubmitted and returns the updated count for
// the caller to branch on.
func (e *Engine) IncrementReports(ctx context.Context, userID string) (int, error) {
	s, err := e.mutate(ctx, userID, func(s *models.UserStats) {
		s.ReportsSubmitted++
	})
	if err != nil {
		return 0, err
	}
	return s.ReportsSubmitted, nil
}

// UpdateStreak sets the consecutive-day counter. Every 7th day grants a
// 50-point bonus on top of whatever the caller already awarded.
func (e *Engine) UpdateStreak(ctx context.Context, userID string, newStreak int) (models.UserStats, error) {
	return e.mutate(ctx, userID, func(s *models.UserStats) {
		s.Streak = newStreak
		if newStreak > 0 && newStreak%streakPeriod == 0 {
			s.Points += streakBonus
			s.TotalEarned += streakBonus
		}
	})
}

// IncrementHealthChecks records one completed health check.
func (e *Engine) IncrementHealthChecks(ctx context.Context, userID string) (models.UserStats, error) {
	return e.mutate(ctx, userID, func(s *models.UserStats) {
		s.HealthChecks++
	})
}

// AddSensor records a connected sensor id. Returns true if the sensor was
// new for this user.
func (e *Engine) AddSensor(ctx context.Context, userID, sensorID string) (bool, models.UserStats, error) {
	added := false
	s, err := e.mutate(ctx, userID, func(s *models.UserStats) {
		for _, id := range s.Sensors {
			if id == sensorID {
				return
			}
		}
		s.Sensors = append(s.Sensors, sensorID)
		added = true
	})
	return added, s, err
}

// Unlocked reads the per-user unlock state.
func (e *Engine) Unlocked(ctx context.Context, userID, achievementID string) (bool, error) {
	s, err := e.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Achievements[achievementID].Unlocked, nil
}

// Unlock marks the achievement unlocked and grants its catalog points.
//
// The engine does not enforce at-most-once unlocking: a caller that invokes
// Unlock twice for the same id double-awards. Callers must check Unlocked
// first; UnlockEligible does this for the predicate-driven path.
func (e *Engine) Unlock(ctx context.Context, userID, achievementID string) (models.UserStats, error) {
	def, ok := AchievementByID(achievementID)
	if !ok {
		return models.UserStats{}, fmt.Errorf("%w: %s", ErrUnknownAchievement, achievementID)
	}

	s, err := e.mutate(ctx, userID, func(s *models.UserStats) {
		if s.Achievements == nil {
			s.Achievements = make(map[string]models.AchievementState)
		}
		s.Achievements[achievementID] = models.AchievementState{
			Unlocked:     true,
			UnlockedDate: time.Now().UTC(),
		}
		s.Points += def.Points
		s.TotalEarned += def.Points
	})
	if err != nil {
		return models.UserStats{}, err
	}

	slog.Info("achievement unlocked", "user", userID, "achievement", achievementID, "points", def.Points)
	return s, nil
}

// UnlockEligible evaluates every catalog predicate against the user's
// current stats and unlocks the ones that hold and are not yet unlocked.
// Returns the defs that fired. Unlock awards can raise the level, so
// level-based predicates are re-evaluated until a pass fires nothing.
func (e *Engine) UnlockEligible(ctx context.Context, userID string) ([]AchievementDef, error) {
	var fired []AchievementDef

	for {
		s, err := e.Get(ctx, userID)
		if err != nil {
			return fired, err
		}

		var next *AchievementDef
		for i, d := range Achievements {
			if s.Achievements[d.ID].Unlocked {
				continue
			}
			if d.Satisfied(s) {
				next = &Achievements[i]
				break
			}
		}
		if next == nil {
			return fired, nil
		}

		if _, err := e.Unlock(ctx, userID, next.ID); err != nil {
			return fired, err
		}
		fired = append(fired, *next)
	}
}

// ClaimReward spends points on a catalog reward. Rejected outright when the
// balance is short; no partial redemption.
func (e *Engine) ClaimReward(ctx context.Context, userID, rewardID string) (models.Redemption, error) {
	reward, ok := RewardByID(rewardID)
	if !ok {
		return models.Redemption{}, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}

	all, err := e.stats.Stats(ctx)
	if err != nil {
		return models.Redemption{}, err
	}

	s := getOrCreate(all, userID)
	if s.Points < reward.Cost {
		return models.Redemption{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, s.Points, reward.Cost)
	}

	s.Points -= reward.Cost
	s.Level = LevelForPoints(s.Points)
	all[userID] = s
	if err := e.stats.SaveStats(ctx, all); err != nil {
		return models.Redemption{}, err
	}

	redemption := models.Redemption{
		ID:        uuid.NewString(),
		UserID:    userID,
		RewardID:  reward.ID,
		Cost:      reward.Cost,
		Timestamp: time.Now().UTC(),
	}
	if err := e.redemptions.AppendRedemption(ctx, redemption); err != nil {
		// Points already spent; the audit append failing does not roll
		// that back. Accepted behavior for this store.
		slog.Error("redemption audit append failed", "user", userID, "reward", rewardID, "error", err)
		return redemption, err
	}

	slog.Info("reward claimed", "user", userID, "reward", rewardID, "cost", reward.Cost)
	return redemption, nil
}
