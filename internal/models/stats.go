package models

import "time"

// UserStats is the per-user gamification ledger.
//
// Invariants: Level == Points/500 + 1 (integer division);
// TotalEarned >= Points (points can be spent, lifetime earnings only grow).
type UserStats struct {
	UserID           string                      `json:"userId"`
	Points           int                         `json:"points"`
	Level            int                         `json:"level"`
	ReportsSubmitted int                         `json:"reportsSubmitted"`
	Streak           int                         `json:"streak"` // consecutive-day activity count
	TotalEarned      int                         `json:"totalEarned"`
	HealthChecks     int                         `json:"healthChecks"`
	Sensors          []string                    `json:"sensors,omitempty"` // distinct connected sensor ids
	Achievements     map[string]AchievementState `json:"achievements,omitempty"`
}

type AchievementState struct {
	Unlocked     bool      `json:"unlocked"`
	UnlockedDate time.Time `json:"unlockedDate,omitzero"`
}

// Reward is a static catalog entry users can spend points on.
type Reward struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Category string `json:"category"`
}

// Redemption records one claimed reward.
type Redemption struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	RewardID  string    `json:"rewardId"`
	Cost      int       `json:"cost"`
	Timestamp time.Time `json:"timestamp"`
}
