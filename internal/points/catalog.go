package points

import "github.com/waterwatch/go-water-watch/internal/models"

// Op is how an achievement target is compared against a stat. Several
// entries are deliberately exact-match: a counter that skips the target
// value (a batch import jumping reportsSubmitted from 0 to 2) never fires
// them. Keeping the operator in data makes that choice auditable instead of
// burying it in branches.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
)

type Stat string

const (
	StatReports      Stat = "reportsSubmitted"
	StatStreak       Stat = "streak"
	StatLevel        Stat = "level"
	StatHealthChecks Stat = "healthChecks"
	StatSensors      Stat = "sensors"
)

type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Points      int    `json:"pointReward"`
	Stat        Stat   `json:"stat"`
	Op          Op     `json:"op"`
	Target      int    `json:"target"`
}

// Satisfied reports whether the predicate holds for the given stats.
func (d AchievementDef) Satisfied(s models.UserStats) bool {
	v := statValue(s, d.Stat)
	switch d.Op {
	case OpEq:
		return v == d.Target
	case OpGte:
		return v >= d.Target
	}
	return false
}

func statValue(s models.UserStats, stat Stat) int {
	switch stat {
	case StatReports:
		return s.ReportsSubmitted
	case StatStreak:
		return s.Streak
	case StatLevel:
		return s.Level
	case StatHealthChecks:
		return s.HealthChecks
	case StatSensors:
		return len(s.Sensors)
	}
	return 0
}

// Achievements is the static catalog. Per-user unlock state lives in
// UserStats.Achievements.
var Achievements = []AchievementDef{
	{ID: "first_report", Name: "First Report", Description: "Submit your first water report", Icon: "droplet", Category: "reporting", Points: 50, Stat: StatReports, Op: OpEq, Target: 1},
	{ID: "community_hero", Name: "Community Hero", Description: "Submit 10 water reports", Icon: "shield", Category: "reporting", Points: 200, Stat: StatReports, Op: OpEq, Target: 10},
	{ID: "streak_warrior", Name: "Streak Warrior", Description: "Stay active 7 days in a row", Icon: "flame", Category: "engagement", Points: 150, Stat: StatStreak, Op: OpEq, Target: 7},
	{ID: "water_guardian", Name: "Water Guardian", Description: "Reach level 10", Icon: "award", Category: "progression", Points: 500, Stat: StatLevel, Op: OpEq, Target: 10},
	{ID: "health_checker", Name: "Health Checker", Description: "Complete 5 health checks", Icon: "heart", Category: "health", Points: 75, Stat: StatHealthChecks, Op: OpGte, Target: 5},
	{ID: "sensor_master", Name: "Sensor Master", Description: "Connect 3 different sensors", Icon: "cpu", Category: "sensors", Points: 100, Stat: StatSensors, Op: OpGte, Target: 3},
}

// AchievementByID returns the catalog entry, or false.
func AchievementByID(id string) (AchievementDef, bool) {
	for _, d := range Achievements {
		if d.ID == id {
			return d, true
		}
	}
	return AchievementDef{}, false
}

// Rewards is the static redemption catalog.
var Rewards = []models.Reward{
	{ID: "purification_tablets", Name: "Water Purification Tablets", Cost: 200, Category: "supplies"},
	{ID: "testing_kit", Name: "Home Water Testing Kit", Cost: 400, Category: "supplies"},
	{ID: "water_filter", Name: "Ceramic Water Filter", Cost: 500, Category: "equipment"},
	{ID: "clinic_voucher", Name: "Health Clinic Voucher", Cost: 750, Category: "health"},
}

func RewardByID(id string) (models.Reward, bool) {
	for _, r := range Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reward{}, false
}
