package constants

// AchievementType keys the fixed achievement catalog
type AchievementType string

const (
	AchievementStreak7     AchievementType = "streak_7"
	AchievementStreak21    AchievementType = "streak_21"
	AchievementStreak66    AchievementType = "streak_66"
	AchievementStreak100   AchievementType = "streak_100"
	AchievementPerfectWeek AchievementType = "perfect_week"
	AchievementHabitMaster AchievementType = "habit_master"
	AchievementEarlyBird   AchievementType = "early_bird"

	HabitMasterCount = 5
	EarlyBirdDays    = 7
	EarlyBirdCutoff  = "08:00"
)

type AchievementInfo struct {
	Type        AchievementType `json:"achievement_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"badge_icon"`
	Requirement int             `json:"requirement_value"`
}

// AchievementCatalog is ordered for display.
var AchievementCatalog = []AchievementInfo{
	{AchievementStreak7, "First Steps", "Check in 7 days in a row", "🥉", 7},
	{AchievementStreak21, "Habit Formed", "Check in 21 days in a row", "🥈", 21},
	{AchievementStreak66, "Habit Master", "Check in 66 days in a row", "🥇", 66},
	{AchievementStreak100, "Legendary", "Check in 100 days in a row", "🏆", 100},
	{AchievementPerfectWeek, "Perfect Week", "Complete every habit on every day of a week", "💎", 7},
	{AchievementHabitMaster, "Collector", "Grow 5 habits at the same time", "🌟", HabitMasterCount},
	{AchievementEarlyBird, "Early Bird", "Complete a habit before 08:00 for 7 days in a row", "🐦", EarlyBirdDays},
}

// StreakLadder lists the streak achievements in ascending threshold order.
var StreakLadder = []AchievementType{
	AchievementStreak7,
	AchievementStreak21,
	AchievementStreak66,
	AchievementStreak100,
}

// LookupAchievement returns the catalog entry for t.
func LookupAchievement(t AchievementType) (AchievementInfo, bool) {
	for _, a := range AchievementCatalog {
		if a.Type == t {
			return a, true
		}
	}
	return AchievementInfo{}, false
}
