package models

import (
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
)

// Achievement is an unlockable badge from the fixed catalog
type Achievement struct {
	ID               int64                     `json:"achievement_id"`
	UserID           int64                     `json:"user_id"`
	Type             constants.AchievementType `json:"achievement_type"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	BadgeIcon        string                    `json:"badge_icon"`
	UnlockedAt       *time.Time                `json:"unlocked_at,omitempty"`
	RequirementValue int                       `json:"requirement_value"`
}

func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}
