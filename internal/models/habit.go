package models

import (
	"strings"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
)

// Habit is a tracked practice, drawn in the garden as a plant
type Habit struct {
	ID              int64               `json:"habit_id"`
	UserID          int64               `json:"user_id"`
	Name            string              `json:"name" validate:"required,max=100"`
	Category        constants.Category  `json:"category" validate:"oneof=health study work life"`
	Icon            string              `json:"icon"`
	PlantType       constants.PlantType `json:"plant_type" validate:"oneof=flower tree cactus herb"`
	TargetFrequency int                 `json:"target_frequency" validate:"min=1,max=7"`
	CurrentStreak   int                 `json:"current_streak" validate:"min=0"`
	LongestStreak   int                 `json:"longest_streak" validate:"min=0"`
	TotalCompleted  int                 `json:"total_completed" validate:"min=0"`
	Difficulty      int                 `json:"difficulty" validate:"min=1,max=5"`
	IsActive        bool                `json:"is_active"`
	CreatedAt       time.Time           `json:"created_at"`
}

func (h *Habit) Validate() error {
	return validateStruct(h)
}

// Normalize coerces user input into the accepted domain: the name is trimmed,
// unknown categories and plant types fall back to defaults, an unset target
// frequency means daily and numeric fields are clamped to their allowed ranges.
func (h *Habit) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	if !constants.IsValidCategory(string(h.Category)) {
		h.Category = constants.DefaultCategory
	}
	if !constants.IsValidPlantType(string(h.PlantType)) {
		h.PlantType = constants.DefaultPlantType
	}
	if strings.TrimSpace(h.Icon) == "" {
		h.Icon = constants.DefaultHabitIcon
	}
	if h.TargetFrequency == 0 {
		h.TargetFrequency = constants.DefaultTargetFrequency
	}
	h.TargetFrequency = clamp(h.TargetFrequency, constants.MinTargetFrequency, constants.MaxTargetFrequency)
	h.Difficulty = clamp(h.Difficulty, constants.MinDifficulty, constants.MaxDifficulty)
}

// HabitPatch carries optional field updates for a habit
type HabitPatch struct {
	Name            *string
	Category        *string
	Icon            *string
	PlantType       *string
	TargetFrequency *int
	Difficulty      *int
	IsActive        *bool
}

// IsEmpty reports whether the patch changes nothing
func (p HabitPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Icon == nil && p.PlantType == nil &&
		p.TargetFrequency == nil && p.Difficulty == nil && p.IsActive == nil
}

// Apply writes the set fields onto h and normalizes the result
func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Category != nil {
		h.Category = constants.Category(*p.Category)
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.PlantType != nil {
		h.PlantType = constants.PlantType(*p.PlantType)
	}
	if p.TargetFrequency != nil {
		h.TargetFrequency = *p.TargetFrequency
	}
	if p.Difficulty != nil {
		h.Difficulty = *p.Difficulty
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
	h.Normalize()
}

// HabitRecord is a single day's check-in for a habit
type HabitRecord struct {
	ID               int64      `json:"record_id"`
	HabitID          int64      `json:"habit_id"`
	RecordDate       string     `json:"record_date"` // YYYY-MM-DD format
	Completed        bool       `json:"completed"`
	CompletedTime    *time.Time `json:"completed_time,omitempty"`
	Notes            string     `json:"notes"`
	PlantGrowthStage int        `json:"plant_growth_stage"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
