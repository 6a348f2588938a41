package tracker

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// CheckInResult reports the outcome of a successful check-in
type CheckInResult struct {
	Habit          models.Habit                `json:"habit"`
	CurrentStreak  int                         `json:"current_streak"`
	TotalCompleted int                         `json:"total_completed"`
	Plant          models.GardenState          `json:"plant"`
	Unlocked       []constants.AchievementInfo `json:"unlocked_achievements"`
}

// TodayItem is one active habit with today's check-in state
type TodayItem struct {
	Habit          models.Habit `json:"habit"`
	CompletedToday bool         `json:"completed_today"`
	CompletedTime  *time.Time   `json:"completed_time,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	Stage          int          `json:"stage"`
	PlantHealth    int          `json:"plant_health"`
}

// HistoryDay is one day of a habit's history
type HistoryDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// MonthStats summarises one habit over a calendar month
type MonthStats struct {
	HabitID        int64        `json:"habit_id"`
	Year           int          `json:"year"`
	Month          time.Month   `json:"month"`
	Calendar       map[int]bool `json:"calendar"`
	CompletedCount int          `json:"completed_count"`
	TotalDays      int          `json:"total_days"`
	CompletionRate float64      `json:"completion_rate"`
	CurrentStreak  int          `json:"current_streak"`
	LongestStreak  int          `json:"longest_streak"`
}

// HabitManager runs habit lifecycle and check-in operations
type HabitManager struct {
	store storage.Provider
	now   utils.Clock
}

func NewHabitManager(store storage.Provider, now utils.Clock) *HabitManager {
	if now == nil {
		now = time.Now
	}
	return &HabitManager{store: store, now: now}
}

// CreateHabit normalizes and stores a new habit along with its plant.
func (m *HabitManager) CreateHabit(h models.Habit) (models.Habit, []constants.AchievementInfo, error) {
	h.Normalize()
	if h.Name == "" {
		return models.Habit{}, nil, apperrors.Invalid("habit name cannot be empty")
	}
	if h.UserID == 0 {
		h.UserID = constants.DefaultUserID
	}
	h.IsActive = true
	h.CurrentStreak, h.LongestStreak, h.TotalCompleted = 0, 0, 0
	if err := h.Validate(); err != nil {
		return models.Habit{}, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	created, err := m.store.CreateHabit(h)
	if err != nil {
		return models.Habit{}, nil, fmt.Errorf("failed to create habit: %w", err)
	}
	logger.Info("Created habit", "id", created.ID, "name", created.Name)

	unlocked, err := m.checkHabitMaster(created.UserID)
	if err != nil {
		logger.Warn("Failed to check habit count achievement", "error", err)
	}
	return created, unlocked, nil
}

func (m *HabitManager) checkHabitMaster(userID int64) ([]constants.AchievementInfo, error) {
	n, err := m.store.CountActiveHabits(userID)
	if err != nil {
		return nil, err
	}
	if n < constants.HabitMasterCount {
		return nil, nil
	}
	return m.unlock(userID, constants.AchievementHabitMaster)
}

func (m *HabitManager) unlock(userID int64, types ...constants.AchievementType) ([]constants.AchievementInfo, error) {
	var unlocked []constants.AchievementInfo
	for _, t := range types {
		ok, err := m.store.UnlockAchievement(userID, t, m.now())
		if err != nil {
			return unlocked, fmt.Errorf("failed to unlock %s: %w", t, err)
		}
		if !ok {
			continue
		}
		info, _ := constants.LookupAchievement(t)
		logger.Info("Achievement unlocked", "type", t)
		unlocked = append(unlocked, info)
	}
	return unlocked, nil
}

func (m *HabitManager) GetHabit(id int64) (models.Habit, error) {
	return m.store.GetHabit(id)
}

func (m *HabitManager) ListHabits(userID int64, activeOnly bool) ([]models.Habit, error) {
	return m.store.GetHabits(userID, activeOnly)
}

// HabitsByCategory groups active habits by category.
func (m *HabitManager) HabitsByCategory(userID int64) (map[constants.Category][]models.Habit, error) {
	habits, err := m.store.GetHabits(userID, true)
	if err != nil {
		return nil, err
	}
	out := make(map[constants.Category][]models.Habit)
	for _, h := range habits {
		out[h.Category] = append(out[h.Category], h)
	}
	return out, nil
}

// UpdateHabit applies the patch to the stored habit. Restoring an archived
// habit re-evaluates the habit count achievement.
func (m *HabitManager) UpdateHabit(id int64, patch models.HabitPatch) (models.Habit, error) {
	if patch.IsEmpty() {
		return models.Habit{}, apperrors.Invalid("no fields to update")
	}
	h, err := m.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	wasActive := h.IsActive
	patch.Apply(&h)
	if h.Name == "" {
		return models.Habit{}, apperrors.Invalid("habit name cannot be empty")
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := m.store.UpdateHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	if !wasActive && h.IsActive {
		logger.Info("Restored habit", "id", h.ID)
		if _, err := m.checkHabitMaster(h.UserID); err != nil {
			logger.Warn("Failed to check habit count achievement", "error", err)
		}
	}
	return h, nil
}

// DeleteHabit deactivates the habit, or removes it with all its data when
// hard is set.
func (m *HabitManager) DeleteHabit(id int64, hard bool) error {
	if hard {
		if err := m.store.DeleteHabit(id); err != nil {
			return err
		}
		logger.Info("Deleted habit", "id", id)
		return nil
	}
	if err := m.store.DeactivateHabit(id); err != nil {
		return err
	}
	logger.Info("Archived habit", "id", id)
	return nil
}

func (m *HabitManager) resolveDay(date string) (time.Time, string, error) {
	now := m.now()
	if date == "" {
		return now, utils.FormatDate(now), nil
	}
	d, err := utils.ParseDate(date, now.Location())
	if err != nil {
		return time.Time{}, "", apperrors.Invalid("invalid date %q", date)
	}
	if d.After(utils.DateOnly(now)) {
		return time.Time{}, "", apperrors.Invalid("cannot check in on a future date %s", date)
	}
	return now, utils.FormatDate(d), nil
}

// CheckIn marks the habit completed for date (today when empty), waters its
// plant and unlocks any streak achievements newly reached.
func (m *HabitManager) CheckIn(habitID int64, notes, date string) (CheckInResult, error) {
	h, err := m.store.GetHabit(habitID)
	if err != nil {
		return CheckInResult{}, err
	}
	now, day, err := m.resolveDay(date)
	if err != nil {
		return CheckInResult{}, err
	}

	rec, err := m.store.GetRecord(habitID, day)
	if err == nil && rec.Completed {
		return CheckInResult{}, fmt.Errorf("habit %q on %s: %w", h.Name, day, apperrors.ErrAlreadyCompleted)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return CheckInResult{}, err
	}

	completedAt := now
	h, plant, err := m.store.CheckIn(models.HabitRecord{
		HabitID:          habitID,
		RecordDate:       day,
		Completed:        true,
		CompletedTime:    &completedAt,
		Notes:            notes,
		PlantGrowthStage: h.CurrentStreak + 1,
	}, now, func(s *models.GardenState) bool {
		*s = garden.Water(*s, now)
		return true
	})
	if err != nil {
		return CheckInResult{}, fmt.Errorf("failed to record check-in: %w", err)
	}

	var reached []constants.AchievementType
	for _, t := range constants.StreakLadder {
		info, _ := constants.LookupAchievement(t)
		if h.CurrentStreak >= info.Requirement {
			reached = append(reached, t)
		}
	}
	unlocked, err := m.unlock(h.UserID, reached...)
	if err != nil {
		logger.Warn("Failed to unlock streak achievements", "habit", habitID, "error", err)
	}

	logger.Info("Checked in", "habit", habitID, "date", day, "streak", h.CurrentStreak)
	return CheckInResult{
		Habit:          h,
		CurrentStreak:  h.CurrentStreak,
		TotalCompleted: h.TotalCompleted,
		Plant:          plant,
		Unlocked:       unlocked,
	}, nil
}

// UndoCheckIn clears the completion for date (today when empty).
func (m *HabitManager) UndoCheckIn(habitID int64, date string) (models.Habit, error) {
	now, day, err := m.resolveDay(date)
	if err != nil {
		return models.Habit{}, err
	}
	h, err := m.store.UncompleteRecord(habitID, day, now)
	if err != nil {
		return models.Habit{}, err
	}
	logger.Info("Undid check-in", "habit", habitID, "date", day)
	return h, nil
}

// TodayStatus lists active habits with today's completion and plant state.
func (m *HabitManager) TodayStatus(userID int64) ([]TodayItem, error) {
	habits, err := m.store.GetHabits(userID, true)
	if err != nil {
		return nil, err
	}
	day := utils.FormatDate(m.now())
	records, err := m.store.GetRecordsForUser(userID, day, day)
	if err != nil {
		return nil, err
	}
	states, err := m.store.GetGardenStates(userID)
	if err != nil {
		return nil, err
	}

	recByHabit := make(map[int64]models.HabitRecord, len(records))
	for _, r := range records {
		recByHabit[r.HabitID] = r
	}
	stateByHabit := make(map[int64]models.GardenState, len(states))
	for _, s := range states {
		stateByHabit[s.HabitID] = s
	}

	items := make([]TodayItem, 0, len(habits))
	for _, h := range habits {
		item := TodayItem{Habit: h, Stage: constants.MinStage, PlantHealth: constants.InitialPlantHealth}
		if r, ok := recByHabit[h.ID]; ok {
			item.CompletedToday = r.Completed
			item.CompletedTime = r.CompletedTime
			item.Notes = r.Notes
		}
		if s, ok := stateByHabit[h.ID]; ok {
			item.Stage = s.Stage
			item.PlantHealth = s.PlantHealth
		}
		items = append(items, item)
	}
	return items, nil
}

// History returns the last days of a habit ending today, oldest first.
func (m *HabitManager) History(habitID int64, days int) ([]HistoryDay, error) {
	if days <= 0 {
		days = 30
	}
	if _, err := m.store.GetHabit(habitID); err != nil {
		return nil, err
	}
	today := utils.DateOnly(m.now())
	start := today.AddDate(0, 0, -(days - 1))
	records, err := m.store.GetRecordsForHabit(habitID, utils.FormatDate(start), utils.FormatDate(today))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]models.HabitRecord, len(records))
	for _, r := range records {
		byDay[r.RecordDate] = r
	}
	out := make([]HistoryDay, 0, days)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := utils.FormatDate(d)
		r := byDay[key]
		out = append(out, HistoryDay{Date: key, Completed: r.Completed, Notes: r.Notes})
	}
	return out, nil
}

// CompletionStats returns a habit's calendar and completion rate for a month.
func (m *HabitManager) CompletionStats(habitID int64, year int, month time.Month) (MonthStats, error) {
	h, err := m.store.GetHabit(habitID)
	if err != nil {
		return MonthStats{}, err
	}
	total := utils.DaysInMonth(year, month)
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, total, 0, 0, 0, 0, time.UTC)
	records, err := m.store.GetRecordsForHabit(habitID, utils.FormatDate(start), utils.FormatDate(end))
	if err != nil {
		return MonthStats{}, err
	}

	st := MonthStats{
		HabitID:       habitID,
		Year:          year,
		Month:         month,
		Calendar:      make(map[int]bool, len(records)),
		TotalDays:     total,
		CurrentStreak: h.CurrentStreak,
		LongestStreak: h.LongestStreak,
	}
	for _, r := range records {
		d, err := utils.ParseDate(r.RecordDate, time.UTC)
		if err != nil {
			continue
		}
		st.Calendar[d.Day()] = r.Completed
		if r.Completed {
			st.CompletedCount++
		}
	}
	st.CompletionRate = Round1(float64(st.CompletedCount) * 100 / float64(total))
	return st, nil
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
