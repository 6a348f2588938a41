package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	DayCompleted = "completed"
	DayMissed    = "missed"

	trendWindow = 7
)

type OverviewStats struct {
	TotalHabits          int     `json:"total_habits"`
	TotalCompletions     int     `json:"total_completions"`
	CurrentMaxStreak     int     `json:"current_max_streak"`
	LongestStreak        int     `json:"longest_streak"`
	CompletedToday       int     `json:"completed_today"`
	HabitsToday          int     `json:"habits_today"`
	TodayRate            float64 `json:"today_rate"`
	MonthlyRate          float64 `json:"monthly_rate"`
	UnlockedAchievements int     `json:"unlocked_achievements"`
	TotalAchievements    int     `json:"total_achievements"`
}

// DayStat is the completion count of one day across all active habits
type DayStat struct {
	Date      string  `json:"date"`
	Weekday   string  `json:"weekday"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

type WeekStats struct {
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Days           []DayStat `json:"days"`
	TotalCompleted int       `json:"total_completed"`
	TotalExpected  int       `json:"total_expected"`
	Rate           float64   `json:"rate"`
}

type MonthStats struct {
	Year                int        `json:"year"`
	Month               time.Month `json:"month"`
	TotalCompleted      int        `json:"total_completed"`
	ExpectedCompletions int        `json:"expected_completions"`
	CompletionRate      float64    `json:"completion_rate"`
	LongestStreak       int        `json:"longest_streak"`
	CurrentStreak       int        `json:"current_streak"`
	Days                []DayStat  `json:"days"`
	Trend               string     `json:"trend"`
}

type RankEntry struct {
	Rank           int    `json:"rank"`
	HabitID        int64  `json:"habit_id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	TotalCompleted int    `json:"total_completed"`
}

type CategoryStat struct {
	Category       constants.Category `json:"category"`
	Name           string             `json:"name"`
	Icon           string             `json:"icon"`
	Habits         int                `json:"habits"`
	TotalCompleted int                `json:"total_completed"`
	AvgStreak      float64            `json:"avg_streak"`
}

// AchievementStatus pairs a catalog entry with its unlock state
type AchievementStatus struct {
	constants.AchievementInfo
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Service computes statistics by re-reading records for the requested range
type Service struct {
	store storage.Provider
	now   utils.Clock
}

func NewService(store storage.Provider, now utils.Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func rate(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(done) * 100 / float64(total))
}

// activeRecords returns the records in [start, end] that belong to active
// habits. Archived habits are outside every total.
func (s *Service) activeRecords(userID int64, start, end time.Time) ([]models.HabitRecord, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	active := make(map[int64]bool, len(habits))
	for _, h := range habits {
		active[h.ID] = true
	}
	records, err := s.store.GetRecordsForUser(userID, utils.FormatDate(start), utils.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	kept := records[:0]
	for _, r := range records {
		if active[r.HabitID] {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// completionsByDay counts completed records of active habits per date in [start, end].
func (s *Service) completionsByDay(userID int64, start, end time.Time) (map[string]int, int, error) {
	records, err := s.activeRecords(userID, start, end)
	if err != nil {
		return nil, 0, err
	}
	byDay := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.Completed {
			byDay[r.RecordDate]++
			total++
		}
	}
	return byDay, total, nil
}

func (s *Service) dayStats(byDay map[string]int, habits int, start, end time.Time) []DayStat {
	var days []DayStat
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := utils.FormatDate(d)
		days = append(days, DayStat{
			Date:      key,
			Weekday:   d.Weekday().String()[:3],
			Completed: byDay[key],
			Total:     habits,
			Rate:      rate(byDay[key], habits),
		})
	}
	return days
}

// Overview returns garden-wide totals.
func (s *Service) Overview(userID int64) (OverviewStats, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return OverviewStats{}, fmt.Errorf("failed to load habits: %w", err)
	}
	ov := OverviewStats{TotalHabits: len(habits), HabitsToday: len(habits)}
	for _, h := range habits {
		ov.TotalCompletions += h.TotalCompleted
		ov.CurrentMaxStreak = max(ov.CurrentMaxStreak, h.CurrentStreak)
		ov.LongestStreak = max(ov.LongestStreak, h.LongestStreak)
	}

	today := utils.DateOnly(s.now())
	byDay, _, err := s.completionsByDay(userID, today, today)
	if err != nil {
		return OverviewStats{}, err
	}
	ov.CompletedToday = byDay[utils.FormatDate(today)]
	ov.TodayRate = rate(ov.CompletedToday, ov.HabitsToday)

	month, err := s.Monthly(userID, today.Year(), today.Month())
	if err != nil {
		return OverviewStats{}, err
	}
	ov.MonthlyRate = month.CompletionRate

	achievements, err := s.store.GetAchievements(userID)
	if err != nil {
		return OverviewStats{}, fmt.Errorf("failed to load achievements: %w", err)
	}
	ov.TotalAchievements = len(constants.AchievementCatalog)
	for _, a := range achievements {
		if a.Unlocked() {
			ov.UnlockedAchievements++
		}
	}
	return ov, nil
}

// Weekly returns per-day stats for the Monday-based week weeksAgo weeks back.
func (s *Service) Weekly(userID int64, weeksAgo int) (WeekStats, error) {
	if weeksAgo < 0 {
		weeksAgo = 0
	}
	start := utils.StartOfWeek(s.now()).AddDate(0, 0, -7*weeksAgo)
	end := start.AddDate(0, 0, 6)

	n, err := s.store.CountActiveHabits(userID)
	if err != nil {
		return WeekStats{}, fmt.Errorf("failed to count habits: %w", err)
	}
	byDay, total, err := s.completionsByDay(userID, start, end)
	if err != nil {
		return WeekStats{}, err
	}

	ws := WeekStats{
		StartDate:      utils.FormatDate(start),
		EndDate:        utils.FormatDate(end),
		Days:           s.dayStats(byDay, n, start, end),
		TotalCompleted: total,
		TotalExpected:  n * 7,
	}
	ws.Rate = rate(ws.TotalCompleted, ws.TotalExpected)
	return ws, nil
}

// Monthly returns month totals and per-day stats up to today. The trend
// compares completions of the first and last seven reported days.
func (s *Service) Monthly(userID int64, year int, month time.Month) (MonthStats, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return MonthStats{}, fmt.Errorf("failed to load habits: %w", err)
	}
	today := utils.DateOnly(s.now())
	days := utils.DaysInMonth(year, month)
	start := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	end := time.Date(year, month, days, 0, 0, 0, 0, today.Location())

	byDay, total, err := s.completionsByDay(userID, start, end)
	if err != nil {
		return MonthStats{}, err
	}

	ms := MonthStats{
		Year:                year,
		Month:               month,
		TotalCompleted:      total,
		ExpectedCompletions: len(habits) * days,
		Trend:               TrendStable,
	}
	ms.CompletionRate = rate(ms.TotalCompleted, ms.ExpectedCompletions)
	for _, h := range habits {
		ms.LongestStreak = max(ms.LongestStreak, h.LongestStreak)
		ms.CurrentStreak = max(ms.CurrentStreak, h.CurrentStreak)
	}

	last := end
	if today.Before(last) {
		last = today
	}
	if !last.Before(start) {
		ms.Days = s.dayStats(byDay, len(habits), start, last)
	}
	ms.Trend = trend(ms.Days)
	return ms, nil
}

func trend(days []DayStat) string {
	if len(days) < 2*trendWindow {
		return TrendStable
	}
	first, last := 0, 0
	for _, d := range days[:trendWindow] {
		first += d.Completed
	}
	for _, d := range days[len(days)-trendWindow:] {
		last += d.Completed
	}
	switch {
	case last > first:
		return TrendUp
	case last < first:
		return TrendDown
	default:
		return TrendStable
	}
}

// Ranking orders active habits by current streak, then longest streak, then
// total completions.
func (s *Service) Ranking(userID int64) ([]RankEntry, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	sort.SliceStable(habits, func(i, j int) bool {
		a, b := habits[i], habits[j]
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if a.LongestStreak != b.LongestStreak {
			return a.LongestStreak > b.LongestStreak
		}
		return a.TotalCompleted > b.TotalCompleted
	})

	out := make([]RankEntry, 0, len(habits))
	for i, h := range habits {
		out = append(out, RankEntry{
			Rank:           i + 1,
			HabitID:        h.ID,
			Name:           h.Name,
			Icon:           h.Icon,
			CurrentStreak:  h.CurrentStreak,
			LongestStreak:  h.LongestStreak,
			TotalCompleted: h.TotalCompleted,
		})
	}
	return out, nil
}

// CategoryStats aggregates active habits per category. Empty categories are
// omitted.
func (s *Service) CategoryStats(userID int64) ([]CategoryStat, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	acc := make(map[constants.Category]*CategoryStat)
	streaks := make(map[constants.Category]int)
	for _, h := range habits {
		c, ok := acc[h.Category]
		if !ok {
			info := constants.Categories[h.Category]
			c = &CategoryStat{Category: h.Category, Name: info.Name, Icon: info.Icon}
			acc[h.Category] = c
		}
		c.Habits++
		c.TotalCompleted += h.TotalCompleted
		streaks[h.Category] += h.CurrentStreak
	}

	var out []CategoryStat
	for _, cat := range constants.CategoryOrder {
		c, ok := acc[cat]
		if !ok {
			continue
		}
		c.AvgStreak = round1(float64(streaks[cat]) / float64(c.Habits))
		out = append(out, *c)
	}
	return out, nil
}

// StreakCalendar marks each day of the month up to today as completed or
// missed. Future days are left out.
func (s *Service) StreakCalendar(habitID int64, year int, month time.Month) (map[int]string, error) {
	if _, err := s.store.GetHabit(habitID); err != nil {
		return nil, err
	}
	today := utils.DateOnly(s.now())
	days := utils.DaysInMonth(year, month)
	start := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	end := time.Date(year, month, days, 0, 0, 0, 0, today.Location())

	records, err := s.store.GetRecordsForHabit(habitID, utils.FormatDate(start), utils.FormatDate(end))
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.RecordDate] = r.Completed
	}

	cal := make(map[int]string, days)
	for d := start; !d.After(end) && !d.After(today); d = d.AddDate(0, 0, 1) {
		if done[utils.FormatDate(d)] {
			cal[d.Day()] = DayCompleted
		} else {
			cal[d.Day()] = DayMissed
		}
	}
	return cal, nil
}

// Achievements lists the full catalog with the user's unlock state.
func (s *Service) Achievements(userID int64) ([]AchievementStatus, error) {
	stored, err := s.store.GetAchievements(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	byType := make(map[constants.AchievementType]models.Achievement, len(stored))
	for _, a := range stored {
		byType[a.Type] = a
	}

	out := make([]AchievementStatus, 0, len(constants.AchievementCatalog))
	for _, info := range constants.AchievementCatalog {
		st := AchievementStatus{AchievementInfo: info}
		if a, ok := byType[info.Type]; ok && a.Unlocked() {
			st.Unlocked = true
			st.UnlockedAt = a.UnlockedAt
		}
		out = append(out, st)
	}
	return out, nil
}

// CheckAndUnlockAchievements evaluates every catalog rule and unlocks the
// ones met. It returns only achievements unlocked by this call.
func (s *Service) CheckAndUnlockAchievements(userID int64) ([]constants.AchievementInfo, error) {
	habits, err := s.store.GetHabits(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	var candidates []constants.AchievementType
	maxStreak := 0
	for _, h := range habits {
		maxStreak = max(maxStreak, h.CurrentStreak)
	}
	for _, t := range constants.StreakLadder {
		info, _ := constants.LookupAchievement(t)
		if maxStreak >= info.Requirement {
			candidates = append(candidates, t)
		}
	}
	if len(habits) >= constants.HabitMasterCount {
		candidates = append(candidates, constants.AchievementHabitMaster)
	}

	perfect, err := s.perfectWeek(userID, len(habits))
	if err != nil {
		return nil, err
	}
	if perfect {
		candidates = append(candidates, constants.AchievementPerfectWeek)
	}

	early, err := s.earlyBird(userID)
	if err != nil {
		return nil, err
	}
	if early {
		candidates = append(candidates, constants.AchievementEarlyBird)
	}

	var unlocked []constants.AchievementInfo
	now := s.now()
	for _, t := range candidates {
		ok, err := s.store.UnlockAchievement(userID, t, now)
		if err != nil {
			return unlocked, fmt.Errorf("failed to unlock %s: %w", t, err)
		}
		if ok {
			info, _ := constants.LookupAchievement(t)
			logger.Info("Achievement unlocked", "type", t)
			unlocked = append(unlocked, info)
		}
	}
	return unlocked, nil
}

// perfectWeek reports whether every active habit was completed on each day of
// the previous Monday-based week.
func (s *Service) perfectWeek(userID int64, habits int) (bool, error) {
	if habits == 0 {
		return false, nil
	}
	start := utils.StartOfWeek(s.now()).AddDate(0, 0, -7)
	end := start.AddDate(0, 0, 6)
	byDay, _, err := s.completionsByDay(userID, start, end)
	if err != nil {
		return false, err
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if byDay[utils.FormatDate(d)] < habits {
			return false, nil
		}
	}
	return true, nil
}

// earlyBird reports whether each of the last seven days up to today has a
// completion logged before the cutoff time.
func (s *Service) earlyBird(userID int64) (bool, error) {
	now := s.now()
	today := utils.DateOnly(now)
	start := today.AddDate(0, 0, -(constants.EarlyBirdDays - 1))
	cutoff, err := utils.ParseTime(constants.EarlyBirdCutoff)
	if err != nil {
		return false, err
	}
	cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()

	records, err := s.activeRecords(userID, start, today)
	if err != nil {
		return false, err
	}
	early := make(map[string]bool)
	for _, r := range records {
		if !r.Completed || r.CompletedTime == nil {
			continue
		}
		t := r.CompletedTime.In(now.Location())
		if t.Hour()*60+t.Minute() < cutoffMinutes {
			early[r.RecordDate] = true
		}
	}
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		if !early[utils.FormatDate(d)] {
			return false, nil
		}
	}
	return true, nil
}
