package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// Wednesday
var now = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) (storage.Provider, func()) {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

func addHabit(t *testing.T, store storage.Provider, name string, category constants.Category) models.Habit {
	t.Helper()
	h, err := store.CreateHabit(models.Habit{
		UserID: constants.DefaultUserID, Name: name, Category: category, Icon: "🌱",
		PlantType: constants.PlantFlower, TargetFrequency: 7, Difficulty: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

// complete checks the habit in on each day from start through end at hh:00.
func complete(t *testing.T, store storage.Provider, habitID int64, start, end string, hour int) {
	t.Helper()
	from, _ := utils.ParseDate(start, time.UTC)
	to, _ := utils.ParseDate(end, time.UTC)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		at := d.Add(time.Duration(hour) * time.Hour)
		rec := models.HabitRecord{HabitID: habitID, RecordDate: utils.FormatDate(d), CompletedTime: &at}
		if _, err := store.CompleteRecord(rec, now); err != nil {
			t.Fatalf("CompleteRecord %s failed: %v", rec.RecordDate, err)
		}
	}
}

func newService(t *testing.T) (*Service, storage.Provider, func()) {
	t.Helper()
	store, cleanup := setupTestStore(t)
	return NewService(store, func() time.Time { return now }), store, cleanup
}

func TestOverview(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	a := addHabit(t, store, "Run", constants.CategoryHealth)
	addHabit(t, store, "Read", constants.CategoryStudy)
	complete(t, store, a.ID, "2024-06-10", "2024-06-12", 9)

	ov, err := svc.Overview(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if ov.TotalHabits != 2 || ov.TotalCompletions != 3 {
		t.Errorf("habits=%d completions=%d, want 2/3", ov.TotalHabits, ov.TotalCompletions)
	}
	if ov.CurrentMaxStreak != 3 || ov.LongestStreak != 3 {
		t.Errorf("streaks current=%d longest=%d, want 3/3", ov.CurrentMaxStreak, ov.LongestStreak)
	}
	if ov.CompletedToday != 1 || ov.TodayRate != 50 {
		t.Errorf("today=%d rate=%v, want 1/50", ov.CompletedToday, ov.TodayRate)
	}
	// 3 of 2*30 expected
	if ov.MonthlyRate != 5 {
		t.Errorf("MonthlyRate = %v, want 5", ov.MonthlyRate)
	}
	if ov.TotalAchievements != len(constants.AchievementCatalog) || ov.UnlockedAchievements != 0 {
		t.Errorf("achievements %d/%d", ov.UnlockedAchievements, ov.TotalAchievements)
	}
}

func TestWeekly(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	a := addHabit(t, store, "Run", constants.CategoryHealth)
	b := addHabit(t, store, "Read", constants.CategoryStudy)
	complete(t, store, a.ID, "2024-06-03", "2024-06-11", 9)
	complete(t, store, b.ID, "2024-06-10", "2024-06-10", 9)

	ws, err := svc.Weekly(constants.DefaultUserID, 0)
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}
	if ws.StartDate != "2024-06-10" || ws.EndDate != "2024-06-16" {
		t.Errorf("range %s..%s", ws.StartDate, ws.EndDate)
	}
	if len(ws.Days) != 7 || ws.Days[0].Weekday != "Mon" {
		t.Fatalf("unexpected days %+v", ws.Days)
	}
	if ws.Days[0].Completed != 2 || ws.Days[0].Rate != 100 || ws.Days[1].Completed != 1 || ws.Days[2].Completed != 0 {
		t.Errorf("per-day counts wrong: %+v", ws.Days[:3])
	}
	if ws.TotalCompleted != 3 || ws.TotalExpected != 14 || ws.Rate != 21.4 {
		t.Errorf("totals %d/%d rate %v", ws.TotalCompleted, ws.TotalExpected, ws.Rate)
	}

	prev, err := svc.Weekly(constants.DefaultUserID, 1)
	if err != nil {
		t.Fatalf("Weekly(1) failed: %v", err)
	}
	if prev.StartDate != "2024-06-03" || prev.TotalCompleted != 7 {
		t.Errorf("previous week %s total %d", prev.StartDate, prev.TotalCompleted)
	}
}

func TestMonthlyTrend(t *testing.T) {
	tests := []struct {
		name      string
		completed [2]string
		want      string
	}{
		{"up", [2]string{"2024-05-20", "2024-05-31"}, TrendUp},
		{"down", [2]string{"2024-05-01", "2024-05-10"}, TrendDown},
		{"stable", [2]string{"2024-05-01", "2024-05-31"}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, cleanup := newService(t)
			defer cleanup()

			h := addHabit(t, store, "Run", constants.CategoryHealth)
			complete(t, store, h.ID, tt.completed[0], tt.completed[1], 9)

			ms, err := svc.Monthly(constants.DefaultUserID, 2024, time.May)
			if err != nil {
				t.Fatalf("Monthly failed: %v", err)
			}
			if len(ms.Days) != 31 || ms.ExpectedCompletions != 31 {
				t.Errorf("days=%d expected=%d, want 31/31", len(ms.Days), ms.ExpectedCompletions)
			}
			if ms.Trend != tt.want {
				t.Errorf("Trend = %s, want %s", ms.Trend, tt.want)
			}
		})
	}
}

func TestMonthlyPartialMonths(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	h := addHabit(t, store, "Run", constants.CategoryHealth)
	complete(t, store, h.ID, "2024-06-10", "2024-06-12", 9)

	current, err := svc.Monthly(constants.DefaultUserID, 2024, time.June)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if len(current.Days) != 12 || current.TotalCompleted != 3 || current.Trend != TrendStable {
		t.Errorf("current month days=%d total=%d trend=%s", len(current.Days), current.TotalCompleted, current.Trend)
	}
	if current.CompletionRate != 10 {
		t.Errorf("CompletionRate = %v, want 10", current.CompletionRate)
	}

	future, err := svc.Monthly(constants.DefaultUserID, 2024, time.July)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if len(future.Days) != 0 || future.Trend != TrendStable || future.TotalCompleted != 0 {
		t.Errorf("future month %+v", future)
	}
}

func TestRankingAndCategories(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	a := addHabit(t, store, "Run", constants.CategoryHealth)
	b := addHabit(t, store, "Read", constants.CategoryStudy)
	c := addHabit(t, store, "Swim", constants.CategoryHealth)
	complete(t, store, a.ID, "2024-06-11", "2024-06-12", 9)
	complete(t, store, b.ID, "2024-06-08", "2024-06-12", 9)
	complete(t, store, c.ID, "2024-06-01", "2024-06-04", 9)

	ranking, err := svc.Ranking(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("Ranking failed: %v", err)
	}
	wantOrder := []int64{b.ID, a.ID, c.ID}
	for i, id := range wantOrder {
		if ranking[i].HabitID != id || ranking[i].Rank != i+1 {
			t.Errorf("ranking[%d] = %+v, want habit %d", i, ranking[i], id)
		}
	}

	cats, err := svc.CategoryStats(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("CategoryStats failed: %v", err)
	}
	if len(cats) != 2 || cats[0].Category != constants.CategoryHealth || cats[1].Category != constants.CategoryStudy {
		t.Fatalf("unexpected categories %+v", cats)
	}
	if cats[0].Habits != 2 || cats[0].TotalCompleted != 6 || cats[0].AvgStreak != 1 {
		t.Errorf("health stats %+v", cats[0])
	}
}

func TestStreakCalendar(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	h := addHabit(t, store, "Run", constants.CategoryHealth)
	complete(t, store, h.ID, "2024-06-10", "2024-06-11", 9)

	cal, err := svc.StreakCalendar(h.ID, 2024, time.June)
	if err != nil {
		t.Fatalf("StreakCalendar failed: %v", err)
	}
	if len(cal) != 12 {
		t.Errorf("len = %d, want 12", len(cal))
	}
	if cal[10] != DayCompleted || cal[11] != DayCompleted || cal[12] != DayMissed || cal[1] != DayMissed {
		t.Errorf("unexpected calendar %v", cal)
	}
	if _, ok := cal[13]; ok {
		t.Error("future day included")
	}
}

func TestCheckAndUnlockAchievements(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	a := addHabit(t, store, "Run", constants.CategoryHealth)
	b := addHabit(t, store, "Read", constants.CategoryStudy)
	// Both habits every day of last week, a carried on at 7am through today.
	complete(t, store, a.ID, "2024-06-03", "2024-06-12", 7)
	complete(t, store, b.ID, "2024-06-03", "2024-06-09", 9)

	unlocked, err := svc.CheckAndUnlockAchievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements failed: %v", err)
	}
	got := make(map[constants.AchievementType]bool)
	for _, u := range unlocked {
		got[u.Type] = true
	}
	for _, want := range []constants.AchievementType{
		constants.AchievementStreak7, constants.AchievementPerfectWeek, constants.AchievementEarlyBird,
	} {
		if !got[want] {
			t.Errorf("%s not unlocked: %v", want, unlocked)
		}
	}
	if got[constants.AchievementStreak21] || got[constants.AchievementHabitMaster] {
		t.Errorf("unexpected unlocks %v", unlocked)
	}

	again, err := svc.CheckAndUnlockAchievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second check unlocked %v", again)
	}

	all, err := svc.Achievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("Achievements failed: %v", err)
	}
	if len(all) != len(constants.AchievementCatalog) {
		t.Fatalf("got %d achievements", len(all))
	}
	unlockedCount := 0
	for _, s := range all {
		if s.Unlocked {
			unlockedCount++
			if s.UnlockedAt == nil {
				t.Errorf("%s unlocked without timestamp", s.Type)
			}
		}
	}
	if unlockedCount != 3 {
		t.Errorf("unlocked = %d, want 3", unlockedCount)
	}
}

func TestArchivedHabitsExcluded(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	run := addHabit(t, store, "Run", constants.CategoryHealth)
	addHabit(t, store, "Read", constants.CategoryStudy)
	complete(t, store, run.ID, "2024-06-03", "2024-06-12", 7)
	if err := store.DeactivateHabit(run.ID); err != nil {
		t.Fatalf("DeactivateHabit failed: %v", err)
	}

	ov, err := svc.Overview(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if ov.HabitsToday != 1 || ov.CompletedToday != 0 || ov.TodayRate != 0 || ov.MonthlyRate != 0 {
		t.Errorf("overview counted archived habit: %+v", ov)
	}

	ws, err := svc.Weekly(constants.DefaultUserID, 0)
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}
	if ws.TotalCompleted != 0 || ws.TotalExpected != 7 || ws.Rate != 0 {
		t.Errorf("weekly totals %d/%d rate %v", ws.TotalCompleted, ws.TotalExpected, ws.Rate)
	}

	ms, err := svc.Monthly(constants.DefaultUserID, 2024, time.June)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if ms.TotalCompleted != 0 {
		t.Errorf("monthly completed = %d, want 0", ms.TotalCompleted)
	}

	unlocked, err := svc.CheckAndUnlockAchievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements failed: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("archived completions unlocked %v", unlocked)
	}
}

func TestEarlyBirdNeedsEveryDay(t *testing.T) {
	svc, store, cleanup := newService(t)
	defer cleanup()

	h := addHabit(t, store, "Run", constants.CategoryHealth)
	complete(t, store, h.ID, "2024-06-06", "2024-06-08", 7)
	complete(t, store, h.ID, "2024-06-09", "2024-06-09", 8)
	complete(t, store, h.ID, "2024-06-10", "2024-06-12", 7)

	ok, err := svc.earlyBird(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("earlyBird failed: %v", err)
	}
	if ok {
		t.Error("early_bird met with an 08:00 check-in in the window")
	}
}
