package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
)

func setupTestStore(t *testing.T) (storage.Provider, func()) {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) nextDay() { c.t = c.t.AddDate(0, 0, 1) }

var start = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

func newManager(t *testing.T) (*HabitManager, storage.Provider, *fakeClock, func()) {
	t.Helper()
	store, cleanup := setupTestStore(t)
	clock := &fakeClock{t: start}
	return NewHabitManager(store, clock.Now), store, clock, cleanup
}

func mustCreate(t *testing.T, m *HabitManager, name string) models.Habit {
	t.Helper()
	h, _, err := m.CreateHabit(models.Habit{Name: name})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func TestCreateHabit(t *testing.T) {
	m, store, _, cleanup := newManager(t)
	defer cleanup()

	h, _, err := m.CreateHabit(models.Habit{
		Name:            "  Read  ",
		Category:        "bogus",
		PlantType:       "weed",
		TargetFrequency: 12,
		Difficulty:      0,
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.Name != "Read" {
		t.Errorf("Name = %q, want trimmed", h.Name)
	}
	if h.Category != constants.CategoryLife || h.PlantType != constants.PlantFlower {
		t.Errorf("fallbacks not applied: %s/%s", h.Category, h.PlantType)
	}
	if h.TargetFrequency != 7 || h.Difficulty != 1 {
		t.Errorf("clamping not applied: freq=%d diff=%d", h.TargetFrequency, h.Difficulty)
	}

	plant, err := store.GetGardenState(h.ID)
	if err != nil {
		t.Fatalf("GetGardenState failed: %v", err)
	}
	if plant.PlantGrowth != 0 || plant.PlantHealth != 100 || plant.Stage != 1 {
		t.Errorf("unexpected initial plant %+v", plant)
	}

	if _, _, err := m.CreateHabit(models.Habit{Name: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("blank name error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateHabitUnlocksHabitMaster(t *testing.T) {
	m, _, _, cleanup := newManager(t)
	defer cleanup()

	for i, name := range []string{"a", "b", "c", "d"} {
		if _, unlocked, err := m.CreateHabit(models.Habit{Name: name}); err != nil || len(unlocked) != 0 {
			t.Fatalf("habit %d: unlocked=%v err=%v", i, unlocked, err)
		}
	}
	_, unlocked, err := m.CreateHabit(models.Habit{Name: "e"})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].Type != constants.AchievementHabitMaster {
		t.Fatalf("unlocked = %+v, want habit_master", unlocked)
	}
	_, unlocked, _ = m.CreateHabit(models.Habit{Name: "f"})
	if len(unlocked) != 0 {
		t.Errorf("habit_master unlocked twice: %+v", unlocked)
	}
}

func TestRestoringHabitUnlocksHabitMaster(t *testing.T) {
	m, store, _, cleanup := newManager(t)
	defer cleanup()

	var archived models.Habit
	for _, name := range []string{"a", "b", "c", "d"} {
		archived = mustCreate(t, m, name)
	}
	if err := m.DeleteHabit(archived.ID, false); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, unlocked, err := m.CreateHabit(models.Habit{Name: "e"}); err != nil || len(unlocked) != 0 {
		t.Fatalf("fourth active habit: unlocked=%v err=%v", unlocked, err)
	}

	active := true
	if _, err := m.UpdateHabit(archived.ID, models.HabitPatch{IsActive: &active}); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	achievements, err := store.GetAchievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("GetAchievements failed: %v", err)
	}
	for _, a := range achievements {
		if a.Type == constants.AchievementHabitMaster && !a.Unlocked() {
			t.Errorf("habit_master still locked after restoring the fifth habit")
		}
	}
}

func TestCheckIn(t *testing.T) {
	m, store, _, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Run")
	res, err := m.CheckIn(h.ID, "felt good", "")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if res.CurrentStreak != 1 || res.TotalCompleted != 1 {
		t.Errorf("streak=%d total=%d, want 1/1", res.CurrentStreak, res.TotalCompleted)
	}
	if res.Plant.PlantGrowth != 5 || res.Plant.PlantHealth != 100 || res.Plant.LastWatered != "2024-06-03" {
		t.Errorf("plant not watered: %+v", res.Plant)
	}

	rec, err := store.GetRecord(h.ID, "2024-06-03")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !rec.Completed || rec.Notes != "felt good" || rec.PlantGrowthStage != 1 || rec.CompletedTime == nil {
		t.Errorf("unexpected record %+v", rec)
	}

	_, err = m.CheckIn(h.ID, "", "")
	if !errors.Is(err, apperrors.ErrAlreadyCompleted) {
		t.Fatalf("second CheckIn error = %v, want ErrAlreadyCompleted", err)
	}
	got, _ := store.GetHabit(h.ID)
	if got.TotalCompleted != 1 {
		t.Errorf("TotalCompleted = %d after duplicate, want 1", got.TotalCompleted)
	}
	plant, _ := store.GetGardenState(h.ID)
	if plant.PlantGrowth != 5 {
		t.Errorf("duplicate check-in watered plant: growth=%d", plant.PlantGrowth)
	}
}

func TestCheckInErrors(t *testing.T) {
	m, _, _, cleanup := newManager(t)
	defer cleanup()

	if _, err := m.CheckIn(999, "", ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing habit error = %v, want ErrNotFound", err)
	}
	h := mustCreate(t, m, "Run")
	tests := []struct {
		name string
		date string
	}{
		{"garbage", "yesterday"},
		{"future", "2024-06-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.CheckIn(h.ID, "", tt.date); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestStreakUnlocksOnce(t *testing.T) {
	m, store, clock, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Meditate")
	var unlocks []constants.AchievementType
	for day := 1; day <= 8; day++ {
		res, err := m.CheckIn(h.ID, "", "")
		if err != nil {
			t.Fatalf("day %d: CheckIn failed: %v", day, err)
		}
		if res.CurrentStreak != day {
			t.Fatalf("day %d: streak = %d", day, res.CurrentStreak)
		}
		for _, a := range res.Unlocked {
			unlocks = append(unlocks, a.Type)
		}
		clock.nextDay()
	}
	if len(unlocks) != 1 || unlocks[0] != constants.AchievementStreak7 {
		t.Fatalf("unlocks = %v, want only streak_7", unlocks)
	}

	achievements, err := store.GetAchievements(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("GetAchievements failed: %v", err)
	}
	for _, a := range achievements {
		if a.Type == constants.AchievementStreak7 && !a.Unlocked() {
			t.Error("streak_7 not persisted as unlocked")
		}
		if a.Type == constants.AchievementStreak21 && a.Unlocked() {
			t.Error("streak_21 unlocked too early")
		}
	}

	plant, _ := store.GetGardenState(h.ID)
	if plant.PlantGrowth != 40 || plant.Stage != 3 {
		t.Errorf("after 8 waterings plant = %+v, want growth 40 stage 3", plant)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	m, _, clock, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Stretch")
	for i := 0; i < 3; i++ {
		if _, err := m.CheckIn(h.ID, "", ""); err != nil {
			t.Fatalf("CheckIn failed: %v", err)
		}
		clock.nextDay()
	}
	clock.nextDay()
	res, err := m.CheckIn(h.ID, "", "")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if res.CurrentStreak != 1 || res.Habit.LongestStreak != 3 || res.TotalCompleted != 4 {
		t.Errorf("got streak=%d longest=%d total=%d, want 1/3/4",
			res.CurrentStreak, res.Habit.LongestStreak, res.TotalCompleted)
	}
}

func TestUndoCheckIn(t *testing.T) {
	m, _, clock, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Journal")
	m.CheckIn(h.ID, "", "")
	clock.nextDay()
	m.CheckIn(h.ID, "", "")

	got, err := m.UndoCheckIn(h.ID, "")
	if err != nil {
		t.Fatalf("UndoCheckIn failed: %v", err)
	}
	if got.CurrentStreak != 1 || got.LongestStreak != 2 || got.TotalCompleted != 1 {
		t.Errorf("after undo streak=%d longest=%d total=%d, want 1/2/1",
			got.CurrentStreak, got.LongestStreak, got.TotalCompleted)
	}
	if _, err := m.UndoCheckIn(h.ID, ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second undo error = %v, want ErrNotFound", err)
	}
	if _, err := m.CheckIn(h.ID, "", ""); err != nil {
		t.Errorf("check-in after undo failed: %v", err)
	}
}

func TestUpdateAndDeleteHabit(t *testing.T) {
	m, store, _, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Walk")
	if _, err := m.UpdateHabit(h.ID, models.HabitPatch{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("empty patch error = %v, want ErrInvalidInput", err)
	}

	name, cat, diff := "Long walk", "health", 9
	got, err := m.UpdateHabit(h.ID, models.HabitPatch{Name: &name, Category: &cat, Difficulty: &diff})
	if err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	if got.Name != name || got.Category != constants.CategoryHealth || got.Difficulty != 5 {
		t.Errorf("unexpected update result %+v", got)
	}

	if err := m.DeleteHabit(h.ID, false); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	active, _ := m.ListHabits(constants.DefaultUserID, true)
	all, _ := m.ListHabits(constants.DefaultUserID, false)
	if len(active) != 0 || len(all) != 1 {
		t.Errorf("after soft delete active=%d all=%d, want 0/1", len(active), len(all))
	}

	if err := m.DeleteHabit(h.ID, true); err != nil {
		t.Fatalf("hard delete failed: %v", err)
	}
	if _, err := store.GetHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit after hard delete = %v, want ErrNotFound", err)
	}
}

func TestTodayStatusAndHistory(t *testing.T) {
	m, _, clock, cleanup := newManager(t)
	defer cleanup()

	a := mustCreate(t, m, "Run")
	b := mustCreate(t, m, "Read")
	m.CheckIn(a.ID, "", "")
	clock.nextDay()
	m.CheckIn(a.ID, "second", "")

	items, err := m.TodayStatus(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("TodayStatus failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, it := range items {
		switch it.Habit.ID {
		case a.ID:
			if !it.CompletedToday || it.Notes != "second" {
				t.Errorf("habit a: %+v", it)
			}
		case b.ID:
			if it.CompletedToday || it.Stage != 1 || it.PlantHealth != 100 {
				t.Errorf("habit b: %+v", it)
			}
		}
	}

	hist, err := m.History(a.ID, 3)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	want := []HistoryDay{
		{Date: "2024-06-02"},
		{Date: "2024-06-03", Completed: true},
		{Date: "2024-06-04", Completed: true, Notes: "second"},
	}
	if len(hist) != len(want) {
		t.Fatalf("History len = %d, want %d", len(hist), len(want))
	}
	for i := range want {
		if hist[i] != want[i] {
			t.Errorf("History[%d] = %+v, want %+v", i, hist[i], want[i])
		}
	}
}

func TestCompletionStats(t *testing.T) {
	m, _, clock, cleanup := newManager(t)
	defer cleanup()

	h := mustCreate(t, m, "Run")
	for i := 0; i < 3; i++ {
		m.CheckIn(h.ID, "", "")
		clock.nextDay()
	}

	st, err := m.CompletionStats(h.ID, 2024, time.June)
	if err != nil {
		t.Fatalf("CompletionStats failed: %v", err)
	}
	if st.TotalDays != 30 || st.CompletedCount != 3 {
		t.Errorf("total=%d completed=%d, want 30/3", st.TotalDays, st.CompletedCount)
	}
	if st.CompletionRate != 10.0 {
		t.Errorf("CompletionRate = %v, want 10.0", st.CompletionRate)
	}
	if !st.Calendar[3] || !st.Calendar[5] || st.Calendar[6] {
		t.Errorf("unexpected calendar %v", st.Calendar)
	}
	if st.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", st.LongestStreak)
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{33.333, 33.3},
		{66.666, 66.7},
		{0, 0},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
