package reminder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/notifier"
	"github.com/julianstephens/habitbloom/internal/storage"
)

// Monday
var monday = time.Date(2024, 6, 3, 7, 30, 0, 0, time.UTC)

func setupTestStore(t *testing.T) (storage.Provider, func()) {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

func addHabit(t *testing.T, store storage.Provider, name string) models.Habit {
	t.Helper()
	h, err := store.CreateHabit(models.Habit{
		UserID: constants.DefaultUserID, Name: name, Category: constants.CategoryHealth, Icon: "🏃",
		PlantType: constants.PlantTree, TargetFrequency: 7, Difficulty: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestCreateReminder(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)
	h := addHabit(t, store, "Run")

	r, err := m.Create(h.ID, "07:30", []int{5, 1, 3, 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.ID == 0 || !r.IsActive || r.DaysOfWeek != "1,3,5" {
		t.Errorf("unexpected reminder %+v", r)
	}
	if _, err := uuid.Parse(r.NotificationID); err != nil {
		t.Errorf("NotificationID %q is not a uuid", r.NotificationID)
	}

	every, err := m.Create(h.ID, "20:00", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if every.DaysOfWeek != "1,2,3,4,5,6,7" {
		t.Errorf("default days = %q", every.DaysOfWeek)
	}

	tests := []struct {
		name    string
		habitID int64
		at      string
		days    []int
		want    error
	}{
		{"bad time", h.ID, "25:00", nil, apperrors.ErrInvalidInput},
		{"bad day", h.ID, "08:00", []int{0}, apperrors.ErrInvalidInput},
		{"missing habit", 999, "08:00", nil, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(tt.habitID, tt.at, tt.days); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateToggleDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)
	h := addHabit(t, store, "Run")
	r, _ := m.Create(h.ID, "07:30", nil)

	updated, err := m.Update(r.ID, "06:45", []int{6, 7})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ReminderTime != "06:45" || updated.DaysOfWeek != "6,7" || updated.NotificationID != r.NotificationID {
		t.Errorf("unexpected update %+v", updated)
	}

	toggled, err := m.Toggle(r.ID)
	if err != nil || toggled.IsActive {
		t.Fatalf("Toggle = %+v, %v", toggled, err)
	}
	stored, _ := m.Get(r.ID)
	if stored.IsActive {
		t.Error("toggle not persisted")
	}

	if err := m.Delete(r.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(r.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestNextFor(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	c := &clock{monday}
	m := NewManager(store, c.Now)
	h := addHabit(t, store, "Run")

	if _, err := m.NextFor(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("no reminders error = %v", err)
	}

	m.Create(h.ID, "07:00", nil)      // already passed today
	m.Create(h.ID, "21:00", []int{3}) // Wednesday only
	paused, _ := m.Create(h.ID, "08:00", nil)
	m.Toggle(paused.ID)

	next, err := m.NextFor(h.ID)
	if err != nil {
		t.Fatalf("NextFor failed: %v", err)
	}
	want := time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC)
	if !next.At.Equal(want) {
		t.Errorf("next = %v, want %v", next.At, want)
	}

	m.Create(h.ID, "07:30", nil)
	next, _ = m.NextFor(h.ID)
	if !next.At.Equal(monday) {
		t.Errorf("reminder due this minute not chosen: %v", next.At)
	}
}

func TestDue(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)
	run := addHabit(t, store, "Run")
	read := addHabit(t, store, "Read")
	swim := addHabit(t, store, "Swim")

	m.Create(run.ID, "07:30", []int{1})
	m.Create(read.ID, "07:30", []int{2})
	m.Create(swim.ID, "07:30", nil)
	m.Create(run.ID, "07:31", nil)

	if _, err := store.CompleteRecord(models.HabitRecord{HabitID: swim.ID, RecordDate: "2024-06-03"}, monday); err != nil {
		t.Fatalf("CompleteRecord failed: %v", err)
	}

	due, err := m.Due(monday)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 1 || due[0].Reminder.HabitID != run.ID || due[0].HabitName != "Run" {
		t.Errorf("due = %+v, want only Run", due)
	}

	all, err := m.AllScheduled()
	if err != nil {
		t.Fatalf("AllScheduled failed: %v", err)
	}
	if len(all) != 4 || all[3].Reminder.ReminderTime != "07:31" {
		t.Errorf("unexpected schedule %+v", all)
	}
}

type captureNotifier struct {
	got []notifier.Notification
	err error
}

func (c *captureNotifier) Notify(n notifier.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, n)
	return nil
}

type staticSettings bool

func (s staticSettings) NotificationsEnabled() (bool, error) { return bool(s), nil }

type countingSweeper struct{ calls int }

func (s *countingSweeper) SweepIfDue(int64) (bool, int, error) {
	s.calls++
	return true, 0, nil
}

func TestCheckReminders(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)
	h := addHabit(t, store, "Run")
	r, _ := m.Create(h.ID, "07:30", nil)

	n := &captureNotifier{}
	svc := NewService(m, nil, n, staticSettings(true))

	sent, err := svc.CheckReminders(monday)
	if err != nil || sent != 1 {
		t.Fatalf("CheckReminders = %d, %v", sent, err)
	}
	if n.got[0].ID != r.NotificationID || n.got[0].Title != "🏃 Run" {
		t.Errorf("unexpected notification %+v", n.got[0])
	}

	// Same minute polled again.
	if sent, _ := svc.CheckReminders(monday.Add(20 * time.Second)); sent != 0 {
		t.Errorf("reminder fired twice in one minute")
	}
	if sent, _ := svc.CheckReminders(monday.AddDate(0, 0, 1)); sent != 1 {
		t.Errorf("reminder did not fire next day")
	}

	svc.Settings = staticSettings(false)
	if sent, _ := svc.CheckReminders(monday.AddDate(0, 0, 2)); sent != 0 {
		t.Errorf("reminder fired with notifications disabled")
	}

	svc.Settings = staticSettings(true)
	n.err = notifier.ErrTrayUnavailable
	if sent, err := svc.CheckReminders(monday.AddDate(0, 0, 3)); sent != 0 || err != nil {
		t.Errorf("failed delivery = %d, %v", sent, err)
	}
}

func TestCheckRemindersWithoutNotificationIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)

	// Imported reminders may carry no notification id.
	for _, name := range []string{"Run", "Read"} {
		h := addHabit(t, store, name)
		if _, err := store.AddReminder(models.Reminder{
			HabitID: h.ID, ReminderTime: "07:30", DaysOfWeek: "1,2,3,4,5,6,7", IsActive: true,
		}); err != nil {
			t.Fatalf("AddReminder failed: %v", err)
		}
	}

	n := &captureNotifier{}
	svc := NewService(m, nil, n, staticSettings(true))
	sent, err := svc.CheckReminders(monday)
	if err != nil || sent != 2 {
		t.Fatalf("CheckReminders = %d, %v; want both reminders sent", sent, err)
	}
	if sent, _ := svc.CheckReminders(monday.Add(30 * time.Second)); sent != 0 {
		t.Errorf("reminders fired twice in one minute")
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	m := NewManager(store, (&clock{monday}).Now)
	sweeper := &countingSweeper{}
	svc := NewService(m, sweeper, &captureNotifier{}, StoreSettings{Store: store})
	svc.PollInterval = 5 * time.Millisecond
	svc.SweepInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if sweeper.calls != 1 {
		t.Errorf("sweep calls = %d, want 1 at startup", sweeper.calls)
	}
}
