package reminder

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// Scheduled is an active reminder joined with its habit
type Scheduled struct {
	Reminder  models.Reminder `json:"reminder"`
	HabitName string          `json:"habit_name"`
	HabitIcon string          `json:"habit_icon"`
}

// Next is the upcoming firing of a habit's reminders
type Next struct {
	Reminder models.Reminder `json:"reminder"`
	At       time.Time       `json:"at"`
}

type Manager struct {
	store storage.Provider
	now   utils.Clock
}

func NewManager(store storage.Provider, now utils.Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, now: now}
}

// Create adds an active reminder for the habit at HH:MM on the given ISO
// weekdays. An empty days list means every day.
func (m *Manager) Create(habitID int64, at string, days []int) (models.Reminder, error) {
	if _, err := m.store.GetHabit(habitID); err != nil {
		return models.Reminder{}, err
	}
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5, 6, 7}
	}
	r := models.Reminder{
		HabitID:        habitID,
		ReminderTime:   at,
		DaysOfWeek:     models.FormatDayMask(days),
		IsActive:       true,
		NotificationID: uuid.NewString(),
	}
	if err := r.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	// Normalize ordering and duplicates.
	r.DaysOfWeek = models.FormatDayMask(r.Days())

	created, err := m.store.AddReminder(r)
	if err != nil {
		return models.Reminder{}, err
	}
	logger.Info("Created reminder", "id", created.ID, "habit", habitID, "time", at, "days", created.DaysOfWeek)
	return created, nil
}

func (m *Manager) Get(id int64) (models.Reminder, error) {
	return m.store.GetReminder(id)
}

// List returns the habit's reminders, or all reminders when habitID is 0.
func (m *Manager) List(habitID int64) ([]models.Reminder, error) {
	if habitID == 0 {
		return m.store.GetAllReminders(false)
	}
	return m.store.GetReminders(habitID)
}

// Update changes the time and days of a reminder. Empty values keep the
// current setting.
func (m *Manager) Update(id int64, at string, days []int) (models.Reminder, error) {
	r, err := m.store.GetReminder(id)
	if err != nil {
		return models.Reminder{}, err
	}
	if at != "" {
		r.ReminderTime = at
	}
	if len(days) > 0 {
		r.DaysOfWeek = models.FormatDayMask(days)
	}
	if err := r.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	r.DaysOfWeek = models.FormatDayMask(r.Days())
	if err := m.store.UpdateReminder(r); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

// Toggle flips the reminder between active and paused.
func (m *Manager) Toggle(id int64) (models.Reminder, error) {
	r, err := m.store.GetReminder(id)
	if err != nil {
		return models.Reminder{}, err
	}
	r.IsActive = !r.IsActive
	if err := m.store.UpdateReminder(r); err != nil {
		return models.Reminder{}, err
	}
	logger.Info("Toggled reminder", "id", id, "active", r.IsActive)
	return r, nil
}

func (m *Manager) Delete(id int64) error {
	if err := m.store.DeleteReminder(id); err != nil {
		return err
	}
	logger.Info("Deleted reminder", "id", id)
	return nil
}

// NextFor returns the next time any active reminder of the habit fires,
// searching the coming seven days. A reminder due this very minute counts as
// upcoming.
func (m *Manager) NextFor(habitID int64) (Next, error) {
	reminders, err := m.store.GetReminders(habitID)
	if err != nil {
		return Next{}, err
	}
	now := m.now()
	nowMinute := now.Truncate(time.Minute)

	var best Next
	found := false
	for _, r := range reminders {
		if !r.IsActive {
			continue
		}
		clock, err := utils.ParseTime(r.ReminderTime)
		if err != nil {
			continue
		}
		day := utils.DateOnly(now)
		for i := 0; i <= 7; i++ {
			d := day.AddDate(0, 0, i)
			at := time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location())
			if at.Before(nowMinute) || !r.FiresOn(at) {
				continue
			}
			if !found || at.Before(best.At) {
				best, found = Next{Reminder: r, At: at}, true
			}
			break
		}
	}
	if !found {
		return Next{}, apperrors.NotFound("upcoming reminder for habit", habitID)
	}
	return best, nil
}

// AllScheduled lists active reminders of active habits ordered by time.
func (m *Manager) AllScheduled() ([]Scheduled, error) {
	reminders, err := m.store.GetAllReminders(true)
	if err != nil {
		return nil, err
	}
	habits := make(map[int64]models.Habit)
	out := make([]Scheduled, 0, len(reminders))
	for _, r := range reminders {
		h, ok := habits[r.HabitID]
		if !ok {
			if h, err = m.store.GetHabit(r.HabitID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					continue
				}
				return nil, err
			}
			habits[r.HabitID] = h
		}
		out = append(out, Scheduled{Reminder: r, HabitName: h.Name, HabitIcon: h.Icon})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Reminder.ReminderTime < out[j].Reminder.ReminderTime
	})
	return out, nil
}

// Due returns reminders firing at now's minute on now's weekday whose habit
// has not been completed today.
func (m *Manager) Due(now time.Time) ([]Scheduled, error) {
	all, err := m.AllScheduled()
	if err != nil {
		return nil, err
	}
	hhmm := now.Format(constants.TimeFormat)
	day := utils.FormatDate(now)

	var due []Scheduled
	for _, s := range all {
		if s.Reminder.ReminderTime != hhmm || !s.Reminder.FiresOn(now) {
			continue
		}
		rec, err := m.store.GetRecord(s.Reminder.HabitID, day)
		if err == nil && rec.Completed {
			continue
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		due = append(due, s)
	}
	return due, nil
}
