package storage

import (
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage/sqlite"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Users
	GetUser(id int64) (models.User, error)
	UpdateUser(models.User) error
	TouchLogin(id int64, at time.Time) error

	// Habits
	// CreateHabit inserts the habit and its garden plant together and returns
	// the stored habit.
	CreateHabit(models.Habit) (models.Habit, error)
	GetHabit(id int64) (models.Habit, error)
	GetHabits(userID int64, activeOnly bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeactivateHabit(id int64) error
	DeleteHabit(id int64) error
	CountActiveHabits(userID int64) (int, error)

	// Habit Records
	GetRecord(habitID int64, date string) (models.HabitRecord, error)
	// CompleteRecord upserts a completed record and recomputes the habit's
	// streak counters from its full history in one transaction.
	CompleteRecord(rec models.HabitRecord, today time.Time) (models.Habit, error)
	// CheckIn completes the record and passes the habit's plant to water,
	// committing both or neither.
	CheckIn(rec models.HabitRecord, today time.Time, water func(*models.GardenState) bool) (models.Habit, models.GardenState, error)
	// UncompleteRecord clears a completion and recomputes the counters.
	UncompleteRecord(habitID int64, date string, today time.Time) (models.Habit, error)
	GetRecordsForHabit(habitID int64, startDay, endDay string) ([]models.HabitRecord, error)
	GetRecordsForUser(userID int64, startDay, endDay string) ([]models.HabitRecord, error)
	GetCompletedDates(habitID int64) ([]string, error)

	// Garden
	GetGardenState(habitID int64) (models.GardenState, error)
	GetGardenStates(userID int64) ([]models.GardenState, error)
	// UpdateGardenState loads the plant, passes it to fn and saves it when fn
	// reports a change, all inside one transaction.
	UpdateGardenState(habitID int64, fn func(*models.GardenState) bool) (models.GardenState, error)

	// Reminders
	AddReminder(models.Reminder) (models.Reminder, error)
	GetReminder(id int64) (models.Reminder, error)
	GetReminders(habitID int64) ([]models.Reminder, error)
	GetAllReminders(activeOnly bool) ([]models.Reminder, error)
	UpdateReminder(models.Reminder) error
	DeleteReminder(id int64) error

	// Achievements
	GetAchievements(userID int64) ([]models.Achievement, error)
	// UnlockAchievement sets unlocked_at once; it reports whether this call
	// performed the unlock.
	UnlockAchievement(userID int64, t constants.AchievementType, at time.Time) (bool, error)

	// Bulk
	ExportAll() (models.ExportData, error)
	ImportAll(models.ExportData) error

	// Utils
	GetConfigPath() string
}

var _ Provider = (*sqlite.Store)(nil)

// New returns the SQLite-backed provider for the database at path.
func New(path string) Provider {
	return sqlite.NewStore(path)
}
