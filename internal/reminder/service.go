package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/notifier"
)

// Sweeper runs the daily garden health decay
type Sweeper interface {
	SweepIfDue(userID int64) (bool, int, error)
}

// SettingsSource reports whether notifications are enabled
type SettingsSource interface {
	NotificationsEnabled() (bool, error)
}

// StoreSettings reads the notification flag from the settings table
type StoreSettings struct {
	Store interface {
		GetSettings() (models.Settings, error)
	}
}

func (s StoreSettings) NotificationsEnabled() (bool, error) {
	settings, err := s.Store.GetSettings()
	if err != nil {
		return false, err
	}
	return settings.NotificationsEnabled, nil
}

// Service drives reminder delivery and the garden decay sweep from a single
// goroutine.
type Service struct {
	Reminders     *Manager
	Sweeper       Sweeper
	Notifier      notifier.Notifier
	Settings      SettingsSource
	UserID        int64
	PollInterval  time.Duration
	SweepInterval time.Duration
	firedMinute   string
	fired         map[int64]bool
}

func NewService(reminders *Manager, sweeper Sweeper, n notifier.Notifier, settings SettingsSource) *Service {
	return &Service{
		Reminders:     reminders,
		Sweeper:       sweeper,
		Notifier:      n,
		Settings:      settings,
		UserID:        constants.DefaultUserID,
		PollInterval:  constants.ReminderPollInterval,
		SweepInterval: constants.DecaySweepInterval,
	}
}

// Run checks reminders and the sweep once, then on every tick until ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	poll := time.NewTicker(s.PollInterval)
	defer poll.Stop()
	sweep := time.NewTicker(s.SweepInterval)
	defer sweep.Stop()

	logger.Info("Reminder service started", "poll", s.PollInterval, "sweep", s.SweepInterval)
	s.sweep()
	s.poll()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder service stopped")
			return nil
		case <-poll.C:
			s.poll()
		case <-sweep.C:
			s.sweep()
		}
	}
}

func (s *Service) poll() {
	sent, err := s.CheckReminders(s.Reminders.now())
	if err != nil {
		logger.Error("Reminder check failed", "error", err)
		return
	}
	if sent > 0 {
		logger.Debug("Reminders delivered", "count", sent)
	}
}

func (s *Service) sweep() {
	if s.Sweeper == nil {
		return
	}
	ran, decayed, err := s.Sweeper.SweepIfDue(s.UserID)
	if err != nil {
		logger.Error("Garden sweep failed", "error", err)
		return
	}
	if ran {
		logger.Info("Garden sweep ran", "decayed", decayed)
	}
}

// CheckReminders delivers every reminder due at now and returns how many were
// sent. A reminder fires at most once per minute even when polled twice.
func (s *Service) CheckReminders(now time.Time) (int, error) {
	if s.Settings != nil {
		enabled, err := s.Settings.NotificationsEnabled()
		if err != nil {
			return 0, fmt.Errorf("failed to read settings: %w", err)
		}
		if !enabled {
			return 0, nil
		}
	}

	due, err := s.Reminders.Due(now)
	if err != nil {
		return 0, err
	}

	minute := now.Format("2006-01-02T15:04")
	if minute != s.firedMinute {
		s.firedMinute = minute
		s.fired = make(map[int64]bool)
	}

	sent := 0
	for _, d := range due {
		key := d.Reminder.ID
		if s.fired[key] {
			continue
		}
		msg := notifier.Notification{
			ID:      d.Reminder.NotificationID,
			HabitID: d.Reminder.HabitID,
			Title:   fmt.Sprintf("%s %s", d.HabitIcon, d.HabitName),
			Body:    "time to water your plant",
		}
		if err := s.Notifier.Notify(msg); err != nil {
			logger.Warn("Failed to deliver reminder", "reminder", d.Reminder.ID, "error", err)
			continue
		}
		s.fired[key] = true
		sent++
		logger.Info("Reminder delivered", "reminder", d.Reminder.ID, "habit", d.Reminder.HabitID)
	}
	return sent, nil
}
