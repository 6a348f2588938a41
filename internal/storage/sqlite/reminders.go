package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

const reminderColumns = "reminder_id, habit_id, reminder_time, days_of_week, is_active, notification_id"

func scanReminder(row rowScanner) (models.Reminder, error) {
	var r models.Reminder
	err := row.Scan(&r.ID, &r.HabitID, &r.ReminderTime, &r.DaysOfWeek, &r.IsActive, &r.NotificationID)
	return r, err
}

func (s *Store) AddReminder(r models.Reminder) (models.Reminder, error) {
	res, err := s.db.Exec(`
		INSERT INTO reminders (habit_id, reminder_time, days_of_week, is_active, notification_id)
		VALUES (?, ?, ?, ?, ?)`,
		r.HabitID, r.ReminderTime, r.DaysOfWeek, r.IsActive, r.NotificationID)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to add reminder: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

func (s *Store) GetReminder(id int64) (models.Reminder, error) {
	r, err := scanReminder(s.db.QueryRow("SELECT "+reminderColumns+" FROM reminders WHERE reminder_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, apperrors.NotFound("reminder", id)
	}
	return r, err
}

func (s *Store) GetReminders(habitID int64) ([]models.Reminder, error) {
	return s.queryReminders("SELECT "+reminderColumns+" FROM reminders WHERE habit_id = ? ORDER BY reminder_time", habitID)
}

func (s *Store) GetAllReminders(activeOnly bool) ([]models.Reminder, error) {
	query := `SELECT r.reminder_id, r.habit_id, r.reminder_time, r.days_of_week, r.is_active, r.notification_id
		FROM reminders r JOIN habits h ON h.habit_id = r.habit_id`
	if activeOnly {
		query += " WHERE r.is_active = 1 AND h.is_active = 1"
	}
	query += " ORDER BY r.reminder_time, r.reminder_id"
	return s.queryReminders(query)
}

func (s *Store) queryReminders(query string, args ...any) ([]models.Reminder, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) UpdateReminder(r models.Reminder) error {
	res, err := s.db.Exec(`
		UPDATE reminders SET reminder_time = ?, days_of_week = ?, is_active = ?
		WHERE reminder_id = ?`,
		r.ReminderTime, r.DaysOfWeek, r.IsActive, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("reminder", r.ID))
}

func (s *Store) DeleteReminder(id int64) error {
	res, err := s.db.Exec("DELETE FROM reminders WHERE reminder_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("reminder", id))
}
