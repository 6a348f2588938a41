package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

// ExportAll reads every domain table wholesale. Settings are not exported.
func (s *Store) ExportAll() (models.ExportData, error) {
	data := models.ExportData{
		ExportTime: formatTime(time.Now()),
		Version:    constants.ExportVersion,
	}

	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		if data.Users, err = collect(tx, "SELECT "+userColumns+" FROM users ORDER BY user_id", scanUser); err != nil {
			return fmt.Errorf("export users: %w", err)
		}
		if data.Habits, err = collect(tx, "SELECT "+habitColumns+" FROM habits ORDER BY habit_id", scanHabit); err != nil {
			return fmt.Errorf("export habits: %w", err)
		}
		if data.Records, err = collect(tx, "SELECT "+recordColumns+" FROM habit_records ORDER BY record_id", scanRecord); err != nil {
			return fmt.Errorf("export records: %w", err)
		}
		if data.Reminders, err = collect(tx, "SELECT "+reminderColumns+" FROM reminders ORDER BY reminder_id", scanReminder); err != nil {
			return fmt.Errorf("export reminders: %w", err)
		}
		if data.Achievements, err = collect(tx, "SELECT "+achievementColumns+" FROM achievements ORDER BY achievement_id", scanAchievement); err != nil {
			return fmt.Errorf("export achievements: %w", err)
		}
		if data.GardenStates, err = collect(tx, "SELECT "+gardenColumns+" FROM garden_states ORDER BY state_id", scanGardenState); err != nil {
			return fmt.Errorf("export garden states: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ExportData{}, err
	}
	return data, nil
}

func collect[T any](q querier, query string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ImportAll replaces every domain table with data in a single transaction.
// Rows keep their ids so references between tables survive.
func (s *Store) ImportAll(data models.ExportData) error {
	if data.Version != "" && data.Version != constants.ExportVersion {
		return apperrors.Invalid("unsupported export version %q", data.Version)
	}

	return s.withTx(func(tx *sql.Tx) error {
		// Children before parents
		for _, table := range []string{"garden_states", "achievements", "reminders", "habit_records", "habits", "users"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, u := range data.Users {
			if _, err := tx.Exec(`
				INSERT INTO users (user_id, username, avatar_color, daily_goal_time, created_at, last_login)
				VALUES (?, ?, ?, ?, ?, ?)`,
				u.ID, u.Username, u.AvatarColor, u.DailyGoalTime, formatTime(u.CreatedAt), nullTime(u.LastLogin)); err != nil {
				return fmt.Errorf("import user %d: %w", u.ID, err)
			}
		}
		for _, h := range data.Habits {
			if _, err := tx.Exec(`
				INSERT INTO habits (habit_id, user_id, name, category, icon, plant_type, target_frequency,
					current_streak, longest_streak, total_completed, difficulty, is_active, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				h.ID, h.UserID, h.Name, string(h.Category), h.Icon, string(h.PlantType), h.TargetFrequency,
				h.CurrentStreak, h.LongestStreak, h.TotalCompleted, h.Difficulty, h.IsActive, formatTime(h.CreatedAt)); err != nil {
				return fmt.Errorf("import habit %d: %w", h.ID, err)
			}
		}
		for _, r := range data.Records {
			if _, err := tx.Exec(`
				INSERT INTO habit_records (record_id, habit_id, record_date, completed, completed_time, notes, plant_growth_stage)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.HabitID, r.RecordDate, r.Completed, nullTime(r.CompletedTime), r.Notes, r.PlantGrowthStage); err != nil {
				return fmt.Errorf("import record %d: %w", r.ID, err)
			}
		}
		for _, r := range data.Reminders {
			if _, err := tx.Exec(`
				INSERT INTO reminders (reminder_id, habit_id, reminder_time, days_of_week, is_active, notification_id)
				VALUES (?, ?, ?, ?, ?, ?)`,
				r.ID, r.HabitID, r.ReminderTime, r.DaysOfWeek, r.IsActive, r.NotificationID); err != nil {
				return fmt.Errorf("import reminder %d: %w", r.ID, err)
			}
		}
		for _, a := range data.Achievements {
			if _, err := tx.Exec(`
				INSERT INTO achievements (achievement_id, user_id, achievement_type, title, description, badge_icon, unlocked_at, requirement_value)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.UserID, string(a.Type), a.Title, a.Description, a.BadgeIcon, nullTime(a.UnlockedAt), a.RequirementValue); err != nil {
				return fmt.Errorf("import achievement %d: %w", a.ID, err)
			}
		}
		for _, g := range data.GardenStates {
			if _, err := tx.Exec(`
				INSERT INTO garden_states (state_id, user_id, habit_id, plant_growth, plant_health, last_watered, stage)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				g.ID, g.UserID, g.HabitID, g.PlantGrowth, g.PlantHealth, nullString(g.LastWatered), g.Stage); err != nil {
				return fmt.Errorf("import garden state %d: %w", g.ID, err)
			}
		}
		return nil
	})
}
