package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

const habitColumns = `habit_id, user_id, name, category, icon, plant_type, target_frequency,
	current_streak, longest_streak, total_completed, difficulty, is_active, created_at`

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var category, plantType, createdAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &category, &h.Icon, &plantType, &h.TargetFrequency,
		&h.CurrentStreak, &h.LongestStreak, &h.TotalCompleted, &h.Difficulty, &h.IsActive, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = constants.Category(category)
	h.PlantType = constants.PlantType(plantType)
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %d: %w", h.ID, err)
	}
	return h, nil
}

func getHabit(q querier, id int64) (models.Habit, error) {
	h, err := scanHabit(q.QueryRow("SELECT "+habitColumns+" FROM habits WHERE habit_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	return h, err
}

func (s *Store) CreateHabit(h models.Habit) (models.Habit, error) {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	if h.UserID == 0 {
		h.UserID = constants.DefaultUserID
	}

	err := s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO habits (user_id, name, category, icon, plant_type, target_frequency,
				current_streak, longest_streak, total_completed, difficulty, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?)`,
			h.UserID, h.Name, string(h.Category), h.Icon, string(h.PlantType), h.TargetFrequency,
			h.Difficulty, h.IsActive, formatTime(h.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert habit: %w", err)
		}
		if h.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		if _, err := tx.Exec(`
			INSERT INTO garden_states (user_id, habit_id, plant_growth, plant_health, last_watered, stage)
			VALUES (?, ?, 0, ?, NULL, ?)`,
			h.UserID, h.ID, constants.InitialPlantHealth, constants.MinStage); err != nil {
			return fmt.Errorf("failed to plant garden state: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}

	h.CurrentStreak, h.LongestStreak, h.TotalCompleted = 0, 0, 0
	return h, nil
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	return getHabit(s.db, id)
}

func (s *Store) GetHabits(userID int64, activeOnly bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = ?"
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY created_at, habit_id"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET name = ?, category = ?, icon = ?, plant_type = ?,
			target_frequency = ?, difficulty = ?, is_active = ?
		WHERE habit_id = ?`,
		h.Name, string(h.Category), h.Icon, string(h.PlantType),
		h.TargetFrequency, h.Difficulty, h.IsActive, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("habit", h.ID))
}

func (s *Store) DeactivateHabit(id int64) error {
	res, err := s.db.Exec("UPDATE habits SET is_active = 0 WHERE habit_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate habit: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("habit", id))
}

// DeleteHabit removes the habit; records, reminders and its plant cascade.
func (s *Store) DeleteHabit(id int64) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE habit_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("habit", id))
}

func (s *Store) CountActiveHabits(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM habits WHERE user_id = ? AND is_active = 1", userID).Scan(&n)
	return n, err
}
