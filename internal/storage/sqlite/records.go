package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/streak"
)

const recordColumns = "record_id, habit_id, record_date, completed, completed_time, notes, plant_growth_stage"

func scanRecord(row rowScanner) (models.HabitRecord, error) {
	var r models.HabitRecord
	var completedTime sql.NullString

	if err := row.Scan(&r.ID, &r.HabitID, &r.RecordDate, &r.Completed, &completedTime, &r.Notes, &r.PlantGrowthStage); err != nil {
		return models.HabitRecord{}, err
	}
	var err error
	if r.CompletedTime, err = parseNullTime(completedTime, "completed_time"); err != nil {
		return models.HabitRecord{}, err
	}
	return r, nil
}

func (s *Store) GetRecord(habitID int64, date string) (models.HabitRecord, error) {
	r, err := scanRecord(s.db.QueryRow(
		"SELECT "+recordColumns+" FROM habit_records WHERE habit_id = ? AND record_date = ?", habitID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitRecord{}, apperrors.NotFound("record", fmt.Sprintf("%d@%s", habitID, date))
	}
	return r, err
}

func (s *Store) CompleteRecord(rec models.HabitRecord, today time.Time) (models.Habit, error) {
	var habit models.Habit
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		habit, err = completeRecord(tx, rec, today)
		return err
	})
	return habit, err
}

// CheckIn completes the record and updates the habit's plant with water in one
// transaction.
func (s *Store) CheckIn(rec models.HabitRecord, today time.Time, water func(*models.GardenState) bool) (models.Habit, models.GardenState, error) {
	var (
		habit models.Habit
		plant models.GardenState
	)
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		if habit, err = completeRecord(tx, rec, today); err != nil {
			return err
		}
		plant, err = updateGardenState(tx, rec.HabitID, water)
		return err
	})
	return habit, plant, err
}

func completeRecord(tx *sql.Tx, rec models.HabitRecord, today time.Time) (models.Habit, error) {
	if _, err := getHabit(tx, rec.HabitID); err != nil {
		return models.Habit{}, err
	}

	_, err := tx.Exec(`
		INSERT INTO habit_records (habit_id, record_date, completed, completed_time, notes, plant_growth_stage)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(habit_id, record_date) DO UPDATE SET
			completed = 1,
			completed_time = excluded.completed_time,
			notes = excluded.notes,
			plant_growth_stage = excluded.plant_growth_stage`,
		rec.HabitID, rec.RecordDate, nullTime(rec.CompletedTime), rec.Notes, rec.PlantGrowthStage)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to save record: %w", err)
	}
	return recomputeHabitStats(tx, rec.HabitID, today)
}

func (s *Store) UncompleteRecord(habitID int64, date string, today time.Time) (models.Habit, error) {
	var habit models.Habit
	err := s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE habit_records SET completed = 0, completed_time = NULL
			WHERE habit_id = ? AND record_date = ? AND completed = 1`, habitID, date)
		if err != nil {
			return fmt.Errorf("failed to undo record: %w", err)
		}
		if err := checkAffected(res, apperrors.NotFound("completed record", fmt.Sprintf("%d@%s", habitID, date))); err != nil {
			return err
		}

		habit, err = recomputeHabitStats(tx, habitID, today)
		return err
	})
	return habit, err
}

// recomputeHabitStats rebuilds the streak counters from the full completion
// history. longest_streak only ever grows, and backfilled runs count toward it.
func recomputeHabitStats(q querier, habitID int64, today time.Time) (models.Habit, error) {
	dates, err := completedDates(q, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	days := streak.FromStrings(dates, today.Location())
	current := streak.Current(days, today)
	longest := max(current, streak.Longest(days))

	_, err = q.Exec(`
		UPDATE habits SET
			current_streak = ?,
			longest_streak = MAX(longest_streak, ?),
			total_completed = (SELECT COUNT(*) FROM habit_records WHERE habit_id = ? AND completed = 1)
		WHERE habit_id = ?`,
		current, longest, habitID, habitID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit stats: %w", err)
	}
	return getHabit(q, habitID)
}

func completedDates(q querier, habitID int64) ([]string, error) {
	rows, err := q.Query(`
		SELECT record_date FROM habit_records
		WHERE habit_id = ? AND completed = 1
		ORDER BY record_date DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) GetCompletedDates(habitID int64) ([]string, error) {
	return completedDates(s.db, habitID)
}

// GetRecordsForHabit returns records between startDay and endDay inclusive.
// An empty bound is open.
func (s *Store) GetRecordsForHabit(habitID int64, startDay, endDay string) ([]models.HabitRecord, error) {
	query := "SELECT " + recordColumns + " FROM habit_records WHERE habit_id = ?"
	args := []any{habitID}
	query, args = dateRange(query, "record_date", startDay, endDay, args)
	query += " ORDER BY record_date"
	return s.queryRecords(query, args...)
}

// GetRecordsForUser returns records of all the user's habits in the range.
func (s *Store) GetRecordsForUser(userID int64, startDay, endDay string) ([]models.HabitRecord, error) {
	query := `SELECT r.record_id, r.habit_id, r.record_date, r.completed, r.completed_time, r.notes, r.plant_growth_stage
		FROM habit_records r JOIN habits h ON h.habit_id = r.habit_id
		WHERE h.user_id = ?`
	args := []any{userID}
	query, args = dateRange(query, "r.record_date", startDay, endDay, args)
	query += " ORDER BY r.record_date, r.habit_id"
	return s.queryRecords(query, args...)
}

func dateRange(query, column, startDay, endDay string, args []any) (string, []any) {
	if startDay != "" {
		query += " AND " + column + " >= ?"
		args = append(args, startDay)
	}
	if endDay != "" {
		query += " AND " + column + " <= ?"
		args = append(args, endDay)
	}
	return query, args
}

func (s *Store) queryRecords(query string, args ...any) ([]models.HabitRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HabitRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
