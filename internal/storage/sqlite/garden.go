package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

const gardenColumns = "state_id, user_id, habit_id, plant_growth, plant_health, last_watered, stage"

func scanGardenState(row rowScanner) (models.GardenState, error) {
	var g models.GardenState
	var lastWatered sql.NullString

	if err := row.Scan(&g.ID, &g.UserID, &g.HabitID, &g.PlantGrowth, &g.PlantHealth, &lastWatered, &g.Stage); err != nil {
		return models.GardenState{}, err
	}
	g.LastWatered = lastWatered.String
	return g, nil
}

func getGardenState(q querier, habitID int64) (models.GardenState, error) {
	g, err := scanGardenState(q.QueryRow("SELECT "+gardenColumns+" FROM garden_states WHERE habit_id = ?", habitID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.GardenState{}, apperrors.NotFound("garden state for habit", habitID)
	}
	return g, err
}

func (s *Store) GetGardenState(habitID int64) (models.GardenState, error) {
	return getGardenState(s.db, habitID)
}

func (s *Store) GetGardenStates(userID int64) ([]models.GardenState, error) {
	rows, err := s.db.Query("SELECT "+gardenColumns+" FROM garden_states WHERE user_id = ? ORDER BY habit_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []models.GardenState
	for rows.Next() {
		g, err := scanGardenState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, g)
	}
	return states, rows.Err()
}

func (s *Store) UpdateGardenState(habitID int64, fn func(*models.GardenState) bool) (models.GardenState, error) {
	var state models.GardenState
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		state, err = updateGardenState(tx, habitID, fn)
		return err
	})
	return state, err
}

func updateGardenState(tx *sql.Tx, habitID int64, fn func(*models.GardenState) bool) (models.GardenState, error) {
	state, err := getGardenState(tx, habitID)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Imported data may lack a plant; replant it from defaults.
		state, err = plantDefault(tx, habitID)
	}
	if err != nil {
		return models.GardenState{}, err
	}

	if !fn(&state) {
		return state, nil
	}

	_, err = tx.Exec(`
		UPDATE garden_states SET plant_growth = ?, plant_health = ?, last_watered = ?, stage = ?
		WHERE habit_id = ?`,
		state.PlantGrowth, state.PlantHealth, nullString(state.LastWatered), state.Stage, habitID)
	if err != nil {
		return models.GardenState{}, fmt.Errorf("failed to update garden state: %w", err)
	}
	return state, nil
}

func plantDefault(tx *sql.Tx, habitID int64) (models.GardenState, error) {
	h, err := getHabit(tx, habitID)
	if err != nil {
		return models.GardenState{}, err
	}
	if _, err := tx.Exec(`
		INSERT INTO garden_states (user_id, habit_id, plant_growth, plant_health, last_watered, stage)
		VALUES (?, ?, 0, ?, NULL, ?)`,
		h.UserID, habitID, constants.InitialPlantHealth, constants.MinStage); err != nil {
		return models.GardenState{}, fmt.Errorf("failed to plant garden state: %w", err)
	}
	return getGardenState(tx, habitID)
}
