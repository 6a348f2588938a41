package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

const userColumns = "user_id, username, avatar_color, daily_goal_time, created_at, last_login"

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var createdAt string
	var lastLogin sql.NullString

	if err := row.Scan(&u.ID, &u.Username, &u.AvatarColor, &u.DailyGoalTime, &createdAt, &lastLogin); err != nil {
		return models.User{}, err
	}

	var err error
	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if u.LastLogin, err = parseNullTime(lastLogin, "last_login"); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(id int64) (models.User, error) {
	u, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE user_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("user", id)
	}
	return u, err
}

func (s *Store) UpdateUser(u models.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	res, err := s.db.Exec(`
		UPDATE users SET username = ?, avatar_color = ?, daily_goal_time = ?
		WHERE user_id = ?`,
		u.Username, u.AvatarColor, u.DailyGoalTime, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("user", u.ID))
}

func (s *Store) TouchLogin(id int64, at time.Time) error {
	res, err := s.db.Exec("UPDATE users SET last_login = ? WHERE user_id = ?", formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return checkAffected(res, apperrors.NotFound("user", id))
}
