package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
)

const achievementColumns = "achievement_id, user_id, achievement_type, title, description, badge_icon, unlocked_at, requirement_value"

func scanAchievement(row rowScanner) (models.Achievement, error) {
	var a models.Achievement
	var achievementType string
	var unlockedAt sql.NullString

	err := row.Scan(&a.ID, &a.UserID, &achievementType, &a.Title, &a.Description, &a.BadgeIcon, &unlockedAt, &a.RequirementValue)
	if err != nil {
		return models.Achievement{}, err
	}
	a.Type = constants.AchievementType(achievementType)
	if a.UnlockedAt, err = parseNullTime(unlockedAt, "unlocked_at"); err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

// ensureAchievement inserts the locked catalog row if it is missing.
func ensureAchievement(q querier, userID int64, info constants.AchievementInfo) error {
	_, err := q.Exec(`
		INSERT INTO achievements (user_id, achievement_type, title, description, badge_icon, unlocked_at, requirement_value)
		VALUES (?, ?, ?, ?, ?, NULL, ?)
		ON CONFLICT(user_id, achievement_type) DO NOTHING`,
		userID, string(info.Type), info.Title, info.Description, info.Icon, info.Requirement)
	if err != nil {
		return fmt.Errorf("failed to seed achievement %s: %w", info.Type, err)
	}
	return nil
}

func (s *Store) ensureAchievements(userID int64) error {
	return s.withTx(func(tx *sql.Tx) error {
		for _, info := range constants.AchievementCatalog {
			if err := ensureAchievement(tx, userID, info); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetAchievements(userID int64) ([]models.Achievement, error) {
	rows, err := s.db.Query("SELECT "+achievementColumns+" FROM achievements WHERE user_id = ? ORDER BY achievement_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (s *Store) UnlockAchievement(userID int64, t constants.AchievementType, at time.Time) (bool, error) {
	info, ok := constants.LookupAchievement(t)
	if !ok {
		return false, apperrors.Invalid("unknown achievement type %q", t)
	}

	unlocked := false
	err := s.withTx(func(tx *sql.Tx) error {
		if err := ensureAchievement(tx, userID, info); err != nil {
			return err
		}
		res, err := tx.Exec(`
			UPDATE achievements SET unlocked_at = ?
			WHERE user_id = ? AND achievement_type = ? AND unlocked_at IS NULL`,
			formatTime(at), userID, string(t))
		if err != nil {
			return fmt.Errorf("failed to unlock achievement: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		unlocked = n == 1
		return nil
	})
	return unlocked, err
}
