package store

import (
	"fmt"
)

// Badge is a one-time achievement record.
type Badge struct {
	ID        int64
	UserID    string
	BadgeType string
	EarnedAt  int64
}

// AwardBadge inserts a badge for the user if they do not already hold it.
// The UNIQUE (user_id, badge_type) constraint makes concurrent awards safe:
// the losing insert is ignored and reported as not-new rather than erroring.
func (db *DB) AwardBadge(userID, badgeType string, earnedAt int64) (bool, error) {
	result, err := db.Exec(`
		INSERT OR IGNORE INTO badges (user_id, badge_type, earned_at)
		VALUES (?, ?, ?)
	`, userID, badgeType, earnedAt)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award badge rows: %w", err)
	}
	return rows > 0, nil
}

// GetBadges returns all badges earned by a user, oldest first.
func (db *DB) GetBadges(userID string) ([]Badge, error) {
	rows, err := db.Query(`
		SELECT id, user_id, badge_type, earned_at FROM badges
		WHERE user_id = ? ORDER BY earned_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get badges: %w", err)
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// BadgeTypes returns the set of badge types a user has already earned.
func (db *DB) BadgeTypes(userID string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT badge_type FROM badges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("badge types: %w", err)
	}
	defer rows.Close()

	earned := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan badge type: %w", err)
		}
		earned[t] = true
	}
	return earned, rows.Err()
}
