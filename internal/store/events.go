package store

import (
	"fmt"
)

// ActivityEvent is one immutable timestamped activity fact.
type ActivityEvent struct {
	ID           string
	UserID       string
	ActivityType string
	Category     string // empty when not a categorized practice
	PracticeSlug string
	OccurredAt   int64 // unix millis
}

// Aggregates summarizes a user's ledger for achievement evaluation.
type Aggregates struct {
	TotalByType     map[string]int
	TotalByCategory map[string]int
	UniqueTried     int // distinct practice slugs completed
}

// InsertEvent appends an event to the ledger. Events are never updated
// or deleted; the same logical action recorded twice produces two rows.
func (db *DB) InsertEvent(ev ActivityEvent) error {
	category := nullable(ev.Category)
	slug := nullable(ev.PracticeSlug)
	_, err := db.Exec(`
		INSERT INTO activity_events (id, user_id, activity_type, category, practice_slug, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.UserID, ev.ActivityType, category, slug, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// EventTimes returns the occurred_at timestamps (unix millis) of all events
// for one user and activity type, oldest first.
func (db *DB) EventTimes(userID, activityType string) ([]int64, error) {
	rows, err := db.Query(`
		SELECT occurred_at FROM activity_events
		WHERE user_id = ? AND activity_type = ?
		ORDER BY occurred_at ASC
	`, userID, activityType)
	if err != nil {
		return nil, fmt.Errorf("query event times: %w", err)
	}
	defer rows.Close()

	var times []int64
	for rows.Next() {
		var t int64
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan event time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// LatestEventTime returns the most recent occurred_at for one user and
// activity type, or 0 if the user has no such events.
func (db *DB) LatestEventTime(userID, activityType string) (int64, error) {
	var t int64
	err := db.QueryRow(`
		SELECT COALESCE(MAX(occurred_at), 0) FROM activity_events
		WHERE user_id = ? AND activity_type = ?
	`, userID, activityType).Scan(&t)
	if err != nil {
		return 0, fmt.Errorf("latest event time: %w", err)
	}
	return t, nil
}

// EventAggregates builds the per-user totals used by achievement rules.
func (db *DB) EventAggregates(userID string) (*Aggregates, error) {
	agg := &Aggregates{
		TotalByType:     make(map[string]int),
		TotalByCategory: make(map[string]int),
	}

	rows, err := db.Query(`
		SELECT activity_type, COUNT(*) FROM activity_events
		WHERE user_id = ? GROUP BY activity_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan type aggregate: %w", err)
		}
		agg.TotalByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := db.Query(`
		SELECT category, COUNT(*) FROM activity_events
		WHERE user_id = ? AND category IS NOT NULL GROUP BY category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate by category: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cat string
		var n int
		if err := catRows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category aggregate: %w", err)
		}
		agg.TotalByCategory[cat] = n
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	err = db.QueryRow(`
		SELECT COUNT(DISTINCT practice_slug) FROM activity_events
		WHERE user_id = ? AND practice_slug IS NOT NULL
	`, userID).Scan(&agg.UniqueTried)
	if err != nil {
		return nil, fmt.Errorf("count unique practices: %w", err)
	}

	return agg, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
