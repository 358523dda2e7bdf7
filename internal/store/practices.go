package store

import (
	"fmt"
)

// Practice is one catalog entry.
type Practice struct {
	Slug     string
	Title    string
	Category string
}

// SeedPractices populates the practice catalog if and only if it is empty.
// The check and the inserts run in one transaction, so startup can call this
// unconditionally.
func (db *DB) SeedPractices(practices []Practice) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM practices").Scan(&count); err != nil {
		tx.Rollback()
		return fmt.Errorf("count practices: %w", err)
	}
	if count > 0 {
		tx.Rollback()
		return nil
	}

	for _, p := range practices {
		if _, err := tx.Exec(
			"INSERT INTO practices (slug, title, category) VALUES (?, ?, ?)",
			p.Slug, p.Title, p.Category,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed practice %q: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// ListPractices returns the full catalog ordered by slug.
func (db *DB) ListPractices() ([]Practice, error) {
	rows, err := db.Query("SELECT slug, title, category FROM practices ORDER BY slug ASC")
	if err != nil {
		return nil, fmt.Errorf("list practices: %w", err)
	}
	defer rows.Close()

	var practices []Practice
	for rows.Next() {
		var p Practice
		if err := rows.Scan(&p.Slug, &p.Title, &p.Category); err != nil {
			return nil, fmt.Errorf("scan practice: %w", err)
		}
		practices = append(practices, p)
	}
	return practices, rows.Err()
}

// CountPractices returns the catalog size.
func (db *DB) CountPractices() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM practices").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count practices: %w", err)
	}
	return count, nil
}
