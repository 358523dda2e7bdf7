// Package catalog holds the fixed somatic-practice catalog.
package catalog

import (
	"fmt"

	"github.com/quietbloom/tend/internal/store"
)

// Size is the number of practices in the catalog. The complete_collection
// achievement compares unique practices tried against this.
const Size = 10

// Practices returns the full catalog. Two practices per category.
func Practices() []store.Practice {
	return []store.Practice{
		{Slug: "box-breathing", Title: "Box Breathing", Category: "breathing"},
		{Slug: "long-exhale", Title: "Long Exhale", Category: "breathing"},
		{Slug: "five-senses", Title: "Five Senses Check", Category: "grounding"},
		{Slug: "feet-on-floor", Title: "Feet on the Floor", Category: "grounding"},
		{Slug: "shake-it-out", Title: "Shake It Out", Category: "movement"},
		{Slug: "slow-stretch", Title: "Slow Stretch", Category: "movement"},
		{Slug: "head-to-toe", Title: "Head to Toe Scan", Category: "body_scan"},
		{Slug: "tension-check", Title: "Tension Check", Category: "body_scan"},
		{Slug: "silly-face", Title: "Silliest Face", Category: "silly"},
		{Slug: "animal-walk", Title: "Animal Walk", Category: "silly"},
	}
}

// Seed populates the catalog table if it is empty.
func Seed(db *store.DB) error {
	practices := Practices()
	if len(practices) != Size {
		return fmt.Errorf("catalog has %d practices, want %d", len(practices), Size)
	}
	return db.SeedPractices(practices)
}
