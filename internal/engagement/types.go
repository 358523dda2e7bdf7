// Package engagement derives streaks and achievements from the activity ledger.
package engagement

import (
	"errors"
	"fmt"
)

// ErrValidation marks a rejected input (unknown enum value, missing field).
// Handlers map it to a 400.
var ErrValidation = errors.New("validation failed")

// ActivityType is a closed enum of tracked actions.
type ActivityType string

const (
	ActivityReflection ActivityType = "reflection"
	ActivityPractice   ActivityType = "practice_completion"
	ActivityMessage    ActivityType = "conversation_message"
)

// Category is a closed enum of practice categories.
type Category string

const (
	CategoryBreathing Category = "breathing"
	CategoryGrounding Category = "grounding"
	CategoryMovement  Category = "movement"
	CategoryBodyScan  Category = "body_scan"
	CategorySilly     Category = "silly"
)

// ParseActivityType validates an activity type at the ledger boundary.
func ParseActivityType(s string) (ActivityType, error) {
	switch ActivityType(s) {
	case ActivityReflection, ActivityPractice, ActivityMessage:
		return ActivityType(s), nil
	}
	return "", fmt.Errorf("%w: unknown activity type %q", ErrValidation, s)
}

// ParseCategory validates a practice category. Empty is allowed — only
// practice completions carry a category.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", nil
	}
	switch Category(s) {
	case CategoryBreathing, CategoryGrounding, CategoryMovement, CategoryBodyScan, CategorySilly:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}
