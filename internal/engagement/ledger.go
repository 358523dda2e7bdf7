package engagement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

// Ledger is the append-only boundary for activity facts. It validates enum
// membership and nothing else; deduplicating double-submits is the caller's
// problem.
type Ledger struct {
	db  *store.DB
	log *zap.Logger
	now func() time.Time
}

// NewLedger creates a Ledger over the given store.
func NewLedger(db *store.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log, now: time.Now}
}

// RecordInput is the payload for one ledger append.
type RecordInput struct {
	UserID       string
	ActivityType string
	Category     string
	PracticeSlug string
	OccurredAt   time.Time // zero value means "now"
}

// Record appends one activity event and returns its id.
func (l *Ledger) Record(in RecordInput) (string, error) {
	if in.UserID == "" {
		return "", fmt.Errorf("%w: user_id required", ErrValidation)
	}
	typ, err := ParseActivityType(in.ActivityType)
	if err != nil {
		return "", err
	}
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return "", err
	}
	if cat != "" && typ != ActivityPractice {
		return "", fmt.Errorf("%w: category only applies to practice completions", ErrValidation)
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = l.now()
	}

	ev := store.ActivityEvent{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		ActivityType: string(typ),
		Category:     string(cat),
		PracticeSlug: in.PracticeSlug,
		OccurredAt:   occurred.UnixMilli(),
	}
	if err := l.db.InsertEvent(ev); err != nil {
		return "", err
	}

	l.log.Debug("activity recorded",
		zap.String("user_id", in.UserID),
		zap.String("activity_type", string(typ)),
		zap.String("category", string(cat)))
	return ev.ID, nil
}

// Times returns all event instants for one user and activity type.
func (l *Ledger) Times(userID string, typ ActivityType) ([]time.Time, error) {
	millis, err := l.db.EventTimes(userID, string(typ))
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(millis))
	for i, ms := range millis {
		times[i] = time.UnixMilli(ms).UTC()
	}
	return times, nil
}

// LatestTime returns the most recent event instant for one user and activity
// type, or the zero time when there is none.
func (l *Ledger) LatestTime(userID string, typ ActivityType) (time.Time, error) {
	ms, err := l.db.LatestEventTime(userID, string(typ))
	if err != nil {
		return time.Time{}, err
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Streak derives the streak state for one user and activity type.
func (l *Ledger) Streak(userID string, typ ActivityType, today time.Time) (StreakState, error) {
	times, err := l.Times(userID, typ)
	if err != nil {
		return StreakState{}, err
	}
	return StreakState{
		Current: CurrentStreak(times, today),
		Longest: LongestStreak(times),
	}, nil
}

// Aggregates returns the per-user totals used by achievement rules.
func (l *Ledger) Aggregates(userID string) (*store.Aggregates, error) {
	return l.db.EventAggregates(userID)
}
