package engagement

import (
	"time"

	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

// Evaluator runs the achievement rule table after every activity-producing
// action. Badges and streaks stay re-derivable from the event ledger, so
// evaluation is always safe to replay.
type Evaluator struct {
	db     *store.DB
	ledger *Ledger
	log    *zap.Logger
	now    func() time.Time
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(db *store.DB, ledger *Ledger, log *zap.Logger) *Evaluator {
	return &Evaluator{db: db, ledger: ledger, log: log, now: time.Now}
}

// Evaluate awards every qualifying, not-yet-earned badge for the user and
// returns the newly awarded types in rule-table order. A rule that already
// earned its badge is skipped; the storage-level uniqueness constraint
// converts any concurrent double-award into a no-op.
func (e *Evaluator) Evaluate(userID string) ([]BadgeType, error) {
	agg, err := e.ledger.Aggregates(userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	practiceTimes, err := e.ledger.Times(userID, ActivityPractice)
	if err != nil {
		return nil, err
	}

	catalogSize, err := e.db.CountPractices()
	if err != nil {
		return nil, err
	}

	stats := RuleStats{
		TotalCompletions: agg.TotalByType[string(ActivityPractice)],
		ByCategory:       make(map[Category]int, len(agg.TotalByCategory)),
		UniqueTried:      agg.UniqueTried,
		CurrentStreak:    CurrentStreak(practiceTimes, now),
		CatalogSize:      catalogSize,
	}
	for cat, n := range agg.TotalByCategory {
		stats.ByCategory[Category(cat)] = n
	}

	earned, err := e.db.BadgeTypes(userID)
	if err != nil {
		return nil, err
	}

	var newlyAwarded []BadgeType
	for _, rule := range badgeRules {
		if earned[string(rule.Type)] || !rule.Qualifies(stats) {
			continue
		}
		inserted, err := e.db.AwardBadge(userID, string(rule.Type), now.UnixMilli())
		if err != nil {
			return newlyAwarded, err
		}
		if !inserted {
			// Lost a race to a concurrent evaluation. Not ours to report.
			continue
		}
		e.log.Info("badge awarded",
			zap.String("user_id", userID),
			zap.String("badge_type", string(rule.Type)))
		newlyAwarded = append(newlyAwarded, rule.Type)
	}
	return newlyAwarded, nil
}
