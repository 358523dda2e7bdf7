package engagement

import (
	"errors"
	"testing"
	"time"

	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

func testLedger(t *testing.T) (*Ledger, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewLedger(db, zap.NewNop()), db
}

func TestRecordDefaultsOccurredAt(t *testing.T) {
	ledger, _ := testLedger(t)
	fixed := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return fixed }

	id, err := ledger.Record(RecordInput{UserID: "u1", ActivityType: "reflection"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Error("expected event id")
	}

	got, err := ledger.LatestTime("u1", ActivityReflection)
	if err != nil {
		t.Fatalf("LatestTime: %v", err)
	}
	if !got.Equal(fixed) {
		t.Errorf("occurred at %v, want %v", got, fixed)
	}
}

func TestRecordValidation(t *testing.T) {
	ledger, _ := testLedger(t)

	cases := []struct {
		name string
		in   RecordInput
	}{
		{"missing user", RecordInput{ActivityType: "reflection"}},
		{"unknown type", RecordInput{UserID: "u1", ActivityType: "yoga"}},
		{"unknown category", RecordInput{UserID: "u1", ActivityType: "practice_completion", Category: "screaming"}},
		{"category on reflection", RecordInput{UserID: "u1", ActivityType: "reflection", Category: "breathing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Record(tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRecordSameActionTwiceProducesTwoEvents(t *testing.T) {
	// The ledger does not dedup; callers own double-submit protection.
	ledger, _ := testLedger(t)
	in := RecordInput{UserID: "u1", ActivityType: "practice_completion", Category: "breathing", PracticeSlug: "box-breathing"}
	if _, err := ledger.Record(in); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := ledger.Record(in); err != nil {
		t.Fatalf("Record repeat: %v", err)
	}

	agg, err := ledger.Aggregates("u1")
	if err != nil {
		t.Fatalf("Aggregates: %v", err)
	}
	if agg.TotalByType["practice_completion"] != 2 {
		t.Errorf("total = %d, want 2", agg.TotalByType["practice_completion"])
	}
}

func TestLedgerStreak(t *testing.T) {
	ledger, _ := testLedger(t)
	today := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	for d := 0; d < 3; d++ {
		_, err := ledger.Record(RecordInput{
			UserID:       "u1",
			ActivityType: "practice_completion",
			Category:     "grounding",
			PracticeSlug: "five-senses",
			OccurredAt:   today.AddDate(0, 0, -d),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	streak, err := ledger.Streak("u1", ActivityPractice, today)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak.Current != 3 || streak.Longest != 3 {
		t.Errorf("streak = %+v, want 3/3", streak)
	}
}
