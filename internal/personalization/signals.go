// Package personalization composes short engagement hints from ledger and
// session state. Read-only; nothing here writes.
package personalization

import (
	"fmt"
	"time"

	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/store"
)

// snippetLimit is how many characters of the last user message survive into
// the conversation-context snippet.
const snippetLimit = 60

// Signal holds the three independent hints. Each may be nil; composing them
// into UI copy is the caller's concern.
type Signal struct {
	RecentActivityMessage      *string `json:"recentActivityMessage"`
	StreakMessage              *string `json:"streakMessage"`
	ConversationContextSnippet *string `json:"conversationContextSnippet"`
}

// Generator derives personalization signals on demand.
type Generator struct {
	db     *store.DB
	ledger *engagement.Ledger
	now    func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(db *store.DB, ledger *engagement.Ledger) *Generator {
	return &Generator{db: db, ledger: ledger, now: time.Now}
}

// Generate builds the signal set for a user. Slot priorities are fixed:
// within a slot the first matching condition wins.
func (g *Generator) Generate(userID string) (*Signal, error) {
	now := g.now()
	sig := &Signal{}

	recent, err := g.recentActivity(userID, now)
	if err != nil {
		return nil, err
	}
	sig.RecentActivityMessage = recent

	streak, err := g.streakOrReturn(userID, now)
	if err != nil {
		return nil, err
	}
	sig.StreakMessage = streak

	snippet, err := g.conversationSnippet(userID, now)
	if err != nil {
		return nil, err
	}
	sig.ConversationContextSnippet = snippet

	return sig, nil
}

// recentActivity: reflection in the last 12h beats a practice completed
// today, which beats one completed yesterday.
func (g *Generator) recentActivity(userID string, now time.Time) (*string, error) {
	lastReflection, err := g.ledger.LatestTime(userID, engagement.ActivityReflection)
	if err != nil {
		return nil, err
	}
	if !lastReflection.IsZero() && now.Sub(lastReflection) < 12*time.Hour {
		return ptr("You wrote a reflection recently. Want to sit with it again?"), nil
	}

	lastPractice, err := g.ledger.LatestTime(userID, engagement.ActivityPractice)
	if err != nil {
		return nil, err
	}
	if !lastPractice.IsZero() {
		switch engagement.DayNumber(now) - engagement.DayNumber(lastPractice) {
		case 0:
			return ptr("Nice work on today's practice. A short check-in could round it out."), nil
		case 1:
			return ptr("You practiced yesterday. A few minutes today keeps the thread going."), nil
		}
	}
	return nil, nil
}

// streakOrReturn: celebrate a practice streak of 3+, otherwise acknowledge
// time away based on the latest conversation's age in calendar days.
func (g *Generator) streakOrReturn(userID string, now time.Time) (*string, error) {
	times, err := g.ledger.Times(userID, engagement.ActivityPractice)
	if err != nil {
		return nil, err
	}
	if streak := engagement.CurrentStreak(times, now); streak >= 3 {
		return ptr(fmt.Sprintf("You're on a %d-day streak. Keep tending it.", streak)), nil
	}

	latest, err := g.db.LatestConversation(userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	days := engagement.DayNumber(now) - engagement.DayNumber(time.UnixMilli(latest.CreatedAt).UTC())
	switch {
	case days >= 2:
		return ptr(fmt.Sprintf("It's been %d days since we last talked. Glad you're back.", days)), nil
	case days == 1:
		return ptr("Welcome back. Ready when you are."), nil
	}
	return nil, nil
}

// conversationSnippet: the opening characters of the last user message when
// it is under 24h old, else a generic fresh-start prompt.
func (g *Generator) conversationSnippet(userID string, now time.Time) (*string, error) {
	last, err := g.db.LatestUserMessage(userID)
	if err != nil {
		return nil, err
	}
	if last != nil && now.Sub(time.UnixMilli(last.CreatedAt)) < 24*time.Hour {
		return ptr(truncate(last.Content, snippetLimit)), nil
	}
	return ptr("Ready for a new conversation whenever you are."), nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func ptr(s string) *string {
	return &s
}
