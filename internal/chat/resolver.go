// Package chat governs conversation-session lifecycle and turn handling.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/llm"
	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

// ContinuityWindow is how long a conversation stays resumable, measured from
// its creation — not from its last message. Deliberately a rolling 24h while
// streak freshness is calendar-day based; the two mechanisms are independent.
const ContinuityWindow = 24 * time.Hour

// historyLimit caps how many prior turns are sent as reply context.
const historyLimit = 30

// openingMessage seeds every new conversation.
const openingMessage = "Hi, I'm glad you're here. How are you feeling right now?"

// ErrEmptyMessage rejects a blank user message before any write.
var ErrEmptyMessage = fmt.Errorf("%w: message must not be empty", engagement.ErrValidation)

// ErrUpstreamGeneration marks a failed or empty reply from the generation
// collaborator. The user's message stays persisted; no assistant turn is
// recorded. Callers surface it as retryable.
var ErrUpstreamGeneration = errors.New("reply generation failed")

// Resolver decides whether a turn resumes the latest conversation or starts
// a new one, and drives reply generation.
type Resolver struct {
	db           *store.DB
	client       llm.Client
	ledger       *engagement.Ledger
	log          *zap.Logger
	now          func() time.Time
	replyTimeout time.Duration
}

// NewResolver creates a Resolver. client may be nil when no provider is
// configured; AppendTurn then fails with ErrUpstreamGeneration.
func NewResolver(db *store.DB, client llm.Client, ledger *engagement.Ledger, log *zap.Logger) *Resolver {
	return &Resolver{
		db:           db,
		client:       client,
		ledger:       ledger,
		log:          log,
		now:          time.Now,
		replyTimeout: 30 * time.Second,
	}
}

// StartOrResume returns the user's latest conversation when it is still
// inside the continuity window, otherwise creates a new one seeded with the
// opening assistant message.
func (r *Resolver) StartOrResume(userID string) (*store.Conversation, bool, error) {
	now := r.now()

	latest, err := r.db.LatestConversation(userID)
	if err != nil {
		return nil, false, err
	}
	if latest != nil && now.Sub(time.UnixMilli(latest.CreatedAt)) < ContinuityWindow {
		return latest, false, nil
	}

	conv := &store.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now.UnixMilli(),
	}
	if err := r.db.InsertConversation(conv.ID, conv.UserID, conv.CreatedAt); err != nil {
		return nil, false, err
	}
	if _, err := r.db.AppendMessage(conv.ID, "assistant", openingMessage, conv.CreatedAt); err != nil {
		return nil, false, err
	}

	r.log.Info("conversation started",
		zap.String("user_id", userID),
		zap.String("conversation_id", conv.ID))
	return conv, true, nil
}

// Turn is the result of one successful conversational turn.
type Turn struct {
	Conversation   *store.Conversation
	IsNew          bool
	AssistantReply string
}

// AppendTurn appends a user message to the resolved conversation, generates
// a reply, and appends that too.
//
// A conversationID that is not UUID-shaped, does not exist, or belongs to a
// different user is never an error: the turn transparently falls back to
// StartOrResume, continuing in a fresh conversation instead. A stale or
// forged client id must not produce a hard failure.
func (r *Resolver) AppendTurn(ctx context.Context, conversationID, userID, message string) (*Turn, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	conv, isNew, err := r.resolve(conversationID, userID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	if _, err := r.db.AppendMessage(conv.ID, "user", message, now.UnixMilli()); err != nil {
		return nil, err
	}

	// The sent message is an activity fact regardless of whether a reply
	// can be generated for it.
	if _, err := r.ledger.Record(engagement.RecordInput{
		UserID:       userID,
		ActivityType: string(engagement.ActivityMessage),
		OccurredAt:   now,
	}); err != nil {
		return nil, err
	}

	history, err := r.db.RecentMessages(conv.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	turns := make([]llm.Message, len(history))
	for i, m := range history {
		turns[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	if r.client == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrUpstreamGeneration)
	}

	replyCtx, cancel := context.WithTimeout(ctx, r.replyTimeout)
	defer cancel()

	reply, err := r.client.Reply(replyCtx, llm.CheckInSystemPrompt, turns)
	if err != nil {
		r.log.Warn("reply generation failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	if _, err := r.db.AppendMessage(conv.ID, "assistant", reply, r.now().UnixMilli()); err != nil {
		return nil, err
	}

	return &Turn{Conversation: conv, IsNew: isNew, AssistantReply: reply}, nil
}

// resolve maps a client-supplied conversation id to a usable conversation,
// falling back to StartOrResume when the id is malformed or not the user's.
func (r *Resolver) resolve(conversationID, userID string) (*store.Conversation, bool, error) {
	if conversationID != "" {
		if _, err := uuid.Parse(conversationID); err == nil {
			conv, err := r.db.GetConversation(conversationID, userID)
			if err != nil {
				return nil, false, err
			}
			if conv != nil {
				return conv, false, nil
			}
		}
	}
	return r.StartOrResume(userID)
}
