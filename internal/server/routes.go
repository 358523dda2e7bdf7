package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quietbloom/tend/internal/chat"
	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/observability"
	"github.com/quietbloom/tend/internal/safety"
	"go.uber.org/zap"
)

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"userId"`
		ActivityType string `json:"activityType"`
		Category     string `json:"category"`
		PracticeSlug string `json:"practiceSlug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	_, err := s.ledger.Record(engagement.RecordInput{
		UserID:       req.UserID,
		ActivityType: req.ActivityType,
		Category:     req.Category,
		PracticeSlug: req.PracticeSlug,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	observability.RecordActivity(req.ActivityType)

	newBadges, err := s.evaluator.Evaluate(req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, b := range newBadges {
		observability.RecordBadge(string(b))
	}

	streak, err := s.ledger.Streak(req.UserID, engagement.ActivityType(req.ActivityType), time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}

	badgeNames := make([]string, len(newBadges))
	for i, b := range newBadges {
		badgeNames[i] = string(b)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"streak":    streak,
		"newBadges": badgeNames,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error":"userId required"}`, http.StatusBadRequest)
		return
	}
	activityType := r.URL.Query().Get("activityType")
	if activityType == "" {
		activityType = string(engagement.ActivityPractice)
	}
	typ, err := engagement.ParseActivityType(activityType)
	if err != nil {
		s.writeError(w, err)
		return
	}

	streak, err := s.ledger.Streak(userID, typ, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(streak)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error":"userId required"}`, http.StatusBadRequest)
		return
	}

	badges, err := s.db.GetBadges(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type badgeJSON struct {
		BadgeType string `json:"badgeType"`
		EarnedAt  string `json:"earnedAt"`
	}
	out := make([]badgeJSON, len(badges))
	for i, b := range badges {
		out[i] = badgeJSON{
			BadgeType: b.BadgeType,
			EarnedAt:  time.UnixMilli(b.EarnedAt).UTC().Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"badges": out})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	practices, err := s.db.ListPractices()
	if err != nil {
		s.writeError(w, err)
		return
	}

	type practiceJSON struct {
		Slug     string `json:"slug"`
		Title    string `json:"title"`
		Category string `json:"category"`
	}
	out := make([]practiceJSON, len(practices))
	for i, p := range practices {
		out[i] = practiceJSON{p.Slug, p.Title, p.Category}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"practices": out})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID         string `json:"userId"`
		ConversationID string `json:"conversationId"`
		Message        string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, `{"error":"userId required"}`, http.StatusBadRequest)
		return
	}

	turn, err := s.resolver.AppendTurn(r.Context(), req.ConversationID, req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrUpstreamGeneration) {
			observability.RecordUpstreamFailure()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{
				"error":     "reply generation failed, please resend",
				"retryable": true,
			})
			return
		}
		s.writeError(w, err)
		return
	}
	observability.RecordTurn()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"conversationId": turn.Conversation.ID,
		"isNew":          turn.IsNew,
		"assistantReply": turn.AssistantReply,
	})
}

func (s *Server) handlePersonalization(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error":"userId required"}`, http.StatusBadRequest)
		return
	}

	sig, err := s.signals.Generate(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sig)
}

func (s *Server) handleScanCrisis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	result := safety.Scan(req.Text)
	if result.IsCrisis {
		observability.RecordCrisisFlag()
	}
	if result.MatchedKeywords == nil {
		result.MatchedKeywords = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// writeError maps engine errors to status codes: validation failures are the
// caller's fault, everything else is a storage-layer 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, engagement.ErrValidation) {
		status = http.StatusBadRequest
	} else {
		s.log.Error("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
