package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quietbloom/tend/internal/catalog"
	"github.com/quietbloom/tend/internal/chat"
	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/llm"
	"github.com/quietbloom/tend/internal/personalization"
	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

func testServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := catalog.Seed(db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	log := zap.NewNop()
	ledger := engagement.NewLedger(db, log)
	evaluator := engagement.NewEvaluator(db, ledger, log)
	resolver := chat.NewResolver(db, client, ledger, log)
	signals := personalization.NewGenerator(db, ledger)
	return New(db, ledger, evaluator, resolver, signals, log, "test")
}

func TestRecordActivityAwardsFirstSteps(t *testing.T) {
	srv := testServer(t, &llm.MockClient{ReplyText: "hi"})

	body := `{"userId":"u1","activityType":"practice_completion","category":"breathing","practiceSlug":"box-breathing"}`
	req := httptest.NewRequest("POST", "/api/engagement/activity", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Streak struct {
			Current int `json:"current"`
			Longest int `json:"longest"`
		} `json:"streak"`
		NewBadges []string `json:"newBadges"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Streak.Current != 1 {
		t.Errorf("current streak = %d, want 1", resp.Streak.Current)
	}
	if len(resp.NewBadges) != 1 || resp.NewBadges[0] != "first_steps" {
		t.Errorf("newBadges = %v, want [first_steps]", resp.NewBadges)
	}
}

func TestRecordActivityUnknownType(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"userId":"u1","activityType":"jazzercise"}`
	req := httptest.NewRequest("POST", "/api/engagement/activity", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRecordActivityNoNewBadgesSecondTime(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"userId":"u1","activityType":"reflection"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/engagement/activity", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
		}
		var resp struct {
			NewBadges []string `json:"newBadges"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		// Reflections never satisfy practice-based rules.
		if len(resp.NewBadges) != 0 {
			t.Errorf("newBadges = %v, want none", resp.NewBadges)
		}
	}
}

func TestTurnEndpoint(t *testing.T) {
	srv := testServer(t, &llm.MockClient{ReplyText: "I'm here. Tell me more?"})

	body := `{"userId":"u1","message":"rough morning"}`
	req := httptest.NewRequest("POST", "/api/session/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ConversationID string `json:"conversationId"`
		IsNew          bool   `json:"isNew"`
		AssistantReply string `json:"assistantReply"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ConversationID == "" || !resp.IsNew {
		t.Errorf("resp = %+v, want a new conversation", resp)
	}
	if resp.AssistantReply != "I'm here. Tell me more?" {
		t.Errorf("assistantReply = %q", resp.AssistantReply)
	}

	// Second turn with the returned id resumes, not restarts.
	body = fmt.Sprintf(`{"userId":"u1","conversationId":%q,"message":"still here"}`, resp.ConversationID)
	req = httptest.NewRequest("POST", "/api/session/turn", strings.NewReader(body))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var second struct {
		ConversationID string `json:"conversationId"`
		IsNew          bool   `json:"isNew"`
	}
	json.Unmarshal(w.Body.Bytes(), &second)
	if second.IsNew || second.ConversationID != resp.ConversationID {
		t.Errorf("second turn = %+v, want resume of %s", second, resp.ConversationID)
	}
}

func TestTurnEndpointBadConversationIDNeverErrors(t *testing.T) {
	srv := testServer(t, &llm.MockClient{ReplyText: "hi"})

	body := `{"userId":"u1","conversationId":"not-a-uuid","message":"hello"}`
	req := httptest.NewRequest("POST", "/api/session/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["conversationId"] == "not-a-uuid" || resp["conversationId"] == "" {
		t.Errorf("conversationId = %v, want a fresh valid id", resp["conversationId"])
	}
}

func TestTurnEndpointUpstreamFailure(t *testing.T) {
	srv := testServer(t, &llm.MockClient{Err: errors.New("provider down")})

	body := `{"userId":"u1","message":"hello"}`
	req := httptest.NewRequest("POST", "/api/session/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadGateway, w.Body.String())
	}
	var resp struct {
		Retryable bool `json:"retryable"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Retryable {
		t.Error("expected retryable error body")
	}
}

func TestTurnEndpointEmptyMessage(t *testing.T) {
	srv := testServer(t, &llm.MockClient{ReplyText: "hi"})

	body := `{"userId":"u1","message":""}`
	req := httptest.NewRequest("POST", "/api/session/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPersonalizationEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest("GET", "/api/session/personalization?userId=u1", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	for _, key := range []string{"recentActivityMessage", "streakMessage", "conversationContextSnippet"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("missing %s in %v", key, resp)
		}
	}
}

func TestPersonalizationRequiresUserID(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest("GET", "/api/session/personalization", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestScanCrisisEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"text":"I want to end my life"}`
	req := httptest.NewRequest("POST", "/api/text/scan-crisis", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		IsCrisis        bool     `json:"isCrisis"`
		MatchedKeywords []string `json:"matchedKeywords"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.IsCrisis || len(resp.MatchedKeywords) == 0 {
		t.Errorf("resp = %+v, want a crisis match", resp)
	}
}

func TestScanCrisisBenign(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"text":"I had a great day"}`
	req := httptest.NewRequest("POST", "/api/text/scan-crisis", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var resp struct {
		IsCrisis        bool     `json:"isCrisis"`
		MatchedKeywords []string `json:"matchedKeywords"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.IsCrisis {
		t.Errorf("resp = %+v, want no crisis", resp)
	}
	if resp.MatchedKeywords == nil {
		t.Error("matchedKeywords should be an empty array, not null")
	}
}

func TestStreakEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"userId":"u1","activityType":"practice_completion","category":"grounding","practiceSlug":"five-senses"}`
	req := httptest.NewRequest("POST", "/api/engagement/activity", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	req = httptest.NewRequest("GET", "/api/engagement/streak?userId=u1", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Current int `json:"current"`
		Longest int `json:"longest"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Current != 1 || resp.Longest != 1 {
		t.Errorf("streak = %+v, want 1/1", resp)
	}
}

func TestBadgesEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	body := `{"userId":"u1","activityType":"practice_completion","category":"silly","practiceSlug":"silly-face"}`
	req := httptest.NewRequest("POST", "/api/engagement/activity", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	req = httptest.NewRequest("GET", "/api/engagement/badges?userId=u1", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Badges []struct {
			BadgeType string `json:"badgeType"`
		} `json:"badges"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Badges) != 1 || resp.Badges[0].BadgeType != "first_steps" {
		t.Errorf("badges = %+v, want [first_steps]", resp.Badges)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest("GET", "/api/catalog", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Practices []struct {
			Slug string `json:"slug"`
		} `json:"practices"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Practices) != catalog.Size {
		t.Errorf("catalog = %d practices, want %d", len(resp.Practices), catalog.Size)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}
