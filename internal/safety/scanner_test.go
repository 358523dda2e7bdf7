package safety

import (
	"testing"
)

func TestScanCrisisPhrase(t *testing.T) {
	result := Scan("I want to end my life")
	if !result.IsCrisis {
		t.Fatal("expected crisis flag")
	}
	found := false
	for _, kw := range result.MatchedKeywords {
		if kw == "end my life" {
			found = true
		}
	}
	if !found {
		t.Errorf("matched = %v, want to include %q", result.MatchedKeywords, "end my life")
	}
}

func TestScanBenignText(t *testing.T) {
	result := Scan("I had a great day")
	if result.IsCrisis {
		t.Errorf("unexpected crisis flag, matched %v", result.MatchedKeywords)
	}
	if len(result.MatchedKeywords) != 0 {
		t.Errorf("matched = %v, want none", result.MatchedKeywords)
	}
}

func TestScanCaseInsensitive(t *testing.T) {
	result := Scan("Sometimes I think about SUICIDE.")
	if !result.IsCrisis {
		t.Fatal("expected crisis flag")
	}
}

func TestScanMultipleMatchesInListOrder(t *testing.T) {
	result := Scan("i want to die, i might hurt myself")
	if len(result.MatchedKeywords) < 2 {
		t.Fatalf("matched = %v, want at least 2", result.MatchedKeywords)
	}
	if result.MatchedKeywords[0] != "want to die" {
		t.Errorf("first match = %q, want list order preserved", result.MatchedKeywords[0])
	}
}

func TestScanEmpty(t *testing.T) {
	if Scan("").IsCrisis {
		t.Error("empty text flagged as crisis")
	}
}
