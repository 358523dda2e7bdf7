// Package safety provides the crisis keyword scanner. Stateless and purely
// advisory: the caller decides what to do with a flagged message.
package safety

import "strings"

// crisisKeywords is the fixed phrase list, matched case-insensitively as
// substrings. Ordering here is the ordering of matches in the result.
var crisisKeywords = []string{
	"kill myself",
	"end my life",
	"suicide",
	"suicidal",
	"want to die",
	"better off dead",
	"end it all",
	"hurt myself",
	"harm myself",
	"self-harm",
	"self harm",
	"hurt someone",
	"kill someone",
}

// ScanResult reports whether text matched the crisis list and which phrases.
type ScanResult struct {
	IsCrisis        bool     `json:"isCrisis"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// Scan checks free text against the crisis keyword list.
func Scan(text string) ScanResult {
	lowered := strings.ToLower(text)
	var matched []string
	for _, kw := range crisisKeywords {
		if strings.Contains(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	return ScanResult{
		IsCrisis:        len(matched) > 0,
		MatchedKeywords: matched,
	}
}
