package content

import (
	"encoding/json"
	"strings"
)

// Entry is one structured piece of a selection explanation: the original
// wording and its plain-language meaning.
type Entry struct {
	Part              string `json:"part"`
	SimpleExplanation string `json:"simple_explanation"`
}

// Explanation is the ad-hoc selection explanation slice. The backend may
// return either a plain string or a JSON array of entries; exactly one of
// Text/Entries is populated.
type Explanation struct {
	Text    string
	Entries []Entry

	// Translated mirrors of the above, set while a non-English selection
	// language is active.
	TranslatedText    string
	TranslatedEntries []Entry
}

// Structured reports whether the explanation parsed as entry records.
func (e *Explanation) Structured() bool {
	return len(e.Entries) > 0
}

// DisplayText returns the current-language flat text of the explanation,
// joining structured entries into readable lines.
func (e *Explanation) DisplayText() string {
	if e.TranslatedText != "" {
		return e.TranslatedText
	}
	if len(e.TranslatedEntries) > 0 {
		return joinEntries(e.TranslatedEntries)
	}
	if len(e.Entries) > 0 {
		return joinEntries(e.Entries)
	}
	return e.Text
}

func joinEntries(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, en := range entries {
		parts[i] = en.Part + ": " + en.SimpleExplanation
	}
	return strings.Join(parts, "\n")
}

// ParseExplanation interprets a simplify payload. A payload whose first
// non-space byte is '[' is tried as a JSON entry array; anything that fails
// to parse is kept verbatim as plain text, never treated as an error.
func ParseExplanation(payload string) Explanation {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "[") {
		var entries []Entry
		if err := json.Unmarshal([]byte(trimmed), &entries); err == nil && len(entries) > 0 {
			return Explanation{Entries: entries}
		}
	}
	return Explanation{Text: payload}
}
