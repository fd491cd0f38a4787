package content

import "strings"

// GenericDocumentType is used when no trigger phrase matches the summary.
const GenericDocumentType = "general document"

// documentTypePhrases maps case-insensitive trigger phrases to the document
// type label sent with draft requests. First match wins, in this order.
var documentTypePhrases = []struct {
	phrase string
	label  string
}{
	{"notice to vacate", "notice to vacate"},
	{"eviction", "eviction notice"},
	{"denial of benefits", "benefits denial"},
	{"benefits have been denied", "benefits denial"},
	{"summons", "court summons"},
	{"termination", "termination notice"},
	{"appeal", "appeal form"},
}

// ClassifyDocument picks a document-type label for drafting by simple
// case-insensitive substring matching against the summary text.
func ClassifyDocument(summary string) string {
	lower := strings.ToLower(summary)
	for _, dt := range documentTypePhrases {
		if strings.Contains(lower, dt.phrase) {
			return dt.label
		}
	}
	return GenericDocumentType
}

// languageNames maps target-language codes to the display names the draft
// endpoint expects. Codes outside the table fall back to the code itself.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
	"vi": "Vietnamese",
	"ko": "Korean",
	"ar": "Arabic",
	"ru": "Russian",
	"pt": "Portuguese",
	"ht": "Haitian Creole",
}

// LanguageName returns the display name for a language code.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
