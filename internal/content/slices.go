// Package content holds the derived document content the rest of the
// application works with: the whole-document slices produced by analysis
// (summary, requirements, important info) and the per-selection slices
// (explanation, steps, drafts). Each slice keeps its source-language value
// immutable and carries an optional current translation alongside it.
package content

import "strings"

// Requirement is one labeled item from the document's requirement list.
// The ID stays stable across translations so translated labels re-attach
// to the same item.
type Requirement struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Translated is the current-language label, empty when showing source.
	Translated string `json:"translated,omitempty"`
}

// DisplayLabel returns the translated label if one is present.
func (r Requirement) DisplayLabel() string {
	if r.Translated != "" {
		return r.Translated
	}
	return r.Label
}

// Info holds the categorized important-info buckets.
type Info struct {
	Deadlines []string `json:"deadlines"`
	Notices   []string `json:"notices"`
	Rules     []string `json:"rules"`
	Other     []string `json:"other"`
}

// Empty reports whether no bucket has any entries.
func (i Info) Empty() bool {
	return len(i.Deadlines) == 0 && len(i.Notices) == 0 && len(i.Rules) == 0 && len(i.Other) == 0
}

// Document is the whole-document content group. Created once per successful
// analysis, it persists until the user navigates back to the upload screen.
type Document struct {
	Purpose         string
	Summary         string
	TranscribedText string
	Requirements    []Requirement
	Info            Info

	// Draft is the most recent reply letter, classified from the summary.
	// It belongs to the document group: capture cycles never clear it.
	Draft string

	// Translated variants, replaced wholesale on every language change and
	// cleared on revert to the source language.
	TranslatedSummary string
	TranslatedInfo    Info
	TranslatedDraft   string
}

// DisplaySummary returns the translated summary when one is active.
func (d *Document) DisplaySummary() string {
	if d.TranslatedSummary != "" {
		return d.TranslatedSummary
	}
	return d.Summary
}

// DisplayDraft returns the translated draft when one is active.
func (d *Document) DisplayDraft() string {
	if d.TranslatedDraft != "" {
		return d.TranslatedDraft
	}
	return d.Draft
}

// ContextString assembles the document context sent with chat, next-steps
// and draft requests. Only non-empty slices are included, in fixed order,
// each with a labeled prefix.
func (d *Document) ContextString() string {
	var b strings.Builder

	appendList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(label)
		b.WriteString(":\n")
		b.WriteString(strings.Join(items, "\n"))
	}

	if d.Summary != "" {
		b.WriteString("Summary:\n")
		b.WriteString(d.Summary)
	}
	if len(d.Requirements) > 0 {
		labels := make([]string, len(d.Requirements))
		for i, r := range d.Requirements {
			labels[i] = r.Label
		}
		appendList("Requirements", labels)
	}
	appendList("Deadlines", d.Info.Deadlines)
	appendList("Notices", d.Info.Notices)
	appendList("Rules", d.Info.Rules)
	appendList("Other important information", d.Info.Other)

	return b.String()
}
