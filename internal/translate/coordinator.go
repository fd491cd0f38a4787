// Package translate keeps every materialized content slice consistent with
// the user's chosen display language. Each translation scope (whole
// document, ad-hoc selection) has its own current language, its own batch
// lifecycle, and swaps its translated variants in atomically.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/SawyerAlston/BureauBuddy/internal/content"
)

// ErrBatchInFlight means the scope already has a translation batch running;
// the language change was not applied.
var ErrBatchInFlight = errors.New("translation batch already in flight")

// Scope is a translation grouping boundary.
type Scope string

const (
	// ScopeDocument covers the summary, requirements, and important info.
	ScopeDocument Scope = "document"

	// ScopeSelection covers the ad-hoc selection explanation and its steps.
	ScopeSelection Scope = "selection"
)

// SourceLanguage is the sentinel meaning "show source values, nothing in
// flight".
const SourceLanguage = "en"

// FailureMessage replaces a scope's translated state when any request in
// its batch fails. Downstream operations must tolerate it as input.
const FailureMessage = "Translation failed."

// Translator is the single remote call the coordinator depends on.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Coordinator re-derives translated slice variants on language changes.
type Coordinator struct {
	view *content.View
	tr   Translator

	mu          sync.Mutex
	languages   map[Scope]string
	translating map[Scope]bool
	revertHook  func(Scope)
}

// NewCoordinator creates a coordinator over the given view.
func NewCoordinator(view *content.View, tr Translator) *Coordinator {
	return &Coordinator{
		view: view,
		tr:   tr,
		languages: map[Scope]string{
			ScopeDocument:  SourceLanguage,
			ScopeSelection: SourceLanguage,
		},
		translating: map[Scope]bool{},
	}
}

// OnRevert registers a callback invoked after a scope reverts to the source
// language, letting dependent state (such as a pending draft failure
// message) clear alongside the translated variants.
func (c *Coordinator) OnRevert(fn func(Scope)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revertHook = fn
}

// Language returns the scope's current target language.
func (c *Coordinator) Language(scope Scope) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.languages[scope]
}

// Translating reports whether a batch is in flight for the scope.
func (c *Coordinator) Translating(scope Scope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translating[scope]
}

// SetLanguage switches the scope to the target language. The source
// language clears every translated variant synchronously with no network
// traffic; any other language re-requests a translation of every populated
// slice in the scope and swaps the results in as one atomic transition.
func (c *Coordinator) SetLanguage(ctx context.Context, scope Scope, code string) error {
	c.mu.Lock()
	if c.translating[scope] {
		c.mu.Unlock()
		return fmt.Errorf("scope %s: %w", scope, ErrBatchInFlight)
	}
	c.languages[scope] = code
	if code == SourceLanguage {
		c.mu.Unlock()
		c.clearScope(scope)
		return nil
	}
	c.translating[scope] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.translating[scope] = false
		c.mu.Unlock()
	}()

	var err error
	switch scope {
	case ScopeDocument:
		err = c.translateDocument(ctx, code)
	case ScopeSelection:
		err = c.translateSelection(ctx, code)
	default:
		return fmt.Errorf("unknown translation scope %q", scope)
	}

	if err != nil {
		log.Printf("translate: scope %s to %s failed: %v", scope, code, err)
		c.failScope(scope)
		return err
	}
	return nil
}

// translateDocument runs the whole-document batch: summary, requirements,
// and each important-info bucket are independent and translated in parallel.
func (c *Coordinator) translateDocument(ctx context.Context, code string) error {
	doc, _ := c.view.Snapshot()

	var (
		summary   string
		draft     string
		reqLabels []string
		info      content.Info
	)

	g, gctx := errgroup.WithContext(ctx)

	if doc.Summary != "" {
		g.Go(func() error {
			var err error
			summary, err = c.tr.Translate(gctx, doc.Summary, code)
			return err
		})
	}
	if doc.Draft != "" {
		g.Go(func() error {
			var err error
			draft, err = c.tr.Translate(gctx, doc.Draft, code)
			return err
		})
	}
	if len(doc.Requirements) > 0 {
		labels := make([]string, len(doc.Requirements))
		for i, r := range doc.Requirements {
			labels[i] = r.Label
		}
		g.Go(func() error {
			var err error
			reqLabels, err = c.translateList(gctx, labels, code)
			return err
		})
	}
	buckets := []struct {
		src []string
		dst *[]string
	}{
		{doc.Info.Deadlines, &info.Deadlines},
		{doc.Info.Notices, &info.Notices},
		{doc.Info.Rules, &info.Rules},
		{doc.Info.Other, &info.Other},
	}
	for _, b := range buckets {
		if len(b.src) == 0 {
			continue
		}
		b := b
		g.Go(func() error {
			out, err := c.translateList(gctx, b.src, code)
			if err != nil {
				return err
			}
			*b.dst = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Stage complete; swap the whole scope in one transition.
	c.view.Update(func(d *content.Document, _ *content.Selection) {
		d.TranslatedSummary = summary
		for i := range d.Requirements {
			if i < len(reqLabels) {
				d.Requirements[i].Translated = reqLabels[i]
			}
		}
		d.TranslatedInfo = info
		d.TranslatedDraft = draft
	})
	return nil
}

// translateSelection translates the explanation first, then the step list.
// Steps depend on the explanation having been produced, so the sequence is
// strict rather than parallel.
func (c *Coordinator) translateSelection(ctx context.Context, code string) error {
	_, sel := c.view.Snapshot()

	var (
		text    string
		entries []content.Entry
		steps   []string
		err     error
	)

	if sel.HasExplanation {
		if sel.Explanation.Structured() {
			entries, err = c.translateEntries(ctx, sel.Explanation.Entries, code)
		} else {
			text, err = c.tr.Translate(ctx, sel.Explanation.Text, code)
		}
		if err != nil {
			return err
		}
	}

	if len(sel.Steps) > 0 {
		steps, err = c.translateList(ctx, sel.Steps, code)
		if err != nil {
			return err
		}
	}

	c.view.Update(func(_ *content.Document, s *content.Selection) {
		s.Explanation.TranslatedText = text
		s.Explanation.TranslatedEntries = entries
		s.TranslatedSteps = steps
	})
	return nil
}

func (c *Coordinator) translateList(ctx context.Context, items []string, code string) ([]string, error) {
	return TranslateList(ctx, c.tr, items, code)
}

// TranslateList translates an ordered list as one newline-joined request
// and re-splits the response positionally. The remote translator is assumed
// to preserve line count and order; when it does not, each item is
// re-requested individually rather than letting labels misalign.
func TranslateList(ctx context.Context, tr Translator, items []string, code string) ([]string, error) {
	joined := strings.Join(items, "\n")
	out, err := tr.Translate(ctx, joined, code)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(parts) == len(items) {
		return parts, nil
	}

	log.Printf("translate: joined response has %d lines for %d items, retrying per item", len(parts), len(items))
	result := make([]string, len(items))
	for i, item := range items {
		translated, err := tr.Translate(ctx, item, code)
		if err != nil {
			return nil, err
		}
		result[i] = translated
	}
	return result, nil
}

// translateEntries translates the simple explanations of structured entries,
// keeping the original document wording in Part untouched.
func (c *Coordinator) translateEntries(ctx context.Context, entries []content.Entry, code string) ([]content.Entry, error) {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.SimpleExplanation
	}
	translated, err := c.translateList(ctx, texts, code)
	if err != nil {
		return nil, err
	}

	out := make([]content.Entry, len(entries))
	for i, e := range entries {
		out[i] = content.Entry{Part: e.Part, SimpleExplanation: translated[i]}
	}
	return out, nil
}

// clearScope drops every translated variant in the scope, restoring the
// source-language values, then notifies the revert hook.
func (c *Coordinator) clearScope(scope Scope) {
	c.view.Update(func(d *content.Document, s *content.Selection) {
		switch scope {
		case ScopeDocument:
			d.TranslatedSummary = ""
			for i := range d.Requirements {
				d.Requirements[i].Translated = ""
			}
			d.TranslatedInfo = content.Info{}
			d.TranslatedDraft = ""
		case ScopeSelection:
			s.Explanation.TranslatedText = ""
			s.Explanation.TranslatedEntries = nil
			s.TranslatedSteps = nil
		}
	})

	c.mu.Lock()
	hook := c.revertHook
	c.mu.Unlock()
	if hook != nil {
		hook(scope)
	}
}

// failScope replaces the scope's translated state with the failure message.
// Every slice that holds source content gets one, so nothing silently
// reverts to source-language display; the source values stay intact
// underneath.
func (c *Coordinator) failScope(scope Scope) {
	c.view.Update(func(d *content.Document, s *content.Selection) {
		switch scope {
		case ScopeDocument:
			if d.Summary != "" {
				d.TranslatedSummary = FailureMessage
			}
			for i := range d.Requirements {
				d.Requirements[i].Translated = FailureMessage
			}
			d.TranslatedInfo = failInfo(d.Info)
			if d.Draft != "" {
				d.TranslatedDraft = FailureMessage
			}
		case ScopeSelection:
			if s.HasExplanation {
				s.Explanation.TranslatedText = FailureMessage
				s.Explanation.TranslatedEntries = nil
			}
			if len(s.Steps) > 0 {
				s.TranslatedSteps = []string{FailureMessage}
			}
		}
	})
}

// failInfo mirrors the populated buckets of src with the failure message.
func failInfo(src content.Info) content.Info {
	var out content.Info
	if len(src.Deadlines) > 0 {
		out.Deadlines = []string{FailureMessage}
	}
	if len(src.Notices) > 0 {
		out.Notices = []string{FailureMessage}
	}
	if len(src.Rules) > 0 {
		out.Rules = []string{FailureMessage}
	}
	if len(src.Other) > 0 {
		out.Other = []string{FailureMessage}
	}
	return out
}
