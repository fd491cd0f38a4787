package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/SawyerAlston/BureauBuddy/internal/content"
)

// stubTranslator prefixes each line with the target code, preserving line
// count, and records every request.
type stubTranslator struct {
	mu       sync.Mutex
	calls    []string
	err      error
	mangling bool // drop line breaks, simulating a count-mismatching translator
}

func (s *stubTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.mangling {
		return "[" + target + "] " + strings.ReplaceAll(text, "\n", " "), nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "[" + target + "] " + l
	}
	return strings.Join(lines, "\n"), nil
}

func (s *stubTranslator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func seededView() *content.View {
	v := content.NewView()
	v.Update(func(d *content.Document, _ *content.Selection) {
		d.Summary = "S"
		d.Requirements = []content.Requirement{{ID: "req-1", Label: "Full Legal Name"}}
	})
	return v
}

func TestSetLanguage_DocumentScope(t *testing.T) {
	view := seededView()
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	// One call for the summary, one joined call for the requirement list.
	if got := tr.callCount(); got != 2 {
		t.Errorf("translate calls: got %d, want 2", got)
	}

	doc, _ := view.Snapshot()
	if doc.TranslatedSummary != "[fr] S" {
		t.Errorf("translated summary: got %q, want %q", doc.TranslatedSummary, "[fr] S")
	}
	if doc.Requirements[0].Translated != "[fr] Full Legal Name" {
		t.Errorf("translated requirement: got %q", doc.Requirements[0].Translated)
	}
	if doc.Summary != "S" || doc.Requirements[0].Label != "Full Legal Name" {
		t.Error("source-language values must stay immutable")
	}
	if got := c.Language(ScopeDocument); got != "fr" {
		t.Errorf("language: got %q, want fr", got)
	}
}

func TestSetLanguage_RevertToSource(t *testing.T) {
	view := seededView()
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("SetLanguage(fr) failed: %v", err)
	}
	calls := tr.callCount()

	if err := c.SetLanguage(context.Background(), ScopeDocument, "en"); err != nil {
		t.Fatalf("SetLanguage(en) failed: %v", err)
	}

	// Reverting is synchronous and touches no network.
	if tr.callCount() != calls {
		t.Errorf("revert issued %d extra calls", tr.callCount()-calls)
	}

	doc, _ := view.Snapshot()
	if doc.TranslatedSummary != "" {
		t.Errorf("translated summary not cleared: %q", doc.TranslatedSummary)
	}
	if doc.Requirements[0].Translated != "" {
		t.Errorf("translated requirement not cleared: %q", doc.Requirements[0].Translated)
	}
	if doc.DisplaySummary() != "S" {
		t.Errorf("round trip: got %q, want original %q", doc.DisplaySummary(), "S")
	}
	if doc.Requirements[0].DisplayLabel() != "Full Legal Name" {
		t.Errorf("round trip label: got %q", doc.Requirements[0].DisplayLabel())
	}
}

func TestTranslateList_PositionalRezip(t *testing.T) {
	view := content.NewView()
	items := []string{"Passport", "Birth Certificate", "Tax forms"}
	view.Update(func(d *content.Document, _ *content.Selection) {
		for i, label := range items {
			d.Requirements = append(d.Requirements, content.Requirement{
				ID:    fmt.Sprintf("req-%d", i+1),
				Label: label,
			})
		}
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "es"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	doc, _ := view.Snapshot()
	if len(doc.Requirements) != len(items) {
		t.Fatalf("requirement count changed: got %d", len(doc.Requirements))
	}
	for i, r := range doc.Requirements {
		want := "[es] " + items[i]
		if r.Translated != want {
			t.Errorf("requirement %d: got %q, want %q", i, r.Translated, want)
		}
		if r.ID != fmt.Sprintf("req-%d", i+1) {
			t.Errorf("requirement %d id changed: %q", i, r.ID)
		}
	}
}

func TestTranslateList_CountMismatchFallsBackPerItem(t *testing.T) {
	view := content.NewView()
	view.Update(func(d *content.Document, _ *content.Selection) {
		d.Requirements = []content.Requirement{
			{ID: "req-1", Label: "Passport"},
			{ID: "req-2", Label: "Birth Certificate"},
		}
	})
	tr := &stubTranslator{mangling: true}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "es"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	doc, _ := view.Snapshot()
	// The mangling stub flattens joined requests, so each item is re-requested
	// individually and still lands on its own requirement.
	if doc.Requirements[0].Translated != "[es] Passport" {
		t.Errorf("requirement 0: got %q", doc.Requirements[0].Translated)
	}
	if doc.Requirements[1].Translated != "[es] Birth Certificate" {
		t.Errorf("requirement 1: got %q", doc.Requirements[1].Translated)
	}
	// 1 joined attempt + 2 per-item retries.
	if got := tr.callCount(); got != 3 {
		t.Errorf("translate calls: got %d, want 3", got)
	}
}

func TestSetLanguage_FailureSetsFailureMessage(t *testing.T) {
	view := seededView()
	view.Update(func(d *content.Document, _ *content.Selection) {
		d.Info.Deadlines = []string{"June 1"}
		d.Info.Rules = []string{"No subletting"}
		d.Draft = "Dear Sir or Madam,"
	})
	tr := &stubTranslator{err: errors.New("boom")}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err == nil {
		t.Fatal("SetLanguage should report the batch failure")
	}

	doc, _ := view.Snapshot()
	if doc.TranslatedSummary != FailureMessage {
		t.Errorf("summary: got %q, want %q", doc.TranslatedSummary, FailureMessage)
	}
	if doc.Requirements[0].Translated != FailureMessage {
		t.Errorf("requirement: got %q, want %q", doc.Requirements[0].Translated, FailureMessage)
	}

	// Populated list slices show the failure message too, never the
	// source-language values; untouched buckets stay empty.
	if got := doc.TranslatedInfo.Deadlines; len(got) != 1 || got[0] != FailureMessage {
		t.Errorf("deadlines: got %v, want [%q]", got, FailureMessage)
	}
	if got := doc.TranslatedInfo.Rules; len(got) != 1 || got[0] != FailureMessage {
		t.Errorf("rules: got %v, want [%q]", got, FailureMessage)
	}
	if len(doc.TranslatedInfo.Notices) != 0 || len(doc.TranslatedInfo.Other) != 0 {
		t.Errorf("empty buckets gained entries: %+v", doc.TranslatedInfo)
	}
	if doc.TranslatedDraft != FailureMessage {
		t.Errorf("draft: got %q, want %q", doc.TranslatedDraft, FailureMessage)
	}

	if doc.Summary != "S" {
		t.Error("source summary must survive a failed batch")
	}
	if c.Translating(ScopeDocument) {
		t.Error("translating flag stuck after failure")
	}
}

func TestSetLanguage_SelectionFailureCoversSteps(t *testing.T) {
	view := content.NewView()
	view.Update(func(_ *content.Document, s *content.Selection) {
		s.HasExplanation = true
		s.Explanation = content.Explanation{Text: "plain words"}
		s.Steps = []string{"Sign the form", "Mail it"}
	})
	tr := &stubTranslator{err: errors.New("boom")}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeSelection, "es"); err == nil {
		t.Fatal("SetLanguage should report the batch failure")
	}

	_, sel := view.Snapshot()
	if sel.Explanation.TranslatedText != FailureMessage {
		t.Errorf("explanation: got %q, want %q", sel.Explanation.TranslatedText, FailureMessage)
	}
	if got := sel.TranslatedSteps; len(got) != 1 || got[0] != FailureMessage {
		t.Errorf("steps: got %v, want [%q]", got, FailureMessage)
	}
	if len(sel.Steps) != 2 {
		t.Error("source steps must survive a failed batch")
	}
}

func TestSetLanguage_SelectionScope(t *testing.T) {
	view := content.NewView()
	view.Update(func(_ *content.Document, s *content.Selection) {
		s.HasExplanation = true
		s.Explanation = content.Explanation{Text: "It means you must reply."}
		s.Steps = []string{"Sign the form", "Mail it"}
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeSelection, "es"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	_, sel := view.Snapshot()
	if sel.Explanation.TranslatedText != "[es] It means you must reply." {
		t.Errorf("explanation: got %q", sel.Explanation.TranslatedText)
	}
	if len(sel.TranslatedSteps) != 2 || sel.TranslatedSteps[1] != "[es] Mail it" {
		t.Errorf("steps: got %v", sel.TranslatedSteps)
	}

	// Explanation is translated before steps: its request comes first.
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.calls) != 2 || !strings.Contains(tr.calls[0], "reply") {
		t.Errorf("call order: got %v", tr.calls)
	}
}

func TestSetLanguage_SelectionStructuredEntries(t *testing.T) {
	view := content.NewView()
	view.Update(func(_ *content.Document, s *content.Selection) {
		s.HasExplanation = true
		s.Explanation = content.Explanation{Entries: []content.Entry{
			{Part: "Clause 1", SimpleExplanation: "means X"},
			{Part: "Clause 2", SimpleExplanation: "means Y"},
		}}
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeSelection, "fr"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	_, sel := view.Snapshot()
	if len(sel.Explanation.TranslatedEntries) != 2 {
		t.Fatalf("translated entries: got %d, want 2", len(sel.Explanation.TranslatedEntries))
	}
	// Original document wording stays; only the explanations translate.
	if sel.Explanation.TranslatedEntries[0].Part != "Clause 1" {
		t.Errorf("part changed: %q", sel.Explanation.TranslatedEntries[0].Part)
	}
	if sel.Explanation.TranslatedEntries[0].SimpleExplanation != "[fr] means X" {
		t.Errorf("explanation: got %q", sel.Explanation.TranslatedEntries[0].SimpleExplanation)
	}
}

func TestScopes_Independent(t *testing.T) {
	view := seededView()
	view.Update(func(_ *content.Document, s *content.Selection) {
		s.HasExplanation = true
		s.Explanation = content.Explanation{Text: "E"}
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("document scope failed: %v", err)
	}
	if err := c.SetLanguage(context.Background(), ScopeSelection, "es"); err != nil {
		t.Fatalf("selection scope failed: %v", err)
	}

	if c.Language(ScopeDocument) != "fr" || c.Language(ScopeSelection) != "es" {
		t.Errorf("scope languages: doc=%s sel=%s, want fr/es",
			c.Language(ScopeDocument), c.Language(ScopeSelection))
	}

	doc, sel := view.Snapshot()
	if doc.TranslatedSummary != "[fr] S" {
		t.Errorf("document summary: got %q", doc.TranslatedSummary)
	}
	if sel.Explanation.TranslatedText != "[es] E" {
		t.Errorf("selection explanation: got %q", sel.Explanation.TranslatedText)
	}
}

func TestSetLanguage_EmptyScopeNoCalls(t *testing.T) {
	view := content.NewView()
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if tr.callCount() != 0 {
		t.Errorf("unpopulated scope issued %d calls", tr.callCount())
	}
}

func TestSetLanguage_DocumentScopeIncludesDraft(t *testing.T) {
	view := seededView()
	view.Update(func(d *content.Document, _ *content.Selection) {
		d.Draft = "Dear Sir or Madam,"
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	doc, _ := view.Snapshot()
	if doc.TranslatedDraft != "[fr] Dear Sir or Madam," {
		t.Errorf("translated draft: got %q", doc.TranslatedDraft)
	}
	if doc.Draft != "Dear Sir or Madam," {
		t.Error("source draft must stay immutable")
	}
	if doc.DisplayDraft() != "[fr] Dear Sir or Madam," {
		t.Errorf("DisplayDraft: got %q", doc.DisplayDraft())
	}
}

func TestSetLanguage_RevertClearsDraftAndNotifies(t *testing.T) {
	view := seededView()
	view.Update(func(d *content.Document, _ *content.Selection) {
		d.Draft = "Dear Sir or Madam,"
	})
	tr := &stubTranslator{}
	c := NewCoordinator(view, tr)

	var reverted []Scope
	c.OnRevert(func(s Scope) { reverted = append(reverted, s) })

	if err := c.SetLanguage(context.Background(), ScopeDocument, "fr"); err != nil {
		t.Fatalf("SetLanguage(fr) failed: %v", err)
	}
	if err := c.SetLanguage(context.Background(), ScopeDocument, "en"); err != nil {
		t.Fatalf("SetLanguage(en) failed: %v", err)
	}

	doc, _ := view.Snapshot()
	if doc.TranslatedDraft != "" {
		t.Errorf("translated draft not cleared: %q", doc.TranslatedDraft)
	}
	if len(reverted) != 1 || reverted[0] != ScopeDocument {
		t.Errorf("revert notifications: got %v, want [document]", reverted)
	}
}

// gatedTranslator parks every request until released.
type gatedTranslator struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return text, nil
}

func TestSetLanguage_BatchInFlight(t *testing.T) {
	view := seededView()
	tr := &gatedTranslator{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewCoordinator(view, tr)

	done := make(chan error, 1)
	go func() { done <- c.SetLanguage(context.Background(), ScopeDocument, "fr") }()
	<-tr.entered

	if err := c.SetLanguage(context.Background(), ScopeDocument, "es"); !errors.Is(err, ErrBatchInFlight) {
		t.Errorf("got %v, want ErrBatchInFlight", err)
	}

	close(tr.release)
	if err := <-done; err != nil {
		t.Fatalf("first batch failed: %v", err)
	}
}
