// Package pipeline drives the two remote explanation chains: the document
// chain run once per upload (analyze, then best-effort important-info
// enrichment) and the selection chain run per capture (transcribe, then
// simplify against the document context).
//
// Every remote failure is caught here, logged, and converted into a scoped
// user-facing message; no chain failure propagates past the pipeline, and
// the in-flight flag of the triggering operation is cleared on every path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SawyerAlston/BureauBuddy/internal/backend"
	"github.com/SawyerAlston/BureauBuddy/internal/capture"
	"github.com/SawyerAlston/BureauBuddy/internal/content"
	"github.com/SawyerAlston/BureauBuddy/internal/ocr"
	"github.com/SawyerAlston/BureauBuddy/internal/translate"
)

// ErrNoTextDetected is returned when a selection contains no recognizable
// text. It is a distinct outcome, not a chain failure: the user sees the
// no-text message and no simplify request is made.
var ErrNoTextDetected = errors.New("no text detected")

// ErrNoExplanation is returned when a dependent operation needs a selection
// explanation that does not exist yet.
var ErrNoExplanation = errors.New("no explanation available")

// ErrBusy is returned when the same operation is already in flight.
var ErrBusy = errors.New("operation already in flight")

// User-facing failure messages, one per chain operation.
const (
	AnalyzeFailureMessage = "Failed to analyze the document."
	ExplainFailureMessage = "Failed to explain the selected area."
	NoTextMessage         = "No text detected in the selected area."
	StepsFailureMessage   = "Could not generate next steps."
	DraftFailureMessage   = "Could not draft a response."
)

// Backend is the remote surface the chains run against. *backend.Client
// satisfies it.
type Backend interface {
	AnalyzeUpload(ctx context.Context, filename, mimeType string, r io.Reader) (*backend.Analysis, error)
	AnalyzeImage(ctx context.Context, base64Content, mimeType string) (*backend.Analysis, error)
	ImportantInfo(ctx context.Context, documentContext string) (*backend.Info, error)
	Simplify(ctx context.Context, selectedText, documentContext string) (string, error)
	NextSteps(ctx context.Context, formContext string) ([]string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	DraftResponse(ctx context.Context, documentType, documentContext, language string) (string, error)
}

// Transcriber recognizes text in a captured region locally. Used as a
// fallback when remote transcription is unreachable.
type Transcriber func(img image.Image) (string, error)

// Status is a snapshot of the pipeline's in-flight flags and scoped error
// messages. Empty message strings mean no pending failure in that scope.
type Status struct {
	Analyzing       bool
	Explaining      bool
	GeneratingSteps bool
	Drafting        bool

	DocumentError  string
	SelectionError string
	StepsError     string
	DraftError     string
}

// Pipeline owns the source-language slices of a document view and runs the
// remote chains that populate them.
type Pipeline struct {
	backend     Backend
	view        *content.View
	transcriber Transcriber

	bg errgroup.Group

	mu     sync.Mutex
	cycle  string
	status Status
}

// New builds a pipeline over the given view. A nil transcriber defaults to
// the local Tesseract fallback.
func New(b Backend, view *content.View, transcriber Transcriber) *Pipeline {
	if transcriber == nil {
		transcriber = ocr.Transcribe
	}
	return &Pipeline{backend: b, view: view, transcriber: transcriber}
}

// Status returns the current in-flight flags and scoped errors.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LoadDocument runs the document chain: the upload is analyzed, the
// resulting summary, purpose and requirement list replace the current
// document group, and important-info extraction is kicked off in the
// background. Enrichment failure is logged and absorbed; a document
// without important info is a valid terminal state.
func (p *Pipeline) LoadDocument(ctx context.Context, filename, mimeType string, r io.Reader) error {
	p.mu.Lock()
	if p.status.Analyzing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.status.Analyzing = true
	p.status.DocumentError = ""
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.status.Analyzing = false
		p.mu.Unlock()
	}()

	analysis, err := p.backend.AnalyzeUpload(ctx, filename, mimeType, r)
	if err != nil {
		log.Printf("document analysis failed: %v", err)
		p.mu.Lock()
		p.status.DocumentError = AnalyzeFailureMessage
		p.mu.Unlock()
		return nil
	}

	reqs := make([]content.Requirement, len(analysis.Requirements))
	for i, label := range analysis.Requirements {
		reqs[i] = content.Requirement{ID: fmt.Sprintf("req-%d", i+1), Label: label}
	}
	p.view.Update(func(doc *content.Document, sel *content.Selection) {
		*doc = content.Document{
			Purpose:         analysis.Purpose,
			Summary:         analysis.Summary,
			TranscribedText: analysis.TranscribedText,
			Requirements:    reqs,
		}
		*sel = content.Selection{}
	})

	infoContext := strings.TrimSpace(analysis.TranscribedText)
	if infoContext == "" {
		infoContext = analysis.Summary
	}
	p.bg.Go(func() error {
		info, err := p.backend.ImportantInfo(ctx, infoContext)
		if err != nil {
			log.Printf("important info fetch failed: %v", err)
			return nil
		}
		p.view.Update(func(doc *content.Document, _ *content.Selection) {
			doc.Info = content.Info{
				Deadlines: info.Deadlines,
				Notices:   info.Notices,
				Rules:     info.Rules,
				Other:     info.Other,
			}
		})
		return nil
	})
	return nil
}

// Wait blocks until background enrichment from previous loads has settled.
func (p *Pipeline) Wait() {
	p.bg.Wait()
}

// ExplainSelection runs the selection chain on an extracted still. Each
// call starts a fresh capture cycle: prior selection content is cleared
// immediately, and a response belonging to a superseded cycle is dropped
// instead of overwriting the newer capture's state.
func (p *Pipeline) ExplainSelection(ctx context.Context, still *capture.Still) error {
	if still == nil {
		return errors.New("explain selection: nil still")
	}

	id := uuid.NewString()
	p.mu.Lock()
	p.cycle = id
	p.status.Explaining = true
	p.status.SelectionError = ""
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		if p.cycle == id {
			p.status.Explaining = false
		}
		p.mu.Unlock()
	}()

	p.view.Update(func(_ *content.Document, sel *content.Selection) {
		*sel = content.Selection{}
	})

	// Blank regions short-circuit before any network round trip.
	if img, err := still.Decode(); err == nil && capture.IsBlank(img) {
		p.failSelection(id, NoTextMessage)
		return ErrNoTextDetected
	}

	text, failed := p.transcribeStill(ctx, still)
	if failed {
		p.failSelection(id, ExplainFailureMessage)
		return nil
	}
	if text == "" {
		p.failSelection(id, NoTextMessage)
		return ErrNoTextDetected
	}

	doc, _ := p.view.Snapshot()
	payload, err := p.backend.Simplify(ctx, text, doc.ContextString())
	if err != nil {
		log.Printf("simplify failed: %v", err)
		p.failSelection(id, ExplainFailureMessage)
		return nil
	}
	parsed := content.ParseExplanation(payload)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cycle != id {
		return nil
	}
	p.view.Update(func(_ *content.Document, sel *content.Selection) {
		sel.HasExplanation = true
		sel.Explanation = parsed
	})
	return nil
}

// transcribeStill returns the recognized text of a still, preferring the
// remote analyzer and falling back to local OCR when it is unreachable.
// failed is true only when both paths errored.
func (p *Pipeline) transcribeStill(ctx context.Context, still *capture.Still) (text string, failed bool) {
	analysis, err := p.backend.AnalyzeImage(ctx, still.ImageBase64, still.MimeType)
	if err == nil {
		return strings.TrimSpace(analysis.TranscribedText), false
	}
	log.Printf("selection transcription failed: %v", err)

	img, derr := still.Decode()
	if derr != nil {
		log.Printf("still decode failed: %v", derr)
		return "", true
	}
	local, oerr := p.transcriber(img)
	if oerr != nil {
		log.Printf("local transcription failed: %v", oerr)
		return "", true
	}
	return strings.TrimSpace(local), false
}

// GenerateSteps requests a step list for the current explanation, using its
// translated text when a selection language is active. With a non-English
// language code the fresh steps are translated as one joined request before
// anything is stored, so the list never renders half-translated.
func (p *Pipeline) GenerateSteps(ctx context.Context, language string) error {
	_, sel := p.view.Snapshot()
	if !sel.HasExplanation {
		return ErrNoExplanation
	}

	p.mu.Lock()
	if p.status.GeneratingSteps {
		p.mu.Unlock()
		return ErrBusy
	}
	p.status.GeneratingSteps = true
	p.status.StepsError = ""
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.status.GeneratingSteps = false
		p.mu.Unlock()
	}()

	steps, err := p.backend.NextSteps(ctx, sel.Explanation.DisplayText())
	if err != nil {
		log.Printf("next steps failed: %v", err)
		p.mu.Lock()
		p.status.StepsError = StepsFailureMessage
		p.mu.Unlock()
		return nil
	}

	var translated []string
	if language != "" && language != translate.SourceLanguage && len(steps) > 0 {
		translated, err = translate.TranslateList(ctx, p.backend, steps, language)
		if err != nil {
			log.Printf("steps translation failed: %v", err)
			translated = nil
		}
	}

	p.view.Update(func(_ *content.Document, sel *content.Selection) {
		sel.Steps = steps
		sel.TranslatedSteps = translated
	})
	return nil
}

// GenerateDraft requests a reply draft for the current document, classified
// from its summary, in the given language. The language is a code; the
// remote endpoint receives its display name.
func (p *Pipeline) GenerateDraft(ctx context.Context, language string) error {
	p.mu.Lock()
	if p.status.Drafting {
		p.mu.Unlock()
		return ErrBusy
	}
	p.status.Drafting = true
	p.status.DraftError = ""
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.status.Drafting = false
		p.mu.Unlock()
	}()

	doc, _ := p.view.Snapshot()
	if language == "" {
		language = translate.SourceLanguage
	}
	docType := content.ClassifyDocument(doc.Summary)

	draft, err := p.backend.DraftResponse(ctx, docType, doc.ContextString(), content.LanguageName(language))
	if err != nil {
		log.Printf("draft response failed: %v", err)
		p.mu.Lock()
		p.status.DraftError = DraftFailureMessage
		p.mu.Unlock()
		return nil
	}

	p.view.Update(func(doc *content.Document, _ *content.Selection) {
		doc.Draft = draft
		doc.TranslatedDraft = ""
	})
	return nil
}

// ClearDraftError drops a pending draft failure message. Wired to the
// translation coordinator's revert hook so switching back to the source
// language clears dependent draft state.
func (p *Pipeline) ClearDraftError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.DraftError = ""
}

// Reset restores upload-screen state: both content groups are cleared, all
// scoped errors drop, and any in-flight selection response is invalidated.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.cycle = ""
	p.status = Status{}
	p.mu.Unlock()
	p.view.Reset()
}

// failSelection records a selection-scope message unless the cycle has been
// superseded by a newer capture.
func (p *Pipeline) failSelection(id, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cycle == id {
		p.status.SelectionError = msg
	}
}
