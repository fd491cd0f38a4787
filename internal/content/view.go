package content

import "sync"

// Selection is the per-capture content group. Cleared at the start of every
// new capture cycle.
type Selection struct {
	HasExplanation bool
	Explanation    Explanation

	Steps           []string
	TranslatedSteps []string
}

// View is the slice state of one document view: the whole-document group
// and the ad-hoc selection group. The pipeline owns the source-language
// values, the translation coordinator owns the translated variants; one
// mutex guards both so every language swap is observed atomically.
type View struct {
	mu  sync.Mutex
	doc Document
	sel Selection
}

// NewView returns an empty document view.
func NewView() *View {
	return &View{}
}

// Update runs fn with exclusive access to the slice state.
func (v *View) Update(fn func(doc *Document, sel *Selection)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.doc, &v.sel)
}

// Snapshot returns a copy of the current slice state.
func (v *View) Snapshot() (Document, Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.doc
	doc.Requirements = append([]Requirement(nil), v.doc.Requirements...)
	doc.Info = copyInfo(v.doc.Info)
	doc.TranslatedInfo = copyInfo(v.doc.TranslatedInfo)

	sel := v.sel
	sel.Steps = append([]string(nil), v.sel.Steps...)
	sel.TranslatedSteps = append([]string(nil), v.sel.TranslatedSteps...)
	sel.Explanation.Entries = append([]Entry(nil), v.sel.Explanation.Entries...)
	sel.Explanation.TranslatedEntries = append([]Entry(nil), v.sel.Explanation.TranslatedEntries...)

	return doc, sel
}

// Reset clears everything, restoring upload-screen state.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.doc = Document{}
	v.sel = Selection{}
}

func copyInfo(in Info) Info {
	return Info{
		Deadlines: append([]string(nil), in.Deadlines...),
		Notices:   append([]string(nil), in.Notices...),
		Rules:     append([]string(nil), in.Rules...),
		Other:     append([]string(nil), in.Other...),
	}
}
