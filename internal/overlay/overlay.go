package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SawyerAlston/BureauBuddy/internal/capture"
	"github.com/SawyerAlston/BureauBuddy/internal/geometry"
)

var (
	// ErrSelectionTooSmall means the dragged rectangle is below the minimum
	// size on at least one axis. The overlay stays in Selecting so the user
	// can redraw.
	ErrSelectionTooSmall = errors.New("selection too small")

	// ErrBusy means a capture cycle or explanation request is already in
	// flight and a new one cannot begin.
	ErrBusy = errors.New("capture or explanation already in progress")
)

// Overlay is the drag-to-select state machine.
//
// Transitions: Idle -> Capturing -> Selecting -> (Completed | Cancelled),
// returning to Idle. The capture session is stopped on every exit path and
// escape handling is only armed while a cycle is active.
type Overlay struct {
	session  *capture.Session
	busy     func() bool
	complete func(*capture.Still)

	mu          sync.Mutex
	state       State
	lastOutcome State
	escapeArmed bool

	viewportW, viewportH int
	anchorX, anchorY     int
	anchored             bool
	region               geometry.Rect
}

// New creates an overlay over the given capture session. busy reports
// whether an explanation request is in flight (nil means never busy);
// complete receives the extracted still of every valid selection.
func New(session *capture.Session, busy func() bool, complete func(*capture.Still)) *Overlay {
	if busy == nil {
		busy = func() bool { return false }
	}
	if complete == nil {
		complete = func(*capture.Still) {}
	}
	return &Overlay{
		session:  session,
		busy:     busy,
		complete: complete,
		state:    StateIdle,
	}
}

// State returns the current overlay state.
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastOutcome returns the terminal state of the most recent cycle,
// Completed or Cancelled.
func (o *Overlay) LastOutcome() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastOutcome
}

// EscapeArmed reports whether the Escape key is currently handled.
func (o *Overlay) EscapeArmed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.escapeArmed
}

// Region returns the current selection rectangle. Only meaningful while a
// drag is in progress.
func (o *Overlay) Region() geometry.Rect {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.region
}

// Begin starts a capture cycle: Idle -> Capturing. The viewport size is the
// on-screen size of the preview the user will drag over. Blocked while a
// cycle is active or an explanation is in flight; a failed acquisition flips
// straight back to Idle.
func (o *Overlay) Begin(ctx context.Context, viewportW, viewportH int) error {
	o.mu.Lock()
	if o.state != StateIdle || o.busy() {
		o.mu.Unlock()
		return ErrBusy
	}
	o.state = StateCapturing
	o.escapeArmed = true
	o.viewportW = viewportW
	o.viewportH = viewportH
	o.mu.Unlock()

	if err := o.session.Start(ctx); err != nil {
		o.mu.Lock()
		o.state = StateIdle
		o.escapeArmed = false
		o.mu.Unlock()
		return fmt.Errorf("failed to start capture: %w", err)
	}
	return nil
}

// PreviewReady marks the live preview bound and playing:
// Capturing -> Selecting.
func (o *Overlay) PreviewReady() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateCapturing {
		return
	}
	o.state = StateSelecting
}

// PointerDown records the drag anchor, in viewport pixels.
func (o *Overlay) PointerDown(x, y int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSelecting {
		return
	}
	o.anchorX, o.anchorY = x, y
	o.anchored = true
	o.region = geometry.Rect{X: x, Y: y}
}

// PointerMove recomputes the selection as the bounding box of the anchor
// and the current pointer position.
func (o *Overlay) PointerMove(x, y int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSelecting || !o.anchored {
		return
	}
	o.region = geometry.Bounding(o.anchorX, o.anchorY, x, y)
}

// PointerUp ends the drag. A rectangle below the minimum size on either
// axis is rejected with ErrSelectionTooSmall and the overlay stays in
// Selecting with the anchor cleared. A valid rectangle is mapped to source
// pixels, extracted, and handed to the completion callback; the overlay
// returns to Idle regardless of what the pipeline does with the image.
func (o *Overlay) PointerUp(ctx context.Context, x, y int) error {
	o.mu.Lock()
	if o.state != StateSelecting || !o.anchored {
		o.mu.Unlock()
		return nil
	}
	o.region = geometry.Bounding(o.anchorX, o.anchorY, x, y)
	o.anchored = false

	if !o.region.ValidSelection() {
		o.region = geometry.Rect{}
		o.mu.Unlock()
		return ErrSelectionTooSmall
	}

	rect := o.region
	vw, vh := o.viewportW, o.viewportH
	o.mu.Unlock()

	still, err := o.extract(ctx, rect, vw, vh)

	o.finish(StateCompleted)

	if err != nil {
		return err
	}
	o.complete(still)
	return nil
}

// extract maps the viewport rectangle onto the source and pulls the region
// out of the live frame. Runs while the stream is still live.
func (o *Overlay) extract(ctx context.Context, rect geometry.Rect, vw, vh int) (*capture.Still, error) {
	src := o.session.Source()
	if src == nil {
		return nil, fmt.Errorf("capture source gone before extraction")
	}
	mapper, err := geometry.NewMapper(ctx, src, vw, vh)
	if err != nil {
		return nil, err
	}
	return o.session.ExtractRegion(mapper.Map(rect))
}

// Cancel aborts the cycle without invoking the pipeline:
// (Capturing|Selecting) -> Cancelled -> Idle.
func (o *Overlay) Cancel() {
	o.mu.Lock()
	if !o.state.IsActive() {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	o.finish(StateCancelled)
}

// Escape handles the Escape key. Only effective while armed.
func (o *Overlay) Escape() {
	o.mu.Lock()
	armed := o.escapeArmed
	o.mu.Unlock()
	if armed {
		o.Cancel()
	}
}

// finish stops the capture session, disarms escape, records the outcome,
// and returns the overlay to Idle.
func (o *Overlay) finish(outcome State) {
	o.session.Stop()

	o.mu.Lock()
	o.lastOutcome = outcome
	o.state = StateIdle
	o.escapeArmed = false
	o.anchored = false
	o.region = geometry.Rect{}
	o.mu.Unlock()
}
