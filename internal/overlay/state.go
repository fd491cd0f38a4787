// Package overlay drives the drag-to-select interaction over a live capture
// preview: start capture, track the pointer, validate the selection, and
// hand the extracted region on for explanation.
package overlay

// State is the selection overlay's lifecycle state.
type State string

const (
	// StateIdle means no capture is in progress.
	StateIdle State = "Idle"

	// StateCapturing means the capture stream is being acquired and bound.
	StateCapturing State = "Capturing"

	// StateSelecting means the preview is live and the user may drag.
	StateSelecting State = "Selecting"

	// StateCompleted is the transient outcome of a valid selection.
	StateCompleted State = "Completed"

	// StateCancelled is the transient outcome of an aborted selection.
	StateCancelled State = "Cancelled"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsActive reports whether a capture cycle is underway.
func (s State) IsActive() bool {
	return s == StateCapturing || s == StateSelecting
}
