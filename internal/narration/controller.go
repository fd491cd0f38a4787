// Package narration plays text-to-speech renditions of document content.
// At most one audio handle is ever live; starting new playback releases the
// previous handle first.
package narration

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// State is the narration lifecycle state.
type State string

const (
	// StateIdle means nothing is playing or being requested.
	StateIdle State = "Idle"

	// StateRequesting means a synthesis request is in flight.
	StateRequesting State = "Requesting"

	// StatePlaying means audio is playing.
	StatePlaying State = "Playing"
)

// ErrorMessage is the scoped user-facing message for a failed synthesis.
const ErrorMessage = "Could not read the text aloud."

// Synthesizer converts text into an audio clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, modelID, outputFormat string) ([]byte, error)
}

// Playback is one live audio handle. Stop halts playback immediately and
// resets the position; Done is closed on natural completion.
type Playback interface {
	Stop()
	Done() <-chan struct{}
}

// Player starts playback of an audio clip at the given speed multiplier.
type Player interface {
	Play(audio []byte, speed float64) (Playback, error)
}

// Controller drives narration: Idle -> Requesting -> Playing -> Idle, with
// request failures dropping straight back to Idle.
type Controller struct {
	synth       Synthesizer
	player      Player
	defaultText func() string

	mu     sync.Mutex
	gen    uint64
	state  State
	handle Playback
	errMsg string
}

// NewController creates a controller. defaultText supplies the text spoken
// when Speak is called with an empty string, typically the current
// translated-or-source summary; nil means no default.
func NewController(synth Synthesizer, player Player, defaultText func() string) *Controller {
	if defaultText == nil {
		defaultText = func() string { return "" }
	}
	return &Controller{
		synth:       synth,
		player:      player,
		defaultText: defaultText,
		state:       StateIdle,
	}
}

// State returns the current narration state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the current scoped error message, cleared on the next Speak.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Speak synthesizes and plays the text at the given speed. An empty text
// falls back to the controller's default. Any previous playback is fully
// stopped and released before the new request starts, so changing speed
// mid-playback never overlaps audio. Each call supersedes every earlier
// one: a request still in flight when a newer Speak arrives has its late
// result discarded instead of played.
func (c *Controller) Speak(ctx context.Context, text string, speed float64) error {
	if text == "" {
		text = c.defaultText()
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to narrate")
	}
	if speed <= 0 {
		speed = 1.0
	}

	c.mu.Lock()
	c.gen++
	id := c.gen
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.state = StateRequesting
	c.errMsg = ""
	c.mu.Unlock()

	audio, err := c.synth.Synthesize(ctx, text, "", "")
	if err != nil {
		log.Printf("narration: synthesis failed: %v", err)
		c.mu.Lock()
		if c.gen == id {
			c.state = StateIdle
			c.errMsg = ErrorMessage
		}
		c.mu.Unlock()
		return fmt.Errorf("synthesis failed: %w", err)
	}

	c.mu.Lock()
	superseded := c.gen != id
	c.mu.Unlock()
	if superseded {
		return nil
	}

	handle, err := c.player.Play(audio, speed)
	if err != nil {
		log.Printf("narration: playback failed: %v", err)
		c.mu.Lock()
		if c.gen == id {
			c.state = StateIdle
			c.errMsg = ErrorMessage
		}
		c.mu.Unlock()
		return fmt.Errorf("playback failed: %w", err)
	}

	c.mu.Lock()
	if c.gen != id {
		// A newer Speak won the race between the check above and Play.
		c.mu.Unlock()
		handle.Stop()
		return nil
	}
	if c.handle != nil {
		c.handle.Stop()
	}
	c.handle = handle
	c.state = StatePlaying
	c.mu.Unlock()

	go c.watch(handle)
	return nil
}

// watch returns the controller to Idle when this handle finishes naturally.
// A handle superseded by a newer Speak or an explicit Stop is ignored.
func (c *Controller) watch(handle Playback) {
	<-handle.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == handle {
		c.handle = nil
		c.state = StateIdle
	}
}

// Stop halts playback immediately and releases the handle. Safe to call in
// any state; a synthesis request still in flight is invalidated and its
// late result discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.state = StateIdle
}

// Playing reports whether audio is currently playing.
func (c *Controller) Playing() bool {
	return c.State() == StatePlaying
}
