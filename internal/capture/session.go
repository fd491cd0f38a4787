package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPermissionDenied means the user declined the capture prompt.
	ErrPermissionDenied = errors.New("screen capture permission denied")

	// ErrNoSourceAvailable means the platform has no capturable source.
	ErrNoSourceAvailable = errors.New("no capture source available")

	// ErrSessionActive means a capture stream is already live.
	ErrSessionActive = errors.New("capture session already active")
)

// Session owns the lifecycle of a single live capture stream.
//
// At most one source is live at a time. The source must be explicitly
// released with Stop on every exit path; leaking it keeps the platform's
// capture-permission indicator open.
type Session struct {
	provider Provider

	mu     sync.Mutex
	source FrameSource
}

// NewSession creates a session that acquires sources from the provider.
func NewSession(provider Provider) *Session {
	return &Session{provider: provider}
}

// Start acquires a capture source. It suspends until the user grants or
// denies consent. Fails with ErrSessionActive if a stream is already live.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.source != nil {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.mu.Unlock()

	src, err := s.provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire capture source: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		// Lost the race to a concurrent Start; release the extra stream.
		src.Close()
		return ErrSessionActive
	}
	s.source = src
	return nil
}

// Source returns the live frame source, or nil when stopped.
func (s *Session) Source() FrameSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Active reports whether a capture stream is live.
func (s *Session) Active() bool {
	return s.Source() != nil
}

// Stop releases the live source. Idempotent: stopping an already-stopped
// session does nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	src := s.source
	s.source = nil
	s.mu.Unlock()

	if src != nil {
		src.Close()
	}
}
