// Package chat is the stateless-per-turn "ask an expert" exchange. Each
// question is answered against a snapshot of the currently known document
// content; the transcript is append-only until the view is fully reset.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// ErrEmptyQuestion means the question was blank; no request is sent.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrorMessage is the scoped user-facing message for a failed exchange.
const ErrorMessage = "Could not get an answer. Please try again."

// Role identifies who wrote a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role Role
	Text string
}

// Asker is the remote question endpoint.
type Asker interface {
	Chat(ctx context.Context, question, documentContext string) (string, error)
}

// Session holds the transcript for one document view.
type Session struct {
	asker      Asker
	contextFn  func() string
	mu         sync.Mutex
	transcript []Message
	errMsg     string
	inFlight   bool
}

// NewSession creates a session. contextFn supplies the assembled document
// context for each turn.
func NewSession(asker Asker, contextFn func() string) *Session {
	if contextFn == nil {
		contextFn = func() string { return "" }
	}
	return &Session{asker: asker, contextFn: contextFn}
}

// Ask submits a question. Blank input is rejected without a network call.
// On success the answer is appended; on failure a scoped error is set and
// the transcript records only the user's message, staying honest about what
// was actually answered.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleUser, Text: question})
	s.errMsg = ""
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	answer, err := s.asker.Chat(ctx, question, s.contextFn())
	if err != nil {
		log.Printf("chat: question failed: %v", err)
		s.mu.Lock()
		s.errMsg = ErrorMessage
		s.mu.Unlock()
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleAssistant, Text: answer})
	s.mu.Unlock()
	return answer, nil
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.transcript...)
}

// Err returns the current scoped error message, cleared on the next Ask.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// InFlight reports whether a question is awaiting its answer.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Reset clears the transcript. Called only on full navigation-back reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.errMsg = ""
}
