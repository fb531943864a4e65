// Package session holds per-candidate conversation state and the in-memory
// store that owns session lifecycle. Each browser session maps to exactly one
// Session; nothing is shared between sessions and nothing survives process
// restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State enumerates the conversation phases.
type State string

// Conversation states. The cursor only ever moves forward and the state only
// ever advances Collecting -> GeneratingQuestions -> Complete.
const (
	StateCollecting          State = "collecting"
	StateGeneratingQuestions State = "generating_questions"
	StateComplete            State = "complete"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

// Transcript speakers.
const (
	SpeakerAssistant Speaker = "assistant"
	SpeakerCandidate Speaker = "candidate"
)

// Entry is one transcript line. The transcript is append-only and used only
// for display and archiving, never for control flow.
type Entry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Session is the explicit state object passed into the conversation
// controller on every turn. All mutation happens under mu, which also
// serializes turns: one message is processed at a time per session.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	State      State
	Cursor     int               // index of the next field to collect
	Profile    map[string]string // validated values only
	Transcript []Entry
	Questions  []string // immutable once set

	mu sync.Mutex
}

// New creates an empty session in the collecting state.
func New() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		State:     StateCollecting,
		Profile:   make(map[string]string),
	}
}

// Lock acquires the per-session turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append adds a transcript entry. Callers must hold the session lock.
func (s *Session) Append(speaker Speaker, text string) {
	s.Transcript = append(s.Transcript, Entry{Speaker: speaker, Text: text, At: time.Now()})
}
