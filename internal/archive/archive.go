// Package archive persists completed screening conversations. Recording is
// best-effort: a failed save is logged by the caller and never surfaces to
// the candidate.
package archive

import (
	"context"
	"time"

	"github.com/jonathan/talentscout/internal/session"
)

// Record is the durable snapshot of one finished conversation.
type Record struct {
	SessionID   string            `json:"session_id"`
	CompletedAt time.Time         `json:"completed_at"`
	EndedEarly  bool              `json:"ended_early"`
	Profile     map[string]string `json:"candidate"`
	Questions   []string          `json:"questions,omitempty"`
	Transcript  []session.Entry   `json:"transcript"`
}

// Recorder saves completed conversation records.
type Recorder interface {
	Save(ctx context.Context, rec *Record) error
}

// Snapshot builds a Record from a finished session. Callers must hold the
// session lock; maps and slices are copied so the record is safe to hand to
// a background writer.
func Snapshot(s *session.Session, endedEarly bool) *Record {
	profile := make(map[string]string, len(s.Profile))
	for k, v := range s.Profile {
		profile[k] = v
	}
	questions := make([]string, len(s.Questions))
	copy(questions, s.Questions)
	transcript := make([]session.Entry, len(s.Transcript))
	copy(transcript, s.Transcript)

	return &Record{
		SessionID:   s.ID.String(),
		CompletedAt: time.Now().UTC(),
		EndedEarly:  endedEarly,
		Profile:     profile,
		Questions:   questions,
		Transcript:  transcript,
	}
}
