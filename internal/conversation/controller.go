// Package conversation implements the screening dialogue: a fixed-order
// slot-filling flow that collects the candidate profile, then hands the
// declared tech stack to the question generator and closes the session.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talentscout/internal/archive"
	"github.com/jonathan/talentscout/internal/logging"
	"github.com/jonathan/talentscout/internal/prompts"
	"github.com/jonathan/talentscout/internal/questions"
	"github.com/jonathan/talentscout/internal/schema"
	"github.com/jonathan/talentscout/internal/session"
)

const promptFile = "conversation.json"

// exitKeywords end the conversation immediately, whatever field is pending.
var exitKeywords = map[string]bool{
	"exit":    true,
	"quit":    true,
	"bye":     true,
	"goodbye": true,
	"end":     true,
	"stop":    true,
}

// Controller drives one conversation turn at a time. It is stateless; all
// conversation state lives in the Session passed to each call, so a single
// Controller serves every session.
type Controller struct {
	gen      *questions.Generator
	recorder archive.Recorder
	log      *zap.Logger
}

// NewController creates a Controller. The recorder may be nil, in which case
// completed conversations are not archived.
func NewController(gen *questions.Generator, recorder archive.Recorder, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{gen: gen, recorder: recorder, log: logger}
}

// Start records and returns the opening greeting for a fresh session.
func (c *Controller) Start(s *session.Session) string {
	s.Lock()
	defer s.Unlock()

	greeting := prompts.MustGet(promptFile, "greeting")
	s.Append(session.SpeakerAssistant, greeting)
	return greeting
}

// HandleMessage processes one candidate message and returns the assistant
// reply. It never fails from the candidate's point of view: validation
// problems become re-prompts and generation problems are absorbed by the
// question generator's fallback.
func (c *Controller) HandleMessage(ctx context.Context, s *session.Session, input string) string {
	s.Lock()
	defer s.Unlock()

	prevState := s.State
	trimmed := strings.TrimSpace(input)
	s.Append(session.SpeakerCandidate, input)

	c.log.Debug("candidate message",
		zap.String("session_id", s.ID.String()),
		zap.String("state", string(s.State)),
		zap.String("message", logging.TruncateForLog(input, 80)),
	)

	var reply string
	switch {
	case s.State == session.StateComplete:
		reply = prompts.MustGet(promptFile, "ended")
	case exitKeywords[strings.ToLower(trimmed)]:
		reply = c.finishEarly(s)
	case trimmed == "":
		reply = prompts.Format(prompts.MustGet(promptFile, "fallback"), map[string]string{
			"Prompt": c.askPrompt(s, s.Cursor),
		})
	default:
		reply = c.collect(ctx, s, trimmed)
	}

	s.Append(session.SpeakerAssistant, reply)

	// Archive once, on the turn that completed the conversation, so the
	// record carries the full transcript including the reply above.
	if prevState != session.StateComplete && s.State == session.StateComplete {
		c.record(ctx, s)
	}
	return reply
}

// collect validates the pending field, stores it, and either asks for the
// next field or finishes the flow. A rejected value leaves the cursor and
// profile untouched.
func (c *Controller) collect(ctx context.Context, s *session.Session, input string) string {
	field := schema.Fields()[s.Cursor]

	value, err := schema.Validate(field.Key, input)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return prompts.Format(prompts.MustGet(promptFile, "reprompt"), map[string]string{
				"Reason": verr.Reason,
			})
		}
		c.log.Error("field validation failed unexpectedly",
			zap.String("field", field.Key),
			zap.Error(err),
		)
		return prompts.Format(prompts.MustGet(promptFile, "fallback"), map[string]string{
			"Prompt": c.askPrompt(s, s.Cursor),
		})
	}

	s.Profile[field.Key] = value
	s.Cursor++

	if s.Cursor < schema.Count() {
		return c.askPrompt(s, s.Cursor)
	}
	return c.finish(ctx, s)
}

// finish runs question generation and closes out a fully collected profile.
func (c *Controller) finish(ctx context.Context, s *session.Session) string {
	s.State = session.StateGeneratingQuestions

	techStack := s.Profile[schema.FieldTechStack]
	qs := c.gen.Generate(ctx, techStack, s.Profile[schema.FieldPosition])

	s.Questions = qs
	s.State = session.StateComplete

	var b strings.Builder
	b.WriteString(prompts.Format(prompts.MustGet(promptFile, "questions-intro"), map[string]string{
		"TechStack": techStack,
	}))
	for i, q := range qs {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, q))
	}
	b.WriteString("\n\n")
	b.WriteString(prompts.Format(prompts.MustGet(promptFile, "closing"), map[string]string{
		"Name":  s.Profile[schema.FieldName],
		"Email": s.Profile[schema.FieldEmail],
		"Phone": s.Profile[schema.FieldPhone],
	}))
	return b.String()
}

// finishEarly closes the session on an exit keyword. Whatever profile fields
// were collected so far are still archived.
func (c *Controller) finishEarly(s *session.Session) string {
	s.State = session.StateComplete

	if name := s.Profile[schema.FieldName]; name != "" {
		return prompts.Format(prompts.MustGet(promptFile, "early-exit"), map[string]string{
			"Name": name,
		})
	}
	return prompts.MustGet(promptFile, "early-exit-anon")
}

// askPrompt renders the question for the field at the given cursor position.
func (c *Controller) askPrompt(s *session.Session, cursor int) string {
	switch schema.Fields()[cursor].Key {
	case schema.FieldName:
		return prompts.MustGet(promptFile, "ask-name")
	case schema.FieldEmail:
		return prompts.Format(prompts.MustGet(promptFile, "ask-email"), map[string]string{
			"Name": s.Profile[schema.FieldName],
		})
	case schema.FieldPhone:
		return prompts.MustGet(promptFile, "ask-phone")
	case schema.FieldExperience:
		return prompts.MustGet(promptFile, "ask-experience")
	case schema.FieldPosition:
		return prompts.MustGet(promptFile, "ask-position")
	case schema.FieldLocation:
		return prompts.MustGet(promptFile, "ask-location")
	case schema.FieldTechStack:
		return prompts.Format(prompts.MustGet(promptFile, "ask-tech-stack"), map[string]string{
			"Hint": techHint(s.Profile[schema.FieldPosition]),
		})
	}
	return prompts.MustGet(promptFile, "ask-name")
}

// record archives the finished conversation. Failures are logged and
// swallowed; archiving must never affect the candidate-facing reply.
func (c *Controller) record(ctx context.Context, s *session.Session) {
	if c.recorder == nil {
		return
	}

	endedEarly := s.Cursor < schema.Count()
	rec := archive.Snapshot(s, endedEarly)
	if err := c.recorder.Save(ctx, rec); err != nil {
		c.log.Error("failed to archive conversation",
			zap.String("session_id", rec.SessionID),
			zap.Bool("ended_early", endedEarly),
			zap.Error(err),
		)
	}
}

// techHint suggests example technologies based on the desired position.
func techHint(position string) string {
	p := strings.ToLower(position)
	switch {
	case strings.Contains(p, "front") || strings.Contains(p, "web"):
		return "(e.g. HTML, CSS, JavaScript, React, Angular, Vue)"
	case strings.Contains(p, "back"):
		return "(e.g. Python, Java, Node.js, Go, SQL, REST APIs)"
	case strings.Contains(p, "data"):
		return "(e.g. Python, SQL, Pandas, TensorFlow, Spark)"
	case strings.Contains(p, "devops") || strings.Contains(p, "cloud"):
		return "(e.g. Docker, Kubernetes, AWS, Terraform, CI/CD)"
	case strings.Contains(p, "mobile"):
		return "(e.g. Swift, Kotlin, Flutter, React Native)"
	}
	return "(e.g. languages, frameworks, databases, tools)"
}
