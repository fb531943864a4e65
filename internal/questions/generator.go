// Package questions generates the technical screening questions for a
// candidate's declared tech stack, with a curated fallback bank when the
// model service is unavailable.
package questions

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talentscout/internal/llm"
	"github.com/jonathan/talentscout/internal/prompts"
	"github.com/jonathan/talentscout/internal/schemas"
)

// Question count bounds for one session.
const (
	MinQuestions = 3
	MaxQuestions = 5
)

//go:embed tech_questions.schema.json
var questionSchema string

// enumMarker strips leading list markers such as "1.", "2)", "-", "*".
var enumMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// Generator builds the generation prompt, calls the model, and parses the
// response into discrete questions. It owns the retry-then-fallback policy,
// so Generate never fails: the caller always gets a usable question set.
type Generator struct {
	client  llm.Client
	log     *zap.Logger
	retries int
}

// NewGenerator creates a Generator. retries is the number of additional
// attempts after the first failure.
func NewGenerator(client llm.Client, logger *zap.Logger, retries int) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries < 0 {
		retries = 0
	}
	return &Generator{client: client, log: logger, retries: retries}
}

// Generate returns between MinQuestions and MaxQuestions questions tailored
// to the declared tech stack. Model failures are retried per configuration
// and then absorbed by the curated fallback bank; the candidate never sees a
// generation error.
func (g *Generator) Generate(ctx context.Context, techStack, position string) []string {
	prompt := buildPrompt(techStack, position)

	for attempt := 0; attempt <= g.retries; attempt++ {
		qs, err := g.generateOnce(ctx, prompt, techStack)
		if err == nil {
			return qs
		}
		g.log.Warn("question generation attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	g.log.Info("falling back to curated question bank", zap.String("tech_stack", techStack))
	return Fallback(techStack)
}

// generateOnce performs a single model call and parses the result.
func (g *Generator) generateOnce(ctx context.Context, prompt, techStack string) ([]string, error) {
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	qs, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}

	// The model occasionally returns fewer than we asked for; pad from the
	// bank rather than re-asking.
	if len(qs) < MinQuestions {
		qs = topUp(qs, techStack)
	}
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}
	return qs, nil
}

// buildPrompt renders the generation instruction. Deterministic for a given
// tech stack and position.
func buildPrompt(techStack, position string) string {
	tmpl := prompts.MustGet("questions.json", "generate")

	positionLine := ""
	if strings.TrimSpace(position) != "" {
		positionLine = fmt.Sprintf("Position: %s\n", strings.TrimSpace(position))
	}

	return prompts.Format(tmpl, map[string]string{
		"Count":        fmt.Sprintf("%d", MaxQuestions),
		"TechStack":    techStack,
		"PositionLine": positionLine,
	})
}

// parseQuestions turns a raw model response into discrete question strings.
// A schema-valid JSON array is preferred; otherwise the text is split on
// newlines with enumeration markers stripped. Splitting convention: a line
// counts as a question only when it ends with a question mark.
func parseQuestions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty model response")
	}

	if err := schemas.ValidateJSONString(questionSchema, raw); err == nil {
		var qs []string
		if err := json.Unmarshal([]byte(raw), &qs); err == nil {
			return sanitize(qs), nil
		}
	}

	return splitLines(raw)
}

// splitLines is the plain-text fallback parser.
func splitLines(raw string) ([]string, error) {
	var qs []string
	for _, line := range strings.Split(raw, "\n") {
		line = enumMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if strings.HasSuffix(line, "?") {
			qs = append(qs, line)
		}
	}
	if len(qs) == 0 {
		return nil, errors.New("response contains no questions")
	}
	return qs, nil
}

// sanitize trims entries and drops empties.
func sanitize(qs []string) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// topUp pads a short question list from the fallback bank without
// introducing duplicates.
func topUp(qs []string, techStack string) []string {
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		seen[q] = true
	}
	for _, q := range Fallback(techStack) {
		if len(qs) >= MinQuestions {
			break
		}
		if !seen[q] {
			qs = append(qs, q)
			seen[q] = true
		}
	}
	return qs
}
