// Package advice turns a completed risk assessment into personalized
// guidance using an LLM provider. The engine's own output (score, band,
// recommendation) is always authoritative; advice is an optional layer
// on top and every failure here is non-fatal to the assessment.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/riskscan/internal/quiz"
)

const adviceSystemPrompt = `You are a careful health-information assistant.
You elaborate on the outcome of a cancer risk self-assessment. You never
diagnose, never contradict the computed risk level, and always remind the
user that only a clinician can assess their actual risk. Keep the tone
calm and practical.`

var advicePromptTmpl = template.Must(template.New("advice").Parse(
	`A user completed a risk self-assessment.

Score: {{.Score}} of {{.MaxScore}}
{{if .Band}}Risk level: {{.Band.Label}}
Standing recommendation: {{.Band.Recommendation}}
{{else}}Risk level: not determined (score outside all configured bands)
{{end}}
Their answers:
{{range .Answers}}- {{.Question}}: {{.Answer}}
{{end}}
Write a short summary of what this outcome means and suggest concrete
next steps grounded in their specific answers.`))

type promptAnswer struct {
	Question string
	Answer   string
}

type promptData struct {
	Score    int
	MaxScore int
	Band     *quiz.RiskBand
	Answers  []promptAnswer
}

// Advice is the elaborated guidance for a completed assessment.
type Advice struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// ServiceConfig bounds a single elaboration call.
type ServiceConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxTokens:   512,
		Temperature: 0.4,
	}
}

// Service generates advice for completed assessments.
type Service struct {
	provider Provider
	cfg      ServiceConfig
}

// NewService creates an advice service backed by the given provider.
func NewService(provider Provider, cfg ServiceConfig) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Elaborate asks the model to expand on a completed assessment result.
// The catalog supplies question text for the answers that were given.
func (s *Service) Elaborate(ctx context.Context, cat *quiz.Catalog, result *quiz.QuizResult) (*Advice, error) {
	if result == nil {
		return nil, fmt.Errorf("nil result")
	}

	userMsg, err := buildAdviceMessage(cat, result)
	if err != nil {
		return nil, fmt.Errorf("build advice prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, Request{
		System: adviceSystemPrompt,
		Messages: []Message{
			{Role: RoleUser, Content: userMsg},
		},
		Schema:      AdviceSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("advice generation failed: %w", err)
	}

	var out Advice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse advice response: %w", err)
	}

	return &out, nil
}

func buildAdviceMessage(cat *quiz.Catalog, result *quiz.QuizResult) (string, error) {
	_, maxScore := quiz.ScoreRange(cat)

	data := promptData{
		Score:    result.TotalScore,
		MaxScore: maxScore,
		Band:     result.Band,
	}

	// Walk the catalog so answers appear in a stable order.
	for _, q := range cat.Questions {
		r, ok := result.Responses[q.ID]
		if !ok {
			continue
		}
		data.Answers = append(data.Answers, promptAnswer{
			Question: q.Text,
			Answer:   r.Value.Key(),
		})
	}

	var b bytes.Buffer
	if err := advicePromptTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
