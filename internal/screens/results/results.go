// Package results renders a completed assessment: score, risk band,
// recommendation, and optionally LLM-elaborated advice.
package results

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/advice"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/screen"
	"github.com/abhisek/riskscan/internal/ui/layout"
	"github.com/abhisek/riskscan/internal/ui/theme"
)

// adviceReadyMsg delivers the elaboration result, success or not.
type adviceReadyMsg struct {
	Advice *advice.Advice
	Err    error
}

// Screen displays a frozen QuizResult.
type Screen struct {
	result  *quiz.QuizResult
	catalog *quiz.Catalog
	adviser *advice.Service

	adv        *advice.Advice
	advPending bool
	advErr     string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the results screen. A nil adviser disables the advice
// section entirely.
func New(result *quiz.QuizResult, catalog *quiz.Catalog, adviser *advice.Service) *Screen {
	return &Screen{
		result:  result,
		catalog: catalog,
		adviser: adviser,
	}
}

func (s *Screen) Init() tea.Cmd {
	if s.adviser == nil {
		return nil
	}
	s.advPending = true

	adviser, catalog, result := s.adviser, s.catalog, s.result
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		adv, err := adviser.Elaborate(ctx, catalog, result)
		return adviceReadyMsg{Advice: adv, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(adviceReadyMsg); ok {
		s.advPending = false
		if msg.Err != nil {
			s.advErr = msg.Err.Error()
		} else {
			s.adv = msg.Advice
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cardWidth := width - 4
	if cardWidth > 76 {
		cardWidth = 76
	}

	var b strings.Builder

	b.WriteString(s.renderOutcome(cardWidth))

	if warnings := s.renderWarnings(); warnings != "" {
		b.WriteString("\n" + warnings)
	}

	if section := s.renderAdvice(cardWidth); section != "" {
		b.WriteString("\n" + section)
	}

	b.WriteString("\n" + theme.Hint.Render(
		"  This tool is informational only. Only a clinician can assess your actual risk."))

	return "\n" + b.String()
}

func (s *Screen) renderOutcome(cardWidth int) string {
	score := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Total score: %d", s.result.TotalScore))

	var body string
	if band := s.result.Band; band != nil {
		label := lipgloss.NewStyle().
			Foreground(theme.BandColor(band.Label)).
			Bold(true).
			Render(band.Label + " risk")

		body = label + "\n" + score + "\n\n" +
			theme.Body.Render(band.Description) + "\n\n" +
			theme.Body.Render(band.Recommendation)

		if len(band.Followups) > 0 {
			body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Next steps")
			for _, f := range band.Followups {
				body += "\n" + theme.Body.Render("  • "+f)
			}
		}
		if len(band.Sources) > 0 {
			body += "\n\n" + theme.Hint.Render("Sources: "+strings.Join(band.Sources, ", "))
		}
	} else {
		body = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Risk level not determined") +
			"\n" + score + "\n\n" +
			theme.Body.Render("Your score falls outside every configured risk band.")
	}

	return theme.Card.Width(cardWidth).Render(body)
}

func (s *Screen) renderWarnings() string {
	if len(s.result.Warnings) == 0 {
		return ""
	}
	return theme.Hint.Render(fmt.Sprintf(
		"  %d answer(s) could not be scored and contributed nothing.", len(s.result.Warnings)))
}

func (s *Screen) renderAdvice(cardWidth int) string {
	switch {
	case s.advPending:
		return theme.Hint.Render("  Generating personalized advice...")
	case s.advErr != "":
		return theme.Hint.Render("  Personalized advice unavailable.")
	case s.adv == nil:
		return ""
	}

	body := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Personalized advice") +
		"\n\n" + theme.Body.Render(s.adv.Summary)
	for _, sug := range s.adv.Suggestions {
		body += "\n" + theme.Body.Render("  • "+sug)
	}

	return theme.Card.Width(cardWidth).Render(body)
}
