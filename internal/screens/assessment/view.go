package assessment

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/ui/components"
	"github.com/abhisek/riskscan/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.current == nil {
		if s.errMsg != "" {
			return theme.Body.Render("Could not start the assessment: " + s.errMsg)
		}
		return ""
	}

	// Progress is against the catalog size; branching can finish early,
	// so this is a floor, not an exact count.
	total := s.sess.Catalog().Len()
	percent := float64(s.answered) / float64(total)
	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d", s.answered+1),
		percent,
		false,
		min(width-8, 48),
	)

	var body string
	switch s.current.Type {
	case quiz.TypeRange:
		body = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.current.Text) +
			"\n\n" + s.input.View()
	default:
		body = s.choice.View()
	}

	card := theme.Card.Width(min(width-4, 72)).Render(body)

	out := "\n" + progress.View() + "\n\n" + card

	if s.current.Category != "" {
		out += "\n" + theme.Hint.Render("  "+s.current.Category)
	}
	if s.errMsg != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("  "+s.errMsg)
	}

	return out
}
