package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/ui/theme"
)

// Choice is a single-select option list for answering a question.
// There is no right answer; submission just fixes the chosen option.
type Choice struct {
	Prompt    string
	Options   []string
	Selected  int
	Submitted bool
}

// NewChoice creates a new option selector.
func NewChoice(prompt string, options []string) Choice {
	return Choice{
		Prompt:  prompt,
		Options: options,
	}
}

// Update handles keyboard navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Submitted = true
	}

	return c, nil
}

// View renders the selector.
func (c Choice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"

	for i, opt := range c.Options {
		prefix := "    "
		if i == c.Selected {
			prefix = "  ▸ "
		}
		line := prefix + opt

		switch {
		case c.Submitted && i == c.Selected:
			s += theme.Selected.Render(line) + "\n"
		case c.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}

// Value returns the chosen option once submitted.
func (c Choice) Value() (string, bool) {
	if !c.Submitted || c.Selected < 0 || c.Selected >= len(c.Options) {
		return "", false
	}
	return c.Options[c.Selected], true
}
