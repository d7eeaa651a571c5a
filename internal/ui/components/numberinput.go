package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/ui/theme"
)

// NumberInput wraps bubbles/textinput for numeric answers. It accepts
// digits, a leading minus and a decimal point; everything else is
// swallowed before reaching the inner model.
type NumberInput struct {
	Model   textinput.Model
	invalid bool
}

// NewNumberInput creates a new styled numeric input.
func NewNumberInput(placeholder string) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 12
	ti.Focus()

	return NumberInput{Model: ti}
}

// Init returns the initial command.
func (n NumberInput) Init() tea.Cmd {
	return n.Model.Focus()
}

// Update handles messages.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && !isNumericRune(key[0]) {
			return n, nil
		}
		n.invalid = false
	}

	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

func isNumericRune(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '.'
}

// View renders the input, with an error marker after a failed submit.
func (n NumberInput) View() string {
	view := n.Model.View()
	if n.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("enter a number")
	}
	return view
}

// Value parses the current input. On failure it marks the input
// invalid and returns false.
func (n *NumberInput) Value() (float64, bool) {
	f, err := strconv.ParseFloat(n.Model.Value(), 64)
	if err != nil {
		n.invalid = true
		return 0, false
	}
	return f, true
}

// Reset clears the input for the next question.
func (n *NumberInput) Reset() {
	n.Model.SetValue("")
	n.invalid = false
}
