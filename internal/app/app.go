package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/advice"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/router"
	"github.com/abhisek/riskscan/internal/screen"
	"github.com/abhisek/riskscan/internal/screens/assessment"
	"github.com/abhisek/riskscan/internal/screens/home"
	"github.com/abhisek/riskscan/internal/store"
	"github.com/abhisek/riskscan/internal/ui/layout"
)

// Params carries everything the TUI needs. Repos and Adviser may be
// nil; the corresponding features degrade gracefully.
type Params struct {
	Catalog   *quiz.Catalog
	Bands     []quiz.RiskBand
	Responses store.ResponseRepo
	Results   store.ResultRepo
	Adviser   *advice.Service

	// StartAssessment opens directly into a running assessment instead
	// of the home menu.
	StartAssessment bool
}

// Model is the root Bubble Tea model.
type Model struct {
	router *router.Router
	width  int
	height int
}

func newModel(p Params) Model {
	homeScreen := home.New(p.Catalog, p.Bands, p.Responses, p.Results, p.Adviser)
	return Model{
		router: router.New(homeScreen),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, "", m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(p Params) error {
	m := newModel(p)

	if p.StartAssessment {
		assess, err := assessment.New(p.Catalog, p.Bands, p.Responses, p.Results, p.Adviser)
		if err != nil {
			return err
		}
		m.router.Push(assess)
	}

	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
