// Package history lists previously completed assessments.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/riskscan/internal/screen"
	"github.com/abhisek/riskscan/internal/store"
	"github.com/abhisek/riskscan/internal/ui/layout"
	"github.com/abhisek/riskscan/internal/ui/theme"
)

type historyLoadedMsg struct {
	Results []store.ResultRecord
	Err     error
}

// Screen displays recent assessment outcomes, newest first.
type Screen struct {
	results  store.ResultRepo
	records  []store.ResultRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a new history screen.
func New(results store.ResultRepo) *Screen {
	return &Screen{results: results}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := s.results.Recent(context.Background(), 50)
		return historyLoadedMsg{Results: records, Err: err}
	}
}

func (s *Screen) Title() string {
	return "History"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Results
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		}
	}

	return s, nil
}

func (s *Screen) View(width, height int) string {
	switch {
	case !s.loaded:
		return theme.Hint.Render("  Loading history...")
	case s.errMsg != "":
		return lipgloss.NewStyle().Foreground(theme.Error).Render("  Could not load history: " + s.errMsg)
	case len(s.records) == 0:
		return theme.Hint.Render("  No completed assessments yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		band := rec.BandLabel
		if band == "" {
			band = "undetermined"
		}

		line := fmt.Sprintf("%s  score %3d  %s",
			rec.CompletedAt.Format("2006-01-02 15:04"),
			rec.TotalScore,
			band,
		)
		if rec.WarningCount > 0 {
			line += fmt.Sprintf("  (%d warnings)", rec.WarningCount)
		}

		if i == s.selected {
			b.WriteString(theme.Selected.Render("  ▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("    "+line) + "\n")
		}
	}

	return b.String()
}
