// Package home is the entry screen: a menu plus a short summary of the
// loaded catalog and past activity.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/riskscan/internal/advice"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/router"
	"github.com/abhisek/riskscan/internal/screen"
	"github.com/abhisek/riskscan/internal/screens/assessment"
	"github.com/abhisek/riskscan/internal/screens/history"
	"github.com/abhisek/riskscan/internal/store"
	"github.com/abhisek/riskscan/internal/ui/components"
	"github.com/abhisek/riskscan/internal/ui/theme"
)

// Screen is the main menu.
type Screen struct {
	catalog   *quiz.Catalog
	bands     []quiz.RiskBand
	completed int

	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the home screen. The advice service and repos may be nil.
func New(cat *quiz.Catalog, bands []quiz.RiskBand, responses store.ResponseRepo, results store.ResultRepo, adviser *advice.Service) *Screen {
	s := &Screen{
		catalog: cat,
		bands:   bands,
	}

	if results != nil {
		if records, err := results.Recent(context.Background(), 1000); err == nil {
			s.completed = len(records)
		}
	}

	items := []components.MenuItem{
		{Label: "START ASSESSMENT", Action: func() tea.Cmd {
			return func() tea.Msg {
				assess, err := assessment.New(cat, bands, responses, results, adviser)
				if err != nil {
					s.errMsg = err.Error()
					return nil
				}
				return router.PushScreenMsg{Screen: assess}
			}
		}},
		{Label: "HISTORY", Disabled: results == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(results)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	s.menu = components.NewMenu(items)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Home"
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Know your risk, one question at a time"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf(
		"%d questions loaded · %d assessments completed", s.catalog.Len(), s.completed)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	if s.errMsg != "" {
		b.WriteString("\n" + theme.Hint.Render("  "+s.errMsg))
	}

	return b.String()
}
