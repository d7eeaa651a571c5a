// Package assessment is the interactive questionnaire screen. It owns a
// live engine session and renders one question at a time, choosing an
// input widget by question type.
package assessment

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/riskscan/internal/advice"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/router"
	"github.com/abhisek/riskscan/internal/screen"
	"github.com/abhisek/riskscan/internal/screens/results"
	"github.com/abhisek/riskscan/internal/store"
	"github.com/abhisek/riskscan/internal/ui/components"
	"github.com/abhisek/riskscan/internal/ui/layout"
)

// Screen runs one assessment from first question to result.
type Screen struct {
	sess      *quiz.Session
	responses store.ResponseRepo
	results   store.ResultRepo
	adviser   *advice.Service

	current  *quiz.Question
	answered int

	choice components.Choice
	input  components.NumberInput
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the assessment screen. The repos and adviser may be nil;
// the assessment then simply runs without history or advice.
func New(cat *quiz.Catalog, bands []quiz.RiskBand, responses store.ResponseRepo, results store.ResultRepo, adviser *advice.Service) (*Screen, error) {
	sess, err := quiz.NewSession(uuid.NewString(), cat, bands)
	if err != nil {
		return nil, err
	}

	s := &Screen{
		sess:      sess,
		responses: responses,
		results:   results,
		adviser:   adviser,
	}
	return s, nil
}

func (s *Screen) Init() tea.Cmd {
	q, err := s.sess.Start()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.setQuestion(q)
	return nil
}

func (s *Screen) Title() string {
	return "Assessment"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Answer"},
	}
	if s.current != nil && s.current.Type != quiz.TypeRange {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Abandon"})
	return hints
}

// setQuestion moves the cursor and rebuilds the input widget.
func (s *Screen) setQuestion(q *quiz.Question) {
	s.current = q
	s.errMsg = ""

	switch q.Type {
	case quiz.TypeBoolean:
		s.choice = components.NewChoice(q.Text, []string{"Yes", "No"})
	case quiz.TypeSelect:
		s.choice = components.NewChoice(q.Text, q.Options)
	case quiz.TypeRange:
		s.input = components.NewNumberInput(fmt.Sprintf("%v to %v", q.Min, q.Max))
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case persistDoneMsg, resultPersistDoneMsg:
		// History writes are best-effort; the session already advanced.
		return s, nil

	case tea.KeyMsg:
		if s.current == nil {
			return s, nil
		}
		if msg.String() == "enter" {
			return s.submit()
		}
		return s.forward(msg)
	}

	return s.forward(msg)
}

func (s *Screen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.current == nil {
		return s, nil
	}

	var cmd tea.Cmd
	switch s.current.Type {
	case quiz.TypeRange:
		s.input, cmd = s.input.Update(msg)
	default:
		s.choice, cmd = s.choice.Update(msg)
	}
	return s, cmd
}

// submit reads the widget, records the answer, and advances.
func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	value, ok := s.readValue()
	if !ok {
		return s, nil
	}

	q := s.current
	step, err := s.sess.Answer(q.ID, value)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	s.answered++
	cmds := []tea.Cmd{s.persistAnswer(q.ID, value)}

	if step.Done() {
		cmds = append(cmds, s.persistResult(step.Result))
		cmds = append(cmds, func() tea.Msg {
			return router.ReplaceScreenMsg{
				Screen: results.New(step.Result, s.sess.Catalog(), s.adviser),
			}
		})
		return s, tea.Batch(cmds...)
	}

	s.setQuestion(step.Next)
	return s, tea.Batch(cmds...)
}

func (s *Screen) readValue() (quiz.Value, bool) {
	switch s.current.Type {
	case quiz.TypeBoolean:
		return quiz.Bool(s.choice.Selected == 0), true
	case quiz.TypeSelect:
		if s.choice.Selected < 0 || s.choice.Selected >= len(s.current.Options) {
			return quiz.Value{}, false
		}
		return quiz.String(s.current.Options[s.choice.Selected]), true
	default:
		n, ok := s.input.Value()
		if !ok {
			return quiz.Value{}, false
		}
		return quiz.Number(n), true
	}
}

func (s *Screen) persistAnswer(questionID string, v quiz.Value) tea.Cmd {
	if s.responses == nil {
		return nil
	}
	sessionID := s.sess.ID()
	return func() tea.Msg {
		err := s.responses.Append(context.Background(), store.ResponseData{
			SessionID:  sessionID,
			QuestionID: questionID,
			Value:      v.Key(),
			At:         time.Now(),
		})
		return persistDoneMsg{Err: err}
	}
}

func (s *Screen) persistResult(res *quiz.QuizResult) tea.Cmd {
	if s.results == nil {
		return nil
	}
	sessionID := s.sess.ID()
	return func() tea.Msg {
		data := store.ResultData{
			SessionID:    sessionID,
			TotalScore:   res.TotalScore,
			WarningCount: len(res.Warnings),
			CompletedAt:  time.Now(),
		}
		if res.Band != nil {
			data.BandLabel = res.Band.Label
		}
		err := s.results.Append(context.Background(), data)
		return resultPersistDoneMsg{Err: err}
	}
}
