package quiz

import (
	"fmt"
	"time"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Step is the outcome of one Answer call: either the next question to
// display or, on completion, the final result.
type Step struct {
	Next   *Question
	Result *QuizResult
}

// Done reports whether the step completed the session.
func (s Step) Done() bool { return s.Result != nil }

// Session drives one user's traversal of a catalog. It owns the cursor,
// the accumulated responses, and the visited history; it performs no
// I/O and is not safe for concurrent use; each logical user flow owns
// its own Session.
type Session struct {
	id      string
	catalog *Catalog
	bands   []RiskBand

	status    Status
	current   string
	visited   []string
	seen      map[string]bool
	responses map[string]Response
	result    *QuizResult
}

// NewSession validates the band table against the catalog eagerly and
// returns a session in StatusNotStarted. The catalog itself is
// validated at construction by NewCatalog.
func NewSession(id string, c *Catalog, bands []RiskBand) (*Session, error) {
	if err := ValidateBands(bands, c); err != nil {
		return nil, err
	}
	s := &Session{id: id, catalog: c, bands: bands}
	s.clear()
	return s, nil
}

func (s *Session) clear() {
	s.status = StatusNotStarted
	s.current = ""
	s.visited = nil
	s.seen = make(map[string]bool)
	s.responses = make(map[string]Response)
	s.result = nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Catalog returns the catalog the session traverses.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Start moves the session to the catalog's entry point and returns the
// first question for display.
func (s *Session) Start() (*Question, error) {
	if s.status != StatusNotStarted {
		return nil, &InvalidStateError{Op: "start", Status: s.status}
	}

	root := s.catalog.Root()
	s.status = StatusInProgress
	s.visit(root.ID)

	return &root, nil
}

// Current returns the question under the cursor while in progress.
func (s *Session) Current() (*Question, bool) {
	if s.status != StatusInProgress {
		return nil, false
	}
	q, ok := s.catalog.Get(s.current)
	if !ok {
		return nil, false
	}
	return &q, true
}

// Answer records a response to the current question and advances the
// traversal. It returns the next question, or the final QuizResult if
// traversal ended. Calling it out of state or against a question other
// than the current one fails without mutating the session.
func (s *Session) Answer(questionID string, v Value) (Step, error) {
	if s.status != StatusInProgress {
		return Step{}, &InvalidStateError{Op: "answer", Status: s.status}
	}
	if questionID != s.current {
		return Step{}, &InvalidStateError{
			Op:     "answer",
			Status: s.status,
			Detail: fmt.Sprintf("question %q is not the current question %q", questionID, s.current),
		}
	}

	q, ok := s.catalog.Get(questionID)
	if !ok {
		// Unreachable with a validated catalog; fail loudly anyway.
		return Step{}, &InvalidStateError{
			Op:     "answer",
			Status: s.status,
			Detail: fmt.Sprintf("current question %q missing from catalog", questionID),
		}
	}

	s.responses[questionID] = Response{QuestionID: questionID, Value: v, At: time.Now()}

	// A branch that lands on an already-visited question would loop
	// forever; treat it as a terminal condition instead.
	nextID, more := Next(q, v, s.catalog)
	if more && !s.seen[nextID] {
		s.visit(nextID)
		next, _ := s.catalog.Get(nextID)
		return Step{Next: &next}, nil
	}

	return Step{Result: s.complete()}, nil
}

// Result returns the final result once the session has completed.
func (s *Session) Result() (*QuizResult, error) {
	if s.status != StatusCompleted {
		return nil, &InvalidStateError{Op: "result", Status: s.status}
	}
	return s.result, nil
}

// Reset discards all in-memory progress. Any externally persisted
// responses are not the session's concern.
func (s *Session) Reset() {
	s.clear()
}

// Responses returns a snapshot of the currently held responses.
func (s *Session) Responses() map[string]Response {
	return cloneResponses(s.responses)
}

// Visited returns the ordered ids actually traversed so far.
func (s *Session) Visited() []string {
	out := make([]string, len(s.visited))
	copy(out, s.visited)
	return out
}

func (s *Session) visit(id string) {
	s.current = id
	s.visited = append(s.visited, id)
	s.seen[id] = true
}

// complete re-scores every held response against the current catalog
// snapshot, resolves the risk band, and freezes the result. Re-scoring
// from the catalog (rather than an incremental accumulator) lets weight
// edits apply to in-flight sessions.
func (s *Session) complete() *QuizResult {
	total, warnings := Total(s.catalog, s.responses)

	band, warn := Resolve(total, s.bands)
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	s.status = StatusCompleted
	s.current = ""
	s.result = &QuizResult{
		TotalScore: total,
		Band:       band,
		Responses:  cloneResponses(s.responses),
		Warnings:   warnings,
	}
	return s.result
}

func cloneResponses(in map[string]Response) map[string]Response {
	out := make(map[string]Response, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
