package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/riskscan/internal/logging"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/store"
)

// Params wires the server's collaborators. Responses and Results are
// optional; when nil the server keeps no assessment history.
type Params struct {
	Catalog   *quiz.Catalog
	Bands     []quiz.RiskBand
	Registry  Registry
	Responses store.ResponseRepo
	Results   store.ResultRepo
	Logger    *slog.Logger
}

// Server is the HTTP API for running assessments.
type Server struct {
	catalog   *quiz.Catalog
	bands     []quiz.RiskBand
	registry  Registry
	responses store.ResponseRepo
	results   store.ResultRepo
	logger    *slog.Logger

	promReg *prometheus.Registry
	metrics *Metrics
}

// New creates a Server. The prometheus registry is private to the
// server and exposed only through its /metrics route.
func New(p Params) *Server {
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	promReg := prometheus.NewRegistry()

	return &Server{
		catalog:   p.Catalog,
		bands:     p.Bands,
		registry:  p.Registry,
		responses: p.Responses,
		results:   p.Results,
		logger:    logger,
		promReg:   promReg,
		metrics:   NewMetrics(promReg),
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.instrument("create_session", s.handleCreateSession))
		r.Get("/{id}", s.instrument("get_session", s.handleGetSession))
		r.Delete("/{id}", s.instrument("delete_session", s.handleDeleteSession))
		r.Post("/{id}/answers", s.instrument("answer", s.handleAnswer))
		r.Get("/{id}/result", s.instrument("get_result", s.handleGetResult))
	})

	return r
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type questionPayload struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

type resultPayload struct {
	TotalScore     int      `json:"total_score"`
	Band           string   `json:"band,omitempty"`
	Description    string   `json:"description,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Followups      []string `json:"followup_actions,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Warnings       int      `json:"warnings"`
}

type stepPayload struct {
	SessionID string           `json:"session_id"`
	Status    string           `json:"status"`
	Question  *questionPayload `json:"question,omitempty"`
	Result    *resultPayload   `json:"result,omitempty"`
}

func renderQuestion(q *quiz.Question) *questionPayload {
	if q == nil {
		return nil
	}
	p := &questionPayload{
		ID:   q.ID,
		Text: q.Text,
		Type: string(q.Type),
	}
	switch q.Type {
	case quiz.TypeRange:
		min, max := q.Min, q.Max
		p.Min, p.Max = &min, &max
	case quiz.TypeSelect:
		p.Options = q.Options
	}
	return p
}

func renderResult(res *quiz.QuizResult) *resultPayload {
	p := &resultPayload{
		TotalScore: res.TotalScore,
		Warnings:   len(res.Warnings),
	}
	if res.Band != nil {
		p.Band = res.Band.Label
		p.Description = res.Band.Description
		p.Recommendation = res.Band.Recommendation
		p.Followups = res.Band.Followups
		p.Sources = res.Band.Sources
	}
	return p
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	if err := s.registry.Create(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.SessionsStarted.Inc()
	s.logger.InfoContext(r.Context(), "session created", "session_id", id)

	root := s.catalog.Root()
	s.writeJSON(w, http.StatusCreated, stepPayload{
		SessionID: id,
		Status:    string(quiz.StatusInProgress),
		Question:  renderQuestion(&root),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.loadSession(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := stepPayload{SessionID: id, Status: string(sess.Status())}
	if q, ok := sess.Current(); ok {
		payload.Question = renderQuestion(q)
	}
	if res, err := sess.Result(); err == nil {
		payload.Result = renderResult(res)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.registry.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	QuestionID string          `json:"question_id"`
	Value      json.RawMessage `json:"value"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	value, err := decodeValue(body.Value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.loadSession(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q, ok := sess.Current()
	if !ok {
		s.writeError(w, r, &quiz.InvalidStateError{Op: "answer", Status: sess.Status()})
		return
	}

	step, err := sess.Answer(body.QuestionID, value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.registry.Append(r.Context(), id, NewAnswerRecord(body.QuestionID, value)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.Answers.WithLabelValues(string(q.Type)).Inc()
	s.persistResponse(r, id, body.QuestionID, value)

	payload := stepPayload{SessionID: id, Status: string(sess.Status())}
	if step.Done() {
		payload.Result = renderResult(step.Result)
		s.recordCompletion(r, id, step.Result)
	} else {
		payload.Question = renderQuestion(step.Next)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.loadSession(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := sess.Result()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stepPayload{
		SessionID: id,
		Status:    string(sess.Status()),
		Result:    renderResult(res),
	})
}

func (s *Server) loadSession(r *http.Request, id string) (*quiz.Session, error) {
	records, err := s.registry.Records(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return rebuild(id, s.catalog, s.bands, records)
}

func (s *Server) persistResponse(r *http.Request, sessionID, questionID string, v quiz.Value) {
	if s.responses == nil {
		return
	}
	err := s.responses.Append(r.Context(), store.ResponseData{
		SessionID:  sessionID,
		QuestionID: questionID,
		Value:      v.Key(),
		At:         time.Now(),
	})
	if err != nil {
		// History is best-effort; the assessment itself already advanced.
		s.logger.WarnContext(r.Context(), "persist response failed", "session_id", sessionID, "error", err)
	}
}

func (s *Server) recordCompletion(r *http.Request, sessionID string, res *quiz.QuizResult) {
	band := "none"
	data := store.ResultData{
		SessionID:    sessionID,
		TotalScore:   res.TotalScore,
		WarningCount: len(res.Warnings),
		CompletedAt:  time.Now(),
	}
	if res.Band != nil {
		band = res.Band.Label
		data.BandLabel = res.Band.Label
	}
	s.metrics.Completions.WithLabelValues(band).Inc()
	s.logger.InfoContext(r.Context(), "assessment completed",
		"session_id", sessionID, "score", res.TotalScore, "band", band)

	if s.results == nil {
		return
	}
	if err := s.results.Append(r.Context(), data); err != nil {
		s.logger.WarnContext(r.Context(), "persist result failed", "session_id", sessionID, "error", err)
	}
}

// decodeValue maps a JSON scalar onto an engine value.
func decodeValue(raw json.RawMessage) (quiz.Value, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return quiz.Value{}, fmt.Errorf("invalid value: %w", err)
	}
	switch t := v.(type) {
	case bool:
		return quiz.Bool(t), nil
	case float64:
		return quiz.Number(t), nil
	case string:
		return quiz.String(t), nil
	default:
		return quiz.Value{}, fmt.Errorf("value must be a boolean, number or string")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *quiz.InvalidStateError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusConflict)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
