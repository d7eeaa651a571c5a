// Package server exposes the assessment engine over HTTP. Sessions are
// kept as an ordered answer log in a Registry and rebuilt by replay,
// which works because traversal is deterministic for a given catalog
// and answer sequence.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/riskscan/internal/quiz"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// AnswerRecord is one answered question in traversal order.
type AnswerRecord struct {
	QuestionID string  `json:"question_id"`
	Kind       string  `json:"kind"`
	Bool       bool    `json:"bool,omitempty"`
	Number     float64 `json:"number,omitempty"`
	String     string  `json:"string,omitempty"`
}

// NewAnswerRecord captures a response value for the log.
func NewAnswerRecord(questionID string, v quiz.Value) AnswerRecord {
	rec := AnswerRecord{QuestionID: questionID}
	switch v.Kind() {
	case quiz.KindBool:
		rec.Kind = "bool"
		rec.Bool, _ = v.AsBool()
	case quiz.KindNumber:
		rec.Kind = "number"
		rec.Number, _ = v.AsNumber()
	default:
		rec.Kind = "string"
		rec.String, _ = v.AsString()
	}
	return rec
}

// Value reconstructs the response value from the log entry.
func (r AnswerRecord) Value() quiz.Value {
	switch r.Kind {
	case "bool":
		return quiz.Bool(r.Bool)
	case "number":
		return quiz.Number(r.Number)
	default:
		return quiz.String(r.String)
	}
}

// Registry holds the answer log for API sessions. Implementations must
// expire idle sessions according to their configured TTL.
type Registry interface {
	// Create registers a new empty session.
	Create(ctx context.Context, id string) error

	// Append adds one answer to a session's log.
	Append(ctx context.Context, id string, rec AnswerRecord) error

	// Records returns a session's answer log in order.
	Records(ctx context.Context, id string) ([]AnswerRecord, error)

	// Delete discards a session.
	Delete(ctx context.Context, id string) error
}

// rebuild replays an answer log into a live session. A replay failure
// means the catalog changed underneath a stored log.
func rebuild(id string, cat *quiz.Catalog, bands []quiz.RiskBand, records []AnswerRecord) (*quiz.Session, error) {
	sess, err := quiz.NewSession(id, cat, bands)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Start(); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if _, err := sess.Answer(rec.QuestionID, rec.Value()); err != nil {
			return nil, fmt.Errorf("replay session %s at %s: %w", id, rec.QuestionID, err)
		}
	}
	return sess, nil
}
