package store

import (
	"context"
	"time"
)

// ResponseData captures one answer for persistence. Value is the
// response's key form (the same string used for branch lookup), which
// round-trips every supported answer type.
type ResponseData struct {
	SessionID  string
	UserID     string
	QuestionID string
	Value      string
	At         time.Time
}

// ResponseRecord is a persisted answer, including its global sequence.
type ResponseRecord struct {
	Sequence   int64
	SessionID  string
	UserID     string
	QuestionID string
	Value      string
	At         time.Time
}

// ResponseRepo provides append-only access to answer history. Repeated
// answers to the same question append new rows; the engine's overwrite
// semantics live in the session, not here.
type ResponseRepo interface {
	// Append records one answer.
	Append(ctx context.Context, data ResponseData) error

	// BySession returns a session's answers in traversal order.
	BySession(ctx context.Context, sessionID string) ([]ResponseRecord, error)
}

// ResultData captures a completed assessment for persistence.
type ResultData struct {
	SessionID    string
	UserID       string
	TotalScore   int
	BandLabel    string // empty when no band matched
	WarningCount int
	CompletedAt  time.Time
}

// ResultRecord is a persisted assessment outcome.
type ResultRecord struct {
	Sequence     int64
	SessionID    string
	UserID       string
	TotalScore   int
	BandLabel    string
	WarningCount int
	CompletedAt  time.Time
}

// ResultRepo stores final assessment outcomes.
type ResultRepo interface {
	// Append records one completed assessment.
	Append(ctx context.Context, data ResultData) error

	// Recent returns up to limit results, newest first.
	Recent(ctx context.Context, limit int) ([]ResultRecord, error)
}
