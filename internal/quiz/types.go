package quiz

import (
	"strconv"
	"time"
)

// Type identifies how a question is answered and scored.
type Type string

const (
	TypeBoolean Type = "boolean"
	TypeRange   Type = "range"
	TypeSelect  Type = "select"
)

// BranchDefault is the sentinel branch key consulted when no branch
// matches the response value exactly.
const BranchDefault = "default"

// DefaultPositive is the boolean answer that contributes the question's
// weight when the catalog does not configure one.
const DefaultPositive = "yes"

// Question is a single catalog entry. Options carries the type-dependent
// payload: Min/Max for range questions, Options for select questions,
// Positive for boolean questions.
type Question struct {
	ID       string
	Text     string
	Type     Type
	Category string

	// Weight is the signed score contribution scale.
	Weight int

	// Range payload.
	Min float64
	Max float64

	// Select payload: ordered, distinct option labels.
	Options []string

	// Boolean payload: the risk-positive answer. Empty means DefaultPositive.
	Positive string

	// Branches maps a response key (see Value.Key) or BranchDefault to the
	// id of the next question. Nil means sequential fallthrough.
	Branches map[string]string
}

// PositiveValue returns the configured risk-positive answer for a
// boolean question.
func (q Question) PositiveValue() string {
	if q.Positive == "" {
		return DefaultPositive
	}
	return q.Positive
}

// Kind tags the dynamic type carried by a Value.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
)

// Value is a tagged answer variant: boolean, number, or string. The owning
// question's declared type decides how it is interpreted at scoring time.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool wraps a boolean answer.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric answer.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string answer.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean payload and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Key returns the branch-map key form of the value: strings as-is,
// booleans as "true"/"false", numbers in minimal decimal notation.
func (v Value) Key() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	default:
		return v.s
	}
}

// Response is one recorded answer. Responses are append-only per session;
// a later answer to the same question overwrites the held value for
// scoring while the external store may keep the full history.
type Response struct {
	QuestionID string
	Value      Value
	At         time.Time
}

// RiskBand is a named, inclusive score interval with authored guidance.
type RiskBand struct {
	Label          string
	Description    string
	MinScore       int
	MaxScore       int
	Recommendation string
	Followups      []string
	Sources        []string
}

// Contains reports whether score falls inside the band's inclusive range.
func (b RiskBand) Contains(score int) bool {
	return score >= b.MinScore && score <= b.MaxScore
}

// QuizResult is the output of a completed session. Band is nil when the
// total score falls outside every configured band.
type QuizResult struct {
	TotalScore int
	Band       *RiskBand
	Responses  map[string]Response
	Warnings   []Warning
}

// Warning flags a data-quality issue noticed while computing a result.
// Warnings never abort the user's flow; callers may audit them.
type Warning struct {
	Code       string
	QuestionID string
	Detail     string
}

// Warning codes.
const (
	WarnTypeMismatch  = "type_mismatch"
	WarnUnknownType   = "unknown_type"
	WarnUnknownOption = "unknown_option"
	WarnBandOverlap   = "band_overlap"
)
