package quiz

import (
	"fmt"
	"math"
	"strings"
)

// Score computes the contribution of one response to the total score.
// It is pure and deterministic. A response that does not match the
// question's declared type contributes zero and returns a Warning
// instead of being trusted.
func Score(q Question, r Response) (int, *Warning) {
	switch q.Type {
	case TypeBoolean:
		return scoreBoolean(q, r.Value)
	case TypeRange:
		return scoreRange(q, r.Value)
	case TypeSelect:
		return scoreSelect(q, r.Value)
	}
	return 0, &Warning{
		Code:       WarnUnknownType,
		QuestionID: q.ID,
		Detail:     fmt.Sprintf("unknown question type %q", q.Type),
	}
}

// Total folds every recorded response into a single score, evaluating
// each against the catalog's current definition of its question. The
// catalog is iterated in order so re-scoring is stable; unanswered
// questions contribute nothing.
func Total(c *Catalog, responses map[string]Response) (int, []Warning) {
	total := 0
	var warnings []Warning
	for _, q := range c.Questions {
		r, ok := responses[q.ID]
		if !ok {
			continue
		}
		n, warn := Score(q, r)
		total += n
		if warn != nil {
			warnings = append(warnings, *warn)
		}
	}
	return total, warnings
}

func scoreBoolean(q Question, v Value) (int, *Warning) {
	positive := q.PositiveValue()

	if b, ok := v.AsBool(); ok {
		// A bare boolean matches a yes/true positive directly.
		wantTrue := strings.EqualFold(positive, "yes") || strings.EqualFold(positive, "true")
		if b == wantTrue {
			return q.Weight, nil
		}
		return 0, nil
	}

	if s, ok := v.AsString(); ok {
		if strings.EqualFold(s, positive) {
			return q.Weight, nil
		}
		return 0, nil
	}

	return 0, &Warning{
		Code:       WarnTypeMismatch,
		QuestionID: q.ID,
		Detail:     "boolean question answered with a number",
	}
}

func scoreRange(q Question, v Value) (int, *Warning) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, &Warning{
			Code:       WarnTypeMismatch,
			QuestionID: q.ID,
			Detail:     "range question answered with a non-numeric value",
		}
	}

	span := q.Max - q.Min
	if span <= 0 {
		// Degenerate range: only the single point itself is worth the
		// weight, same as a single-option select.
		if n == q.Min {
			return q.Weight, nil
		}
		return 0, nil
	}

	// Clamp out-of-bounds answers rather than rejecting them.
	t := (n - q.Min) / span
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return int(math.Round(t * float64(q.Weight))), nil
}

func scoreSelect(q Question, v Value) (int, *Warning) {
	s, ok := v.AsString()
	if !ok {
		return 0, &Warning{
			Code:       WarnTypeMismatch,
			QuestionID: q.ID,
			Detail:     "select question answered with a non-string value",
		}
	}

	idx := -1
	for i, opt := range q.Options {
		if opt == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, &Warning{
			Code:       WarnUnknownOption,
			QuestionID: q.ID,
			Detail:     fmt.Sprintf("answer %q is not one of the options", s),
		}
	}

	// A single-option list would divide by zero; a matching answer is
	// worth the full weight.
	if len(q.Options) == 1 {
		return q.Weight, nil
	}

	t := float64(idx) / float64(len(q.Options)-1)
	return int(math.Round(t * float64(q.Weight))), nil
}

// contributionBounds returns the lowest and highest score a single
// question can contribute, counting "unanswered" as zero.
func contributionBounds(q Question) (int, int) {
	lo, hi := 0, 0
	if q.Weight < 0 {
		lo = q.Weight
	} else {
		hi = q.Weight
	}
	return lo, hi
}

// ScoreRange returns the lowest and highest total achievable over the
// catalog. Branching may leave any subset of questions unanswered, so
// zero is always inside each question's contribution range.
func ScoreRange(c *Catalog) (int, int) {
	min, max := 0, 0
	for _, q := range c.Questions {
		lo, hi := contributionBounds(q)
		min += lo
		max += hi
	}
	return min, max
}
