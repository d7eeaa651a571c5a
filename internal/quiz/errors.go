package quiz

import "fmt"

// DataIntegrityError indicates catalog or band data that violates an
// invariant: duplicate ids, dangling branch targets, or gapped or
// overlapping band coverage. It is a content-authoring bug, detected
// eagerly and never silently patched.
type DataIntegrityError struct {
	Subject string // "catalog" or "bands"
	Detail  string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s integrity: %s", e.Subject, e.Detail)
}

// InvalidStateError indicates an operation invoked in the wrong session
// state or against the wrong current question. Always a caller bug; the
// session is left unchanged.
type InvalidStateError struct {
	Op     string
	Status Status
	Detail string
}

func (e *InvalidStateError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s in state %s: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s not valid in state %s", e.Op, e.Status)
}
