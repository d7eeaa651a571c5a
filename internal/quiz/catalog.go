package quiz

import (
	"fmt"
	"sort"
)

// Catalog is the ordered set of question definitions available to a
// session. Construction validates the catalog's invariants; a Catalog
// that exists is well-formed.
type Catalog struct {
	Questions []Question

	index map[string]int
}

// NewCatalog builds a Catalog from an ordered question list, returning
// a DataIntegrityError on duplicate ids, dangling branch targets, or
// malformed type payloads.
func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, &DataIntegrityError{Subject: "catalog", Detail: "no questions"}
	}

	index := make(map[string]int, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, &DataIntegrityError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("question at position %d has no id", i),
			}
		}
		if _, dup := index[q.ID]; dup {
			return nil, &DataIntegrityError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("duplicate question id %q", q.ID),
			}
		}
		index[q.ID] = i
	}

	for _, q := range questions {
		if err := checkQuestion(q, index); err != nil {
			return nil, err
		}
	}

	return &Catalog{Questions: questions, index: index}, nil
}

func checkQuestion(q Question, index map[string]int) error {
	switch q.Type {
	case TypeBoolean:
		// No payload required.
	case TypeRange:
		if q.Max < q.Min {
			return &DataIntegrityError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("question %q: range max %v below min %v", q.ID, q.Max, q.Min),
			}
		}
	case TypeSelect:
		if len(q.Options) == 0 {
			return &DataIntegrityError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("question %q: select with no options", q.ID),
			}
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt] {
				return &DataIntegrityError{
					Subject: "catalog",
					Detail:  fmt.Sprintf("question %q: duplicate option %q", q.ID, opt),
				}
			}
			seen[opt] = true
		}
	default:
		return &DataIntegrityError{
			Subject: "catalog",
			Detail:  fmt.Sprintf("question %q: unknown type %q", q.ID, q.Type),
		}
	}

	for key, target := range q.Branches {
		if _, ok := index[target]; !ok {
			return &DataIntegrityError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("question %q: branch %q targets unknown question %q", q.ID, key, target),
			}
		}
	}
	return nil
}

// Get returns the question with the given id.
func (c *Catalog) Get(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.Questions[i], true
}

// Position returns the catalog position of the given id, or -1.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Root returns the entry-point question: the first by catalog order.
func (c *Catalog) Root() Question {
	return c.Questions[0]
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.Questions)
}

// ValidateBands checks that bands are non-empty, well-formed, and cover
// the achievable score range of the catalog contiguously without
// overlap. Violations are content-authoring bugs.
func ValidateBands(bands []RiskBand, c *Catalog) error {
	if len(bands) == 0 {
		return &DataIntegrityError{Subject: "bands", Detail: "no risk bands"}
	}

	for _, b := range bands {
		if b.MaxScore < b.MinScore {
			return &DataIntegrityError{
				Subject: "bands",
				Detail:  fmt.Sprintf("band %q: max score %d below min score %d", b.Label, b.MaxScore, b.MinScore),
			}
		}
	}

	ordered := make([]RiskBand, len(bands))
	copy(ordered, bands)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].MinScore < ordered[j].MinScore
	})

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.MinScore <= prev.MaxScore {
			return &DataIntegrityError{
				Subject: "bands",
				Detail:  fmt.Sprintf("bands %q and %q overlap at score %d", prev.Label, cur.Label, cur.MinScore),
			}
		}
		if cur.MinScore > prev.MaxScore+1 {
			return &DataIntegrityError{
				Subject: "bands",
				Detail:  fmt.Sprintf("no band covers scores %d..%d", prev.MaxScore+1, cur.MinScore-1),
			}
		}
	}

	lo, hi := ScoreRange(c)
	if ordered[0].MinScore > lo || ordered[len(ordered)-1].MaxScore < hi {
		return &DataIntegrityError{
			Subject: "bands",
			Detail: fmt.Sprintf("bands cover %d..%d but achievable scores span %d..%d",
				ordered[0].MinScore, ordered[len(ordered)-1].MaxScore, lo, hi),
		}
	}
	return nil
}
