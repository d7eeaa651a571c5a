// Package catalog loads question catalogs and risk band tables from
// JSON documents. Documents are validated against a JSON Schema first,
// then mapped onto quiz types, whose constructors enforce the deeper
// cross-entry invariants.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/riskscan/internal/quiz"
)

//go:embed data/catalog.json
var defaultCatalog []byte

//go:embed data/bands.json
var defaultBands []byte

type questionDoc struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Type     string            `json:"type"`
	Weight   int               `json:"weight"`
	Category string            `json:"category"`
	Options  *optionsDoc       `json:"options"`
	Branches map[string]string `json:"branches"`
}

type optionsDoc struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Options  []string `json:"options"`
	Positive string   `json:"positive"`
}

type catalogDoc struct {
	Questions []questionDoc `json:"questions"`
}

type bandDoc struct {
	Label          string   `json:"label"`
	Description    string   `json:"description"`
	MinScore       int      `json:"min_score"`
	MaxScore       int      `json:"max_score"`
	Recommendation string   `json:"recommendation"`
	Followups      []string `json:"followup_actions"`
	Sources        []string `json:"sources"`
}

type bandsDoc struct {
	Bands []bandDoc `json:"bands"`
}

// Load reads and validates a catalog document from disk.
func Load(path string) (*quiz.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse builds a validated catalog from raw JSON.
func Parse(raw []byte) (*quiz.Catalog, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	if err := validateDocument(catalogChecker, raw); err != nil {
		return nil, &quiz.DataIntegrityError{Subject: "catalog", Detail: err.Error()}
	}

	var doc catalogDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	questions := make([]quiz.Question, 0, len(doc.Questions))
	for _, qd := range doc.Questions {
		questions = append(questions, mapQuestion(qd))
	}
	return quiz.NewCatalog(questions)
}

func mapQuestion(qd questionDoc) quiz.Question {
	q := quiz.Question{
		ID:       qd.ID,
		Text:     qd.Text,
		Type:     quiz.Type(qd.Type),
		Weight:   qd.Weight,
		Category: qd.Category,
		Branches: qd.Branches,
	}
	if qd.Options != nil {
		if qd.Options.Min != nil {
			q.Min = *qd.Options.Min
		}
		if qd.Options.Max != nil {
			q.Max = *qd.Options.Max
		}
		q.Options = qd.Options.Options
		q.Positive = qd.Options.Positive
	}
	return q
}

// LoadBands reads and validates a risk band table from disk. Coverage
// against a catalog's achievable score range is checked separately at
// session construction, where both documents meet.
func LoadBands(path string) ([]quiz.RiskBand, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bands: %w", err)
	}
	return ParseBands(raw)
}

// ParseBands builds a band table from raw JSON.
func ParseBands(raw []byte) ([]quiz.RiskBand, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	if err := validateDocument(bandChecker, raw); err != nil {
		return nil, &quiz.DataIntegrityError{Subject: "bands", Detail: err.Error()}
	}

	var doc bandsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode bands: %w", err)
	}

	bands := make([]quiz.RiskBand, 0, len(doc.Bands))
	for _, bd := range doc.Bands {
		bands = append(bands, quiz.RiskBand{
			Label:          bd.Label,
			Description:    bd.Description,
			MinScore:       bd.MinScore,
			MaxScore:       bd.MaxScore,
			Recommendation: bd.Recommendation,
			Followups:      bd.Followups,
			Sources:        bd.Sources,
		})
	}
	return bands, nil
}

// Default returns the embedded cancer-risk catalog.
func Default() (*quiz.Catalog, error) {
	return Parse(defaultCatalog)
}

// DefaultBands returns the embedded risk band table matching Default.
func DefaultBands() ([]quiz.RiskBand, error) {
	return ParseBands(defaultBands)
}
