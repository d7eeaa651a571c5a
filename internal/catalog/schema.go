package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// catalogSchema constrains authored catalog documents before they are
// mapped onto quiz types. Cross-entry invariants (unique ids, branch
// targets) are checked afterwards by quiz.NewCatalog.
const catalogSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "text", "type", "weight"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "text": {"type": "string", "minLength": 1},
          "type": {"enum": ["boolean", "range", "select"]},
          "weight": {"type": "integer"},
          "category": {"type": "string"},
          "options": {
            "type": "object",
            "properties": {
              "min": {"type": "number"},
              "max": {"type": "number"},
              "options": {
                "type": "array",
                "items": {"type": "string"}
              },
              "positive": {"type": "string"}
            }
          },
          "branches": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

// bandSchema constrains authored risk band tables.
const bandSchema = `{
  "type": "object",
  "required": ["bands"],
  "properties": {
    "bands": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["label", "min_score", "max_score"],
        "properties": {
          "label": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "min_score": {"type": "integer"},
          "max_score": {"type": "integer"},
          "recommendation": {"type": "string"},
          "followup_actions": {
            "type": "array",
            "items": {"type": "string"}
          },
          "sources": {
            "type": "array",
            "items": {"type": "string"}
          }
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledError  error
	catalogChecker *jsonschema.Schema
	bandChecker    *jsonschema.Schema
)

func compileSchemas() error {
	compileOnce.Do(func() {
		catalogChecker, compiledError = compile("catalog", catalogSchema)
		if compiledError != nil {
			return
		}
		bandChecker, compiledError = compile("bands", bandSchema)
	})
	return compiledError
}

func compile(name, def string) (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal([]byte(def), &parsed); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return compiled, nil
}

// validateDocument checks raw JSON against the named schema.
func validateDocument(checker *jsonschema.Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := checker.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
