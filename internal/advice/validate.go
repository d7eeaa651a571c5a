package advice

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Compiled schemas, keyed by Schema.Name. The advice flow compiles
// exactly one schema, but the cache keeps repeated sessions cheap.
var compiledSchemas sync.Map

// validateResponse checks that the model's output is valid JSON that
// conforms to the requested schema. Providers enforce the schema
// server-side where they can; this is the local backstop, since advice
// payloads feed straight into the results screen. A nil schema means
// free-form text and is not checked.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := schema.compiled()
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}
	if err := compiled.Validate(payload); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}
	return nil
}

// compiled returns the jsonschema form of the definition, compiling and
// caching on first use. The definition map is round-tripped through
// encoding/json because the compiler wants parsed JSON values.
func (s *Schema) compiled() (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	compiledSchemas.Store(s.Name, compiled)
	return compiled, nil
}
