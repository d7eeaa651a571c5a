package advice

// AdviceSchema defines the JSON schema for elaborated assessment advice.
var AdviceSchema = &Schema{
	Name:        "risk-advice",
	Description: "Personalized elaboration of a completed risk assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two to three sentences restating the outcome in plain, non-alarmist language",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"minItems":    1,
				"maxItems":    5,
				"description": "Concrete next steps tailored to the answers given",
				"items": map[string]any{
					"type": "string",
				},
			},
		},
		"required":             []any{"summary", "suggestions"},
		"additionalProperties": false,
	},
}
