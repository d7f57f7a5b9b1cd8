package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildFieldsJSONSchema returns the JSON Schema (draft 2020-12 subset) the
// model's structured output must satisfy. Passed to the provider as an
// output constraint and applied locally before any value reaches the
// pipeline. All fields are optional: the model omits what it cannot find.
func BuildFieldsJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"cid": map[string]any{
				"type":    "string",
				"pattern": `^[A-Z]\d{2,3}(\.\d{1,2})?$`,
			},
			"medico": map[string]any{"type": "string", "minLength": 1},
			"data_emissao": map[string]any{
				"type":    "string",
				"pattern": `^\d{2}/\d{2}/\d{4}$`,
			},
			"dias_repouso": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 365,
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
		},
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
