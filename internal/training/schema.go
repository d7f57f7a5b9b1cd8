package training

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atestado-tools/atestado-reader/internal/common"
)

// BuildExampleJSONSchema returns the shape every history entry must satisfy:
// non-empty raw text plus a corrected map carrying all four field keys.
func BuildExampleJSONSchema() map[string]any {
	fieldProp := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string", "minLength": 1},
			"corrected": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"CID":             fieldProp,
					"Médico":          fieldProp,
					"Data de Emissão": fieldProp,
					"Dias de Repouso": fieldProp,
				},
				"required": []string{"CID", "Médico", "Data de Emissão", "Dias de Repouso"},
			},
		},
		"required": []string{"text", "corrected"},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func exampleSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildExampleJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("example.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("example.json")
	})
	return compiledSchema, schemaErr
}

// CheckExample validates the shape of one entry before it is appended.
func CheckExample(ex Example) error {
	schema, err := exampleSchema()
	if err != nil {
		return err
	}
	b, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode example: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode example: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("malformed example: %w: %w", common.ErrValidation, err)
	}
	return nil
}
