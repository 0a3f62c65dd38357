package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildPayloadJSONSchema returns the schema of the OCR input contract as a generic map.
func BuildPayloadJSONSchema() map[string]any {
	vertex := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "number"},
			"y": map[string]any{"type": "number"},
		},
	}
	detection := map[string]any{
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"boundingPoly": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"vertices": map[string]any{"type": "array", "items": vertex},
				},
			},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"detections": map[string]any{"type": "array", "items": detection},
		},
	}
}

var (
	payloadSchemaOnce sync.Once
	payloadSchema     *jsonschema.Schema
	payloadSchemaErr  error
)

func compiledPayloadSchema() (*jsonschema.Schema, error) {
	payloadSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildPayloadJSONSchema())
		if err != nil {
			payloadSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("ocr_payload.json", bytes.NewReader(b)); err != nil {
			payloadSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		payloadSchema, payloadSchemaErr = compiler.Compile("ocr_payload.json")
	})
	return payloadSchema, payloadSchemaErr
}
