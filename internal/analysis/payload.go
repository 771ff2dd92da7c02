package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/formatting"
)

const callbackSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["document_id", "status"],
	"properties": {
		"document_id": {
			"type": "string",
			"pattern": "^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$"
		},
		"status": {"enum": ["succeeded", "failed"]},
		"fields": {"type": ["object", "string", "null"]},
		"error": {"type": "string"}
	},
	"if": {"properties": {"status": {"const": "succeeded"}}},
	"then": {"required": ["fields"]}
}`

var callbackSchema = jsonschema.MustCompileString("callback.json", callbackSchemaJSON)

// ParseCallback validates payload against the callback schema and decodes it.
func ParseCallback(payload []byte) (*Callback, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := callbackSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var cb Callback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &cb, nil
}

// DecodeFields reads the extracted field map from a callback. A string value
// is parsed as JSON, with or without a markdown code fence around it. A missing
// or null value yields an empty map. Entries that are not objects are dropped
// rather than failing the callback.
func DecodeFields(raw json.RawMessage) (confidence.FieldMap, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return confidence.FieldMap{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		fields, err := formatting.Parse[confidence.FieldMap](s)
		if err != nil {
			return nil, fmt.Errorf("%w: fields: %v", ErrInvalidPayload, err)
		}
		if fields == nil {
			fields = confidence.FieldMap{}
		}
		return fields, nil
	}

	var fields confidence.FieldMap
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: fields: %v", ErrInvalidPayload, err)
	}
	if fields == nil {
		fields = confidence.FieldMap{}
	}
	return fields, nil
}
