package confidence

import (
	"bytes"
	"encoding/json"
	"maps"
	"math"
)

// FieldObservation is one extracted field as produced by the analysis engine
// or edited by a reviewer.
//
// Confidence is nil when the engine did not score the field. Manual marks a
// value a human has confirmed or overridden; manual values survive re-analysis.
// Extra holds every other key of the engine's field object (valueCurrency,
// valueArray, boundingRegions and so on) so the payload persists unchanged.
type FieldObservation struct {
	Type        string
	Content     string
	ValueString string
	ValueDate   string
	ValueNumber *float64
	Confidence  *float64
	Manual      bool
	Extra       map[string]json.RawMessage
}

// FieldMap holds a document's fields keyed by field name.
type FieldMap map[string]FieldObservation

var knownKeys = map[string]struct{}{
	"type":        {},
	"content":     {},
	"valueString": {},
	"valueDate":   {},
	"valueNumber": {},
	"confidence":  {},
	"manual":      {},
}

// Score returns the field's confidence when it is a finite number.
func (f FieldObservation) Score() (float64, bool) {
	if f.Confidence == nil {
		return 0, false
	}
	c := *f.Confidence
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, false
	}
	return c, true
}

// UnmarshalJSON decodes a field leniently. Only a value that is not a JSON
// object is an error. A known key holding the wrong type decodes as its zero
// value; a confidence that is not a number decodes as unscored and a manual
// flag that is not literally true decodes as false.
func (f *FieldObservation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = FieldObservation{
		Type:        decodeString(raw["type"]),
		Content:     decodeString(raw["content"]),
		ValueString: decodeString(raw["valueString"]),
		ValueDate:   decodeString(raw["valueDate"]),
		ValueNumber: decodeNumber(raw["valueNumber"]),
		Confidence:  decodeNumber(raw["confidence"]),
		Manual:      bytes.Equal(bytes.TrimSpace(raw["manual"]), []byte("true")),
	}

	for k, v := range raw {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if f.Extra == nil {
			f.Extra = make(map[string]json.RawMessage)
		}
		f.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes the known keys that are set followed by Extra verbatim.
func (f FieldObservation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Extra)+7)
	for k, v := range f.Extra {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		out[k] = v
	}

	setString := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	setString("type", f.Type)
	setString("content", f.Content)
	setString("valueString", f.ValueString)
	setString("valueDate", f.ValueDate)
	if f.ValueNumber != nil {
		out["valueNumber"] = *f.ValueNumber
	}
	if f.Confidence != nil {
		out["confidence"] = *f.Confidence
	}
	if f.Manual {
		out["manual"] = true
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a field map, dropping any entry whose value is not a
// JSON object. Only a document that is not an object (or null) is an error.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(FieldMap, len(raw))
	for name, entry := range raw {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		var f FieldObservation
		if err := f.UnmarshalJSON(entry); err != nil {
			continue
		}
		out[name] = f
	}
	*m = out
	return nil
}

// Clone returns a copy of the map. Observations are copied by value; their
// pointer and Extra fields are shared and never written through.
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}
