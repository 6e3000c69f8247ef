// Package prompt assembles extraction prompts from field schemas.
package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var errNotObject = errors.New("schema must be a JSON object")

// Schema is an insertion-ordered mapping from field key to a short
// description of what to extract. Values are usually strings, but a model may
// return nested objects, which are kept as-is.
type Schema struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{fields: orderedmap.New[string, any]()}
}

// ParseSchema decodes a JSON object, preserving key order.
func ParseSchema(data []byte) (*Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	s := NewSchema()
	if err := s.fields.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// Set adds or replaces a field. New keys are appended.
func (s *Schema) Set(key string, description any) {
	s.fields.Set(key, description)
}

// Get returns the description of key.
func (s *Schema) Get(key string) (any, bool) {
	return s.fields.Get(key)
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	if s == nil || s.fields == nil {
		return 0
	}
	return s.fields.Len()
}

// Keys returns the field keys in order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, s.Len())
	if s.Len() == 0 {
		return keys
	}
	for p := s.fields.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// MarshalJSON encodes the schema compactly in key order. Unlike the ordered
// map's own encoder it leaves '<', '>' and '&' unescaped so descriptions read
// naturally inside a prompt.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil || s.fields == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for p, first := s.fields.Oldest(), true; p != nil; p = p.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := encodeNoEscape(&buf, p.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeNoEscape(&buf, p.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSchema(data)
	if err != nil {
		return err
	}
	s.fields = parsed.fields
	return nil
}

// Indented renders the schema with two-space indentation.
func (s *Schema) Indented() string {
	compact, err := s.MarshalJSON()
	if err != nil {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return string(compact)
	}
	return out.String()
}

func encodeNoEscape(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
