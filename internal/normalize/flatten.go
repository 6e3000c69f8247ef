// Package normalize turns the worker's nested extraction payloads into flat,
// column-stable rows for tables and spreadsheets.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	keySeparator   = "_"
	arraySeparator = ", "

	// ValueKey holds a payload whose root is a scalar or an array.
	ValueKey = "value"
)

// Decode parses a payload into the generic JSON tree Flatten walks. Numbers
// are kept as json.Number so large integers survive.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("normalize.Decode: %w", err)
	}
	return v, nil
}

// Flatten collapses a generic JSON tree into one level. Nested object keys are
// joined with "_", arrays become a ", "-joined string and nulls become "".
// Flatten(Flatten(v)) equals Flatten(v).
func Flatten(v any) map[string]any {
	out := make(map[string]any)
	switch t := v.(type) {
	case nil:
	case map[string]any:
		flattenInto(out, "", t)
	default:
		out[ValueKey] = leaf(v)
	}
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	// Sorted so that colliding keys ("a_b" vs {"a":{"b"}}) resolve the same
	// way on every call.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + keySeparator + k
		}
		if nested, ok := m[k].(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = leaf(m[k])
	}
}

func leaf(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		return joinArray(t)
	default:
		return v
	}
}

func joinArray(items []any) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, arrayElement(item))
	}
	return strings.Join(parts, arraySeparator)
}

func arrayElement(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return scalarString(t)
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
