// Package content models the open-ended section content record and the
// field-level fallback rule applied when pages render it.
package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is the field-name → value mapping stored per section.
type Record map[string]any

// Parse decodes a stored content column. Anything other than a JSON object
// (null, arrays, scalars, malformed bytes) yields an empty record.
func Parse(raw []byte) Record {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return Record{}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil || decoded == nil {
		return Record{}
	}
	return Record(decoded)
}

// Marshal encodes the record for storage. A nil record is stored as {}.
func (r Record) Marshal() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(r))
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	if len(r) == 0 {
		return false
	}
	value, ok := r[key]
	return ok && value != nil
}

// Pick returns r[key] when present and defined, otherwise def.
// Every field falls back on its own; an authored heading does not pull the
// rest of the defaults out of the page.
func (r Record) Pick(key string, def any) any {
	if !r.Has(key) {
		return def
	}
	return r[key]
}

// String picks key as a string. Numbers and booleans are formatted; other
// shapes fall back to def.
func (r Record) String(key, def string) string {
	switch v := r.Pick(key, def).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

// StringList picks key as a list of strings; non-string entries are skipped.
func (r Record) StringList(key string, def []string) []string {
	raw, ok := r.Pick(key, nil).([]any)
	if !ok {
		if typed, ok := r.Pick(key, nil).([]string); ok {
			return typed
		}
		return def
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Number picks key as a float. Numeric strings ("0.4") are accepted since the
// editor stores form input as text.
func (r Record) Number(key string, def float64) float64 {
	switch v := r.Pick(key, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// Bool picks key as a boolean; "true"/"false" strings are accepted.
func (r Record) Bool(key string, def bool) bool {
	switch v := r.Pick(key, nil).(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// Clone returns a deep copy so editor state never aliases stored data.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return map[string]any(Record(typed).Clone())
	case Record:
		return typed.Clone()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// Merge renders defaults over a resolved record: each default key is picked
// independently, and authored keys without a default are carried over.
func Merge(record, defaults Record) Record {
	out := make(Record, len(defaults)+len(record))
	for key, def := range defaults {
		out[key] = record.Pick(key, def)
	}
	for key, value := range record {
		if _, seen := out[key]; seen || value == nil {
			continue
		}
		out[key] = value
	}
	return out
}
