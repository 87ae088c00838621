package content

import (
	"encoding/json"
	"strings"
)

// PublishedKey is always present in editor state.
const PublishedKey = "isPublished"

// EditorState is the in-memory form state of the section editor: the full
// content record, saved back as a whole.
type EditorState struct {
	Record Record
}

// NewEditorState hydrates the editor from an existing record. isPublished
// defaults to true when the record does not carry it.
func NewEditorState(existing Record) *EditorState {
	state := existing.Clone()
	if !state.Has(PublishedKey) {
		state[PublishedKey] = true
	}
	return &EditorState{Record: state}
}

// Set assigns one field.
func (s *EditorState) Set(key string, value any) {
	if s.Record == nil {
		s.Record = Record{}
	}
	s.Record[key] = value
}

// ApplyRawJSON replaces the state with the object in raw. Invalid JSON or a
// non-object leaves the previous state untouched and reports false.
func (s *EditorState) ApplyRawJSON(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil || decoded == nil {
		return false
	}
	s.Record = Record(decoded)
	return true
}

// RawJSON renders the state for the raw editor.
func (s *EditorState) RawJSON() string {
	b, err := json.MarshalIndent(map[string]any(s.Record), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
