package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEditorStateDefaultsPublished(t *testing.T) {
	state := NewEditorState(Record{"heading": "Hi"})
	assert.Equal(t, true, state.Record[PublishedKey])
	assert.Equal(t, "Hi", state.Record["heading"])

	unpublished := NewEditorState(Record{PublishedKey: false})
	assert.Equal(t, false, unpublished.Record[PublishedKey])

	empty := NewEditorState(nil)
	assert.Equal(t, true, empty.Record[PublishedKey])
}

func TestNewEditorStateDoesNotAliasSource(t *testing.T) {
	source := Record{"heading": "Hi"}
	state := NewEditorState(source)
	state.Set("heading", "Changed")

	assert.Equal(t, "Hi", source["heading"])
}

func TestApplyRawJSONIgnoresInvalidInput(t *testing.T) {
	state := NewEditorState(Record{"heading": "Hi"})

	assert.False(t, state.ApplyRawJSON(`{"heading": `))
	assert.False(t, state.ApplyRawJSON(`["heading"]`))
	assert.False(t, state.ApplyRawJSON(`null`))
	assert.Equal(t, "Hi", state.Record["heading"])

	assert.True(t, state.ApplyRawJSON(`{"heading": "Raw", "body": "text"}`))
	assert.Equal(t, Record{"heading": "Raw", "body": "text"}, state.Record)
}
