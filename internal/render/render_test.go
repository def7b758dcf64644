package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/appclient/internal/dom"
	"github.com/studiowebux/appclient/internal/types"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload types.Payload
		want    string
	}{
		{"plain string verbatim", types.TextPayload("hello"), "hello"},
		{"string with quotes is not escaped", types.TextPayload(`say "hi"`), `say "hi"`},
		{"empty string", types.TextPayload(""), ""},
		{"single key object", types.JSONPayload([]byte(`{"sum": 7}`)), "{\n  \"sum\": 7\n}"},
		{"compact object gets indented", types.JSONPayload([]byte(`{"a":1,"b":[1,2]}`)), "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}"},
		{"key order preserved", types.JSONPayload([]byte(`{"z":1,"a":2}`)), "{\n  \"z\": 1,\n  \"a\": 2\n}"},
		{"html not escaped", types.JSONPayload([]byte(`{"m":"<b>"}`)), "{\n  \"m\": \"<b>\"\n}"},
		{"empty object", types.JSONPayload([]byte(`{}`)), "{}"},
		{"number", types.JSONPayload([]byte("3.14")), "3.14"},
		{"null", types.JSONPayload([]byte("null")), "null"},
		{"surrounding whitespace dropped", types.JSONPayload([]byte("  {\"x\": true}\n")), "{\n  \"x\": true\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	p := types.JSONPayload([]byte(`{"message":"¡Hola, Ana!","timestamp":"2025-01-01T10:00:00"}`))

	first, err := Format(p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Format(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFormat_InvalidRaw(t *testing.T) {
	_, err := Format(types.JSONPayload([]byte(`{"broken"`)))
	assert.Error(t, err)
}

func TestRender_OverwritesTarget(t *testing.T) {
	page := dom.NewPage("respSum")
	target := page.Element("respSum")
	require.NoError(t, target.SetText("previous"))

	require.NoError(t, Render(target, types.JSONPayload([]byte(`{"sum": 7}`))))
	assert.Equal(t, "{\n  \"sum\": 7\n}", target.Text())

	require.NoError(t, Render(target, types.TextPayload("hello")))
	assert.Equal(t, "hello", target.Text())
}

func TestRender_AbsentTarget(t *testing.T) {
	page := dom.NewPage()
	err := Render(page.Element("respSum"), types.TextPayload("hello"))
	assert.True(t, errors.Is(err, dom.ErrNoElement))
}

func TestValue(t *testing.T) {
	p, err := Value(map[string]any{"sum": 7})
	require.NoError(t, err)
	got, err := Format(p)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"sum\": 7\n}", got)

	p, err = Value("hello")
	require.NoError(t, err)
	assert.True(t, p.IsText())
	assert.Equal(t, "hello", p.Text)
}
