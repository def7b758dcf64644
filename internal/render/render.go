package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/studiowebux/appclient/internal/types"
)

// Indent is the indentation used for structured payloads
const Indent = "  "

// Target is anything that can hold display text
type Target interface {
	SetText(s string) error
}

// Format returns the textual form of a payload: plain strings verbatim,
// structured values re-indented with two spaces. Key order and number
// spelling are kept as received.
func Format(p types.Payload) (string, error) {
	if p.IsText() {
		return p.Text, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.Raw, "", Indent); err != nil {
		return "", fmt.Errorf("failed to format payload: %w", err)
	}
	return buf.String(), nil
}

// Render formats the payload and overwrites the target's content
func Render(target Target, p types.Payload) error {
	text, err := Format(p)
	if err != nil {
		return err
	}
	return target.SetText(text)
}

// Value converts an arbitrary Go value into a payload: strings become text
// payloads, everything else is encoded as JSON without HTML escaping.
func Value(v any) (types.Payload, error) {
	if s, ok := v.(string); ok {
		return types.TextPayload(s), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return types.Payload{}, fmt.Errorf("failed to encode value: %w", err)
	}
	return types.JSONPayload(buf.Bytes()), nil
}
