package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/appclient/internal/render"
	"github.com/studiowebux/appclient/internal/types"
)

// Apply evaluates a JMESPath expression against a payload and returns the
// selection as a new payload. An empty expression returns p unchanged.
// A string result becomes a text payload; objects in the result are
// re-encoded with sorted keys.
func Apply(p types.Payload, expression string) (types.Payload, error) {
	if expression == "" {
		return p, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return types.Payload{}, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	var data interface{}
	if p.IsText() {
		data = p.Text
	} else if err := json.Unmarshal(p.Raw, &data); err != nil {
		return types.Payload{}, fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return types.Payload{}, fmt.Errorf("JMESPath search failed: %w", err)
	}

	return render.Value(result)
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
