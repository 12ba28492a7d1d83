// Package filter narrows and reshapes normalized JSON payloads with JMESPath.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Apply applies filter and query expressions to a JSON payload.
// Filter narrows results (e.g., data[?status==`active`])
// Query transforms/selects fields (e.g., [].title)
// An empty expression leaves the payload unchanged.
func Apply(payload json.RawMessage, filter string, query string) (json.RawMessage, error) {
	if filter == "" && query == "" {
		return payload, nil
	}

	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if filter != "" {
		filtered, err := search(data, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to apply filter: %w", err)
		}
		data = filtered
	}

	if query != "" {
		queried, err := search(data, query)
		if err != nil {
			return nil, fmt.Errorf("failed to apply query: %w", err)
		}
		data = queried
	}

	if data == nil {
		return json.RawMessage("null"), nil
	}

	output, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return output, nil
}

// search applies a compiled JMESPath expression to decoded JSON
func search(data any, expression string) (any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
