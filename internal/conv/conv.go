package conv

import (
	"encoding/json"
	"fmt"
)

// ToMap normalises a tool descriptor or schema into a plain map. Maps are
// returned as is; anything else takes a JSON round-trip. A nil input yields a
// nil map.
func ToMap(in any) (map[string]interface{}, error) {
	switch actual := in.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return actual, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("conv.ToMap: %w", err)
	}
	var m map[string]interface{}
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("conv.ToMap: %T is not an object: %w", in, err)
	}
	return m, nil
}

// JSONText renders non-text tool content for the conversation.
func JSONText(in any) string {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Sprintf("%v", in)
	}
	return string(data)
}

// Dereference returns the value ptr points to, or the zero value for nil.
func Dereference[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}
