package tool

import (
	"encoding/json"
	"strings"
)

// Call is the envelope a model replies with when it wants a tool executed:
//
//	{"tool": "tool-name", "arguments": {"argument-name": "value"}}
type Call struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ParseCall decodes reply as a Call. It reports false for anything that is
// not a JSON object carrying both a tool and an arguments field, in which case
// the reply is meant for the user as is.
func ParseCall(reply string) (*Call, bool) {
	text := strings.TrimSpace(reply)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, false
	}
	rawTool, hasTool := fields["tool"]
	rawArgs, hasArgs := fields["arguments"]
	if !hasTool || !hasArgs {
		return nil, false
	}
	call := &Call{}
	if err := json.Unmarshal(rawTool, &call.Tool); err != nil {
		return nil, false
	}
	if string(rawArgs) != "null" {
		if err := json.Unmarshal(rawArgs, &call.Arguments); err != nil {
			return nil, false
		}
	}
	if call.Arguments == nil {
		call.Arguments = map[string]interface{}{}
	}
	return call, true
}
