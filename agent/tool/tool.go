package tool

import (
	"encoding/json"
	"strings"
)

// Tool describes one tool exposed by an MCP server.
type Tool struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema,omitempty"`
	// Server is the name of the owning MCP server.
	Server string `json:"-"`
}

// JSON returns the single-line JSON form used in the system prompt.
func (t *Tool) JSON() string {
	data, err := json.Marshal(t)
	if err != nil {
		return `{"name":` + quote(t.Name) + `}`
	}
	return string(data)
}

// Result is the flattened outcome of a tool call.
type Result struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError,omitempty"`
}

// Describe joins tool JSON lines for prompts.
func Describe(tools []*Tool) string {
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, t.JSON())
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
