package tool

import "strings"

// Name represents a tool name optionally qualified by its server, e.g.
// "brave/brave_web_search".
type Name string

// Server returns the server part or an empty string for a bare name.
func (t Name) Server() string {
	tool := string(t)
	if idx := strings.Index(tool, "/"); idx != -1 {
		return tool[:idx]
	}
	return ""
}

// Tool returns the tool part.
func (t Name) Tool() string {
	tool := string(t)
	if idx := strings.Index(tool, "/"); idx != -1 {
		return tool[idx+1:]
	}
	return tool
}

func (t Name) String() string {
	return string(t)
}

// NewName new name
func NewName(server, name string) Name {
	if server == "" {
		return Name(name)
	}
	return Name(server + "/" + name)
}
