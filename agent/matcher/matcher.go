// Package matcher selects MCP servers by name pattern.
package matcher

import (
	"path"
	"strings"
)

// Match reports whether a server name satisfies pattern. "*" matches every
// name and an empty pattern matches none. Patterns holding glob meta
// characters use path.Match; anything else matches as a name prefix.
func Match(pattern, name string) bool {
	switch pattern {
	case "*":
		return true
	case "":
		return false
	}
	if strings.ContainsAny(pattern, "*?[") {
		matched, err := path.Match(pattern, name)
		return err == nil && matched
	}
	return strings.HasPrefix(name, pattern)
}
