// Package conv normalises values coming from different MCP client libraries
// into the plain maps and strings the agent works with.
package conv
