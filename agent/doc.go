// Package agent connects an LLM to a set of MCP servers. It advertises the
// servers' tools in the system prompt, executes the tool calls the model asks
// for and feeds the results back until the model ends the conversation.
package agent
