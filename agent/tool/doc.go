// Package tool contains the transport-neutral tool model shared by the MCP
// sessions and the agent: tool descriptors, call results, qualified
// server/tool names and the JSON envelope the model uses to request a tool.
package tool
