// Package server manages connections to MCP servers. A Server wraps one
// configured endpoint and hides the transport (stdio child process,
// streamable HTTP or SSE) behind a Session.
package server
