// Package script implements a small MCP server that lets a model run shell
// commands inside a workspace directory. It is served over stdio by the
// "serve" command.
package script
