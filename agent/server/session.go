package server

import (
	"context"
	"fmt"

	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/agent/tool"
)

// Client identity announced during MCP initialization.
const (
	ClientName    = "mcp-agent"
	ClientVersion = "0.1.0"
)

// Session is an initialized connection to one MCP server.
type Session interface {
	ListTools(ctx context.Context) ([]*tool.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*tool.Result, error)
	Close() error
}

// Connector opens a Session for a server configuration.
type Connector func(ctx context.Context, cfg *config.Server) (Session, error)

// Connect opens a session using the transport configured for cfg.
func Connect(ctx context.Context, cfg *config.Server) (Session, error) {
	switch cfg.Transport {
	case config.TransportStdio:
		return newStdioSession(ctx, cfg)
	case config.TransportHTTP:
		return newHTTPSession(ctx, cfg)
	case config.TransportSSE:
		return newSSESession(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported transport %q for server %q", cfg.Transport, cfg.Name)
	}
}
