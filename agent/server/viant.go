package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/mcp"
	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/agent/tool"
	"github.com/viant/mcp-agent/internal/conv"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
)

// sseSession talks to SSE servers through the viant MCP client.
type sseSession struct {
	client mcpclient.Interface
	token  string
}

func newSSESession(ctx context.Context, cfg *config.Server) (Session, error) {
	options := &mcp.ClientOptions{
		Name:    cfg.Name,
		Version: ClientVersion,
		Transport: mcp.ClientTransport{
			Type:                config.TransportSSE,
			ClientTransportHTTP: mcp.ClientTransportHTTP{URL: cfg.URL},
		},
	}
	options.Init()
	cli, err := mcp.NewClient(newClientHandler(), options)
	if err != nil {
		return nil, fmt.Errorf("create mcp client %q: %w", cfg.Name, err)
	}
	return &sseSession{client: cli, token: bearerToken(cfg.Headers)}, nil
}

func (s *sseSession) context(ctx context.Context) context.Context {
	if s.token == "" {
		return ctx
	}
	return WithAuthToken(ctx, s.token)
}

func (s *sseSession) ListTools(ctx context.Context) ([]*tool.Tool, error) {
	ctx = s.context(ctx)
	var result []*tool.Tool
	var cursor *string
	for {
		res, err := s.client.ListTools(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for _, t := range res.Tools {
			item := &tool.Tool{Name: t.Name, Description: conv.Dereference[string](t.Description)}
			if schema, err := conv.ToMap(t.InputSchema); err == nil {
				item.InputSchema = schema
			}
			result = append(result, item)
		}
		if res.NextCursor == nil || *res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return result, nil
}

func (s *sseSession) CallTool(ctx context.Context, name string, args map[string]interface{}) (*tool.Result, error) {
	params := &mcpschema.CallToolRequestParams{
		Name:      name,
		Arguments: mcpschema.CallToolRequestParamsArguments(args),
	}
	res, err := s.client.CallTool(s.context(ctx), params)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(res.Content))
	for _, elem := range res.Content {
		if elem.Type == "" || elem.Type == "text" {
			texts = append(texts, elem.Text)
			continue
		}
		texts = append(texts, conv.JSONText(elem))
	}
	return &tool.Result{Text: strings.Join(texts, "\n"), IsError: conv.Dereference[bool](res.IsError)}, nil
}

// Close is a no-op: the SSE stream is owned by the viant client.
func (s *sseSession) Close() error { return nil }
