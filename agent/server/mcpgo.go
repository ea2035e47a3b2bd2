package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/agent/tool"
	"github.com/viant/mcp-agent/internal/conv"
)

// mcpgoSession adapts a mark3labs MCP client, used for stdio and streamable
// HTTP servers.
type mcpgoSession struct {
	client *client.Client
}

func newStdioSession(ctx context.Context, cfg *config.Server) (Session, error) {
	command, err := resolveCommand(cfg.Command)
	if err != nil {
		return nil, err
	}
	cli, err := client.NewStdioMCPClientWithOptions(command, cfg.Environ(), cfg.Args,
		transport.WithCommandFunc(commandFunc(cfg.WorkingDirectory)))
	if err != nil {
		return nil, fmt.Errorf("start server %q: %w", cfg.Name, err)
	}
	return NewMCPGoSession(ctx, cli)
}

func newHTTPSession(ctx context.Context, cfg *config.Server) (Session, error) {
	var options []transport.StreamableHTTPCOption
	if len(cfg.Headers) > 0 {
		options = append(options, transport.WithHTTPHeaders(cfg.Headers))
	}
	cli, err := client.NewStreamableHttpClient(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("create http client for %q: %w", cfg.Name, err)
	}
	if err = cli.Start(ctx); err != nil {
		return nil, fmt.Errorf("connect to %q: %w", cfg.Name, err)
	}
	return NewMCPGoSession(ctx, cli)
}

// NewMCPGoSession performs the MCP handshake on a started client. The client
// is closed when the handshake fails.
func NewMCPGoSession(ctx context.Context, cli *client.Client) (Session, error) {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: ClientName, Version: ClientVersion}
	if _, err := cli.Initialize(ctx, req); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return &mcpgoSession{client: cli}, nil
}

func (s *mcpgoSession) ListTools(ctx context.Context) ([]*tool.Tool, error) {
	var result []*tool.Tool
	req := mcp.ListToolsRequest{}
	for {
		res, err := s.client.ListTools(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, t := range res.Tools {
			result = append(result, toolFromMCPGo(t))
		}
		if res.NextCursor == "" {
			break
		}
		req.Params.Cursor = res.NextCursor
	}
	return result, nil
}

func (s *mcpgoSession) CallTool(ctx context.Context, name string, args map[string]interface{}) (*tool.Result, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := s.client.CallTool(ctx, req)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(res.Content))
	for _, content := range res.Content {
		texts = append(texts, contentText(content))
	}
	return &tool.Result{Text: strings.Join(texts, "\n"), IsError: res.IsError}, nil
}

func (s *mcpgoSession) Close() error {
	return s.client.Close()
}

func toolFromMCPGo(t mcp.Tool) *tool.Tool {
	result := &tool.Tool{
		Name:        t.Name,
		Title:       t.Annotations.Title,
		Description: t.Description,
	}
	if encoded, err := conv.ToMap(t); err == nil {
		if schema, ok := encoded["inputSchema"].(map[string]interface{}); ok {
			result.InputSchema = schema
		}
	}
	return result
}

func contentText(content mcp.Content) string {
	switch actual := content.(type) {
	case mcp.TextContent:
		return actual.Text
	case *mcp.TextContent:
		return actual.Text
	}
	return conv.JSONText(content)
}

// resolveCommand looks npx up on PATH since it is commonly installed outside
// the locations a child process would search.
func resolveCommand(command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("the command must be a valid string and cannot be empty")
	}
	if command != "npx" {
		return command, nil
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", command, err)
	}
	return resolved, nil
}

// commandFunc builds the child process. The parent environment is inherited
// and the server env block is appended so that it takes precedence.
func commandFunc(workingDirectory string) transport.CommandFunc {
	return func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = append(os.Environ(), env...)
		cmd.Dir = workingDirectory
		return cmd, nil
	}
}
