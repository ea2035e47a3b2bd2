package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/agent/llm"
	"github.com/viant/mcp-agent/agent/matcher"
	"github.com/viant/mcp-agent/agent/server"
	"github.com/viant/mcp-agent/agent/tool"
	"github.com/viant/mcp-agent/internal/logging"
	"github.com/viant/mcp-agent/internal/syncmap"
	"golang.org/x/time/rate"
)

// ErrTurnLimit is returned by Send when the model keeps going past the
// configured number of turns.
var ErrTurnLimit = errors.New("turn limit reached")

// Agent owns the LLM client and the MCP servers selected by configuration.
type Agent struct {
	config    *config.Config
	llm       llm.Client
	logger    arbor.ILogger
	connector server.Connector
	limiter   *rate.Limiter

	servers []*server.Server
	tools   *syncmap.Map[*server.Server]
}

// Option customises an Agent.
type Option func(*Agent)

// WithLLM sets the model client. By default an Azure client is created from
// the configuration on first use.
func WithLLM(client llm.Client) Option {
	return func(a *Agent) {
		a.llm = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithConnector overrides how server sessions are opened.
func WithConnector(connector server.Connector) Option {
	return func(a *Agent) {
		a.connector = connector
	}
}

// New validates cfg and prepares (but does not start) the selected servers.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Agent, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Init()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Agent{config: cfg, tools: syncmap.NewRegistry[*server.Server]()}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDiscard(a.logger)
	if rpm := cfg.Agent.RequestsPerMinute; rpm > 0 {
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
	configs, err := cfg.MCP.ResolveServers(ctx)
	if err != nil {
		return nil, err
	}
	a.warnUnresolved(configs)
	if configs, err = selectServers(configs, cfg.Agent.Servers); err != nil {
		return nil, err
	}
	for _, srvConfig := range configs {
		if err = srvConfig.Validate(); err != nil {
			return nil, err
		}
		srvOpts := []server.Option{
			server.WithRetry(cfg.Agent.Retries, cfg.Agent.Delay()),
			server.WithLogger(a.logger),
		}
		if a.connector != nil {
			srvOpts = append(srvOpts, server.WithConnector(a.connector))
		}
		a.servers = append(a.servers, server.New(srvConfig, srvOpts...))
	}
	return a, nil
}

// Config returns the effective configuration. Callers must treat it as read-only.
func (a *Agent) Config() *config.Config { return a.config }

// Servers returns the selected servers in start order.
func (a *Agent) Servers() []*server.Server { return a.servers }

// Connect initializes every server in order and indexes their tools. When any
// server fails all servers are cleaned up and the error is returned.
func (a *Agent) Connect(ctx context.Context) error {
	for _, srv := range a.servers {
		if err := srv.Initialize(ctx); err != nil {
			a.Close()
			return err
		}
	}
	a.tools.Reset()
	for _, srv := range a.servers {
		tools, err := srv.ListTools(ctx)
		if err != nil {
			a.Close()
			return err
		}
		for _, t := range tools {
			if !a.tools.SetIfAbsent(t.Name, srv) {
				a.logger.Warn().Str("tool", t.Name).Str("server", srv.Name()).Msg("Tool already provided by another server")
			}
		}
	}
	return nil
}

// Close cleans up servers in reverse start order.
func (a *Agent) Close() {
	for i := len(a.servers) - 1; i >= 0; i-- {
		if err := a.servers[i].Cleanup(); err != nil {
			a.logger.Warn().Err(err).Msg("Warning during final cleanup")
		}
	}
}

// Tools lists the tools of every connected server in server order.
func (a *Agent) Tools(ctx context.Context) ([]*tool.Tool, error) {
	var result []*tool.Tool
	for _, srv := range a.servers {
		tools, err := srv.ListTools(ctx)
		if err != nil {
			return nil, err
		}
		result = append(result, tools...)
	}
	return result, nil
}

// ExecuteTool runs a tool by bare or server-qualified name on a connected
// agent.
func (a *Agent) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (*tool.Result, error) {
	srv, toolName := a.lookup(name)
	if srv == nil {
		return nil, fmt.Errorf("no server found with tool: %s", name)
	}
	return srv.ExecuteTool(ctx, toolName, args)
}

// Send runs one conversation for msg and returns the last reply before the
// model ended it. Servers are connected for the duration of the call.
func (a *Agent) Send(ctx context.Context, msg string) (string, error) {
	client, err := a.client()
	if err != nil {
		return "", err
	}
	if err = a.Connect(ctx); err != nil {
		return "", err
	}
	defer a.Close()

	tools, err := a.Tools(ctx)
	if err != nil {
		return "", err
	}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt(a.config.Agent.Instruction, tools)},
		{Role: llm.RoleUser, Content: msg},
	}
	logger := a.logger.WithCorrelationId(uuid.NewString())
	ctx = logging.NewContext(ctx, logger)
	logger.Debug().Int("tools", len(tools)).Msg("Conversation started")
	final := ""
	for turn := 0; turn < a.config.Agent.MaxTurns; turn++ {
		if a.limiter != nil {
			if err = a.limiter.Wait(ctx); err != nil {
				return final, err
			}
		}
		reply, err := client.Complete(ctx, messages)
		if err != nil {
			return final, err
		}
		res := a.processReply(ctx, logger, reply)
		if strings.TrimSpace(res) == EndMarker {
			logger.Debug().Int("turns", turn+1).Msg("Conversation ended")
			return final, nil
		}
		final = res
		logger.Info().Str("response", res).Msg("LLM response")
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: res})
	}
	return final, fmt.Errorf("%w after %d turns", ErrTurnLimit, a.config.Agent.MaxTurns)
}

// processReply executes the tool call carried by reply, if any, and returns
// the text to continue the conversation with.
func (a *Agent) processReply(ctx context.Context, logger arbor.ILogger, reply string) string {
	call, ok := tool.ParseCall(reply)
	if !ok {
		return reply
	}
	logger.Info().Str("tool", call.Tool).Str("arguments", fmt.Sprintf("%v", call.Arguments)).Msg("Executing tool")
	srv, name := a.lookup(call.Tool)
	if srv == nil {
		return "No server found with tool: " + call.Tool
	}
	result, err := srv.ExecuteTool(ctx, name, call.Arguments)
	if err != nil {
		logger.Error().Err(err).Str("tool", call.Tool).Msg("Error executing tool")
		return "Error executing tool: " + err.Error()
	}
	return "Tool execution result: " + result.Text
}

func (a *Agent) lookup(name string) (*server.Server, string) {
	qualified := tool.Name(name)
	if serverName := qualified.Server(); serverName != "" {
		for _, srv := range a.servers {
			if srv.Name() == serverName {
				return srv, qualified.Tool()
			}
		}
	}
	if srv, ok := a.tools.Get(name); ok {
		return srv, name
	}
	return nil, name
}

func (a *Agent) client() (llm.Client, error) {
	if a.llm != nil {
		return a.llm, nil
	}
	client, err := llm.NewAzure(a.config.Azure)
	if err != nil {
		return nil, err
	}
	a.llm = client
	return client, nil
}

// warnUnresolved logs inline entries that only carried overlay values for a
// server defined nowhere.
func (a *Agent) warnUnresolved(configs []*config.Server) {
	resolved := map[string]bool{}
	for _, srv := range configs {
		resolved[srv.Name] = true
	}
	for _, name := range a.config.MCP.Names() {
		if !resolved[name] {
			a.logger.Warn().Str("server", name).Msg("Ignoring mcp server settings without command or url")
		}
	}
}

// selectServers keeps servers matching any pattern; no patterns keeps all.
func selectServers(servers []*config.Server, patterns []string) ([]*config.Server, error) {
	if len(patterns) == 0 {
		return servers, nil
	}
	var result []*config.Server
	selected := map[string]bool{}
	for _, pattern := range patterns {
		matched := false
		for _, srv := range servers {
			if !matcher.Match(pattern, srv.Name) {
				continue
			}
			matched = true
			if !selected[srv.Name] {
				selected[srv.Name] = true
				result = append(result, srv)
			}
		}
		if !matched {
			return nil, fmt.Errorf("no mcp server matches %q", pattern)
		}
	}
	return result, nil
}
