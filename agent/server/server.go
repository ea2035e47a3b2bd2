package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/agent/tool"
	"github.com/viant/mcp-agent/internal/logging"
)

// ErrNotInitialized is returned when a server is used before Initialize.
var ErrNotInitialized = errors.New("server not initialized")

// ToolError reports a tool call the server answered with an error result.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

// Server manages one MCP server connection and tool execution.
type Server struct {
	config    *config.Server
	connector Connector
	retries   int
	delay     time.Duration
	logger    arbor.ILogger

	mu      sync.Mutex
	session Session
}

// Option customises a Server.
type Option func(*Server)

// WithConnector overrides how sessions are opened.
func WithConnector(connector Connector) Option {
	return func(s *Server) {
		s.connector = connector
	}
}

// WithRetry sets the number of tool call attempts and the pause between them.
func WithRetry(retries int, delay time.Duration) Option {
	return func(s *Server) {
		s.retries = retries
		s.delay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for cfg. No connection is made until Initialize.
func New(cfg *config.Server, opts ...Option) *Server {
	s := &Server{
		config:    cfg,
		connector: Connect,
		retries:   2,
		delay:     time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retries < 1 {
		s.retries = 1
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// Name returns the configured server name.
func (s *Server) Name() string { return s.config.Name }

// Config returns the server configuration.
func (s *Server) Config() *config.Server { return s.config }

// Initialize connects to the server. Calling it on an initialized server is a
// no-op.
func (s *Server) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return nil
	}
	session, err := s.connector(ctx, s.config)
	if err != nil {
		s.logger.Error().Err(err).Str("server", s.Name()).Msg("Failed to initialize server")
		return fmt.Errorf("initialize server %s: %w", s.Name(), err)
	}
	s.session = session
	s.logger.Debug().Str("server", s.Name()).Str("transport", s.config.Transport).Msg("Server initialized")
	return nil
}

// ListTools lists the tools available on the server, tagged with the server
// name.
func (s *Server) ListTools(ctx context.Context) ([]*tool.Tool, error) {
	session, err := s.current()
	if err != nil {
		return nil, err
	}
	tools, err := session.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools on %s: %w", s.Name(), err)
	}
	for _, t := range tools {
		t.Server = s.Name()
	}
	return tools, nil
}

// ExecuteTool calls a tool, retrying transport failures. A result flagged as
// an error by the server is returned as *ToolError without retrying.
func (s *Server) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (*tool.Result, error) {
	session, err := s.current()
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx, s.logger)
	for attempt := 1; ; attempt++ {
		logger.Info().Str("server", s.Name()).Str("tool", name).Msg("Executing tool")
		result, err := session.CallTool(ctx, name, args)
		if err == nil {
			if result.IsError {
				return result, &ToolError{Tool: name, Message: result.Text}
			}
			return result, nil
		}
		logger.Warn().Err(err).Str("tool", name).Int("attempt", attempt).Int("retries", s.retries).Msg("Error executing tool")
		if attempt >= s.retries {
			logger.Error().Str("tool", name).Msg("Max retries reached")
			return nil, fmt.Errorf("execute %s on %s: %w", name, s.Name(), err)
		}
		if err = sleep(ctx, s.delay); err != nil {
			return nil, err
		}
	}
}

// Cleanup closes the session. It is safe to call multiple times.
func (s *Server) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	if err != nil {
		s.logger.Error().Err(err).Str("server", s.Name()).Msg("Error during cleanup")
		return fmt.Errorf("cleanup server %s: %w", s.Name(), err)
	}
	return nil
}

func (s *Server) current() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, fmt.Errorf("server %s: %w", s.Name(), ErrNotInitialized)
	}
	return s.session, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
