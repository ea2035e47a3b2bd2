package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/viant/mcp-agent/internal/logging"
	"github.com/viant/mcp-agent/script"
)

// ServeCmd runs the script MCP server over stdio.  Stdout carries the
// protocol, so logs only go to --log-file when one is given.
type ServeCmd struct {
	Cwd     string `long:"cwd" description:"Initial workspace directory (default: current directory)"`
	LogFile string `long:"log-file" description:"Write logs to this file"`
}

func (c *ServeCmd) Execute(_ []string) error {
	return server.ServeStdio(script.NewServer(c.workspace(), Version))
}

func (c *ServeCmd) workspace() *script.Workspace {
	var logger arbor.ILogger
	if c.LogFile != "" {
		logger = logging.File(c.LogFile, logLevel)
	}
	workspace := script.NewWorkspace(c.Cwd, logger)
	logger = logging.OrDiscard(logger)
	logger.Info().Str("cwd", workspace.Cwd()).Msg("Starting script MCP server")
	return workspace
}
