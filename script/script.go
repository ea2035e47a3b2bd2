package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/viant/mcp-agent/internal/logging"
)

// Name is the MCP server name.
const Name = "script"

const notRecognized = "is not recognized as the name of a cmdlet, function, script file, or operable program."

// Workspace holds the directory commands run in.
type Workspace struct {
	mu     sync.RWMutex
	cwd    string
	logger arbor.ILogger
}

// NewWorkspace creates a workspace rooted at cwd, or the process working
// directory when cwd is empty.
func NewWorkspace(cwd string, logger arbor.ILogger) *Workspace {
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	logger = logging.OrDiscard(logger)
	return &Workspace{cwd: cwd, logger: logger}
}

// Cwd returns the current workspace directory.
func (w *Workspace) Cwd() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cwd
}

// SetCwd switches the workspace to path when it is a directory.
func (w *Workspace) SetCwd(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: %s is not a valid directory", path)
	}
	w.mu.Lock()
	w.cwd = path
	w.mu.Unlock()
	return "Workspace set to " + path
}

// RunCommand runs code through the platform shell in the workspace and
// returns its standard output, or the error output prefixed with "Error: ".
func (w *Workspace) RunCommand(ctx context.Context, code string) string {
	cwd := w.Cwd()
	stdout, stderr, err := run(ctx, cwd, shellCommand(code))
	if err == nil {
		return stdout
	}
	// powershell rejects some executables that only resolve without a shell
	if runtime.GOOS == "windows" && strings.Contains(stderr, notRecognized) {
		if fields := strings.Fields(code); len(fields) > 0 {
			stdout, stderr, err = run(ctx, cwd, fields)
			if err == nil {
				return stdout
			}
		}
	}
	w.logger.Debug().Err(err).Str("cwd", cwd).Msg("Command failed")
	if stderr == "" {
		stderr = err.Error()
	}
	return "Error: " + stderr
}

// Register adds the workspace tools to srv.
func (w *Workspace) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("set_cwd",
		mcp.WithDescription("Sets the current working directory for running scripts."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to run subsequent commands in"),
		),
	), w.handleSetCwd)
	srv.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Runs a script in the appropriate shell and returns the output."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Command or script to execute"),
		),
	), w.handleRunCommand)
}

// NewServer creates an MCP server exposing the workspace tools.
func NewServer(w *Workspace, version string) *server.MCPServer {
	srv := server.NewMCPServer(Name, version, server.WithToolCapabilities(true))
	w.Register(srv)
	return srv
}

func (w *Workspace) handleSetCwd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	return mcp.NewToolResultText(w.SetCwd(path)), nil
}

func (w *Workspace) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil || code == "" {
		return mcp.NewToolResultError("code parameter is required"), nil
	}
	return mcp.NewToolResultText(w.RunCommand(ctx, code)), nil
}

func shellCommand(code string) []string {
	if runtime.GOOS == "windows" {
		return []string{"powershell.exe", "-NoProfile", "-Command", code}
	}
	return []string{"/bin/sh", "-c", code}
}

func run(ctx context.Context, dir string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && stderr.Len() == 0 {
		stderr.WriteString(err.Error())
	}
	return stdout.String(), stderr.String(), err
}
