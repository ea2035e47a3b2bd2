package script

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_SetCwd(t *testing.T) {
	dir := t.TempDir()
	w := NewWorkspace(dir, nil)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Equal(t, "Workspace set to "+sub, w.SetCwd(sub))
	assert.Equal(t, sub, w.Cwd())

	missing := filepath.Join(dir, "missing")
	assert.Equal(t, "Error: "+missing+" is not a valid directory", w.SetCwd(missing))
	assert.Equal(t, sub, w.Cwd())

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.True(t, strings.HasPrefix(w.SetCwd(file), "Error: "))
}

func TestWorkspace_RunCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell required")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.py"), []byte("print('hi')"), 0o644))
	w := NewWorkspace(dir, nil)

	var testCases = []struct {
		description string
		code        string
		expect      string
		prefix      string
	}{
		{description: "runs in workspace", code: "ls", expect: "hello.py\n"},
		{description: "pipes through shell", code: "echo one two | tr ' ' '\\n' | wc -l | tr -d ' '", expect: "2\n"},
		{description: "error output", code: "echo boom 1>&2; exit 3", expect: "Error: boom\n"},
		{description: "unknown command", code: "definitely-not-a-command-xyz", prefix: "Error: "},
	}

	for _, tc := range testCases {
		got := w.RunCommand(context.Background(), tc.code)
		if tc.prefix != "" {
			assert.True(t, strings.HasPrefix(got, tc.prefix), tc.description)
			continue
		}
		assert.Equal(t, tc.expect, got, tc.description)
	}
}

func TestServer_InProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell required")
	}
	ctx := context.Background()
	dir := t.TempDir()
	srv := NewServer(NewWorkspace(dir, nil), "test")

	cli, err := client.NewInProcessClient(srv)
	require.NoError(t, err)
	defer cli.Close()
	require.NoError(t, cli.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "1"}
	_, err = cli.Initialize(ctx, initReq)
	require.NoError(t, err)

	tools, err := cli.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"set_cwd", "run_command"}, names)

	req := mcp.CallToolRequest{}
	req.Params.Name = "run_command"
	req.Params.Arguments = map[string]interface{}{"code": "pwd"}
	res, err := cli.CallTool(ctx, req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text := textOf(t, res.Content[0])
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(strings.TrimSpace(text))
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	req.Params.Arguments = map[string]interface{}{}
	res, err = cli.CallTool(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func textOf(t *testing.T, content mcp.Content) string {
	t.Helper()
	switch actual := content.(type) {
	case mcp.TextContent:
		return actual.Text
	case *mcp.TextContent:
		return actual.Text
	}
	t.Fatalf("unexpected content %T", content)
	return ""
}
