package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	location := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	return location
}

func TestSecretsSample(t *testing.T) {
	location, err := filepath.Abs(filepath.Join("..", "..", "secrets.yaml.sample"))
	require.NoError(t, err)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))

	azure, ok := raw["azure"].(map[string]interface{})
	require.True(t, ok, "azure section")
	for _, key := range []string{"api_key", "resource_name", "azure_deployment", "api_version"} {
		assert.Contains(t, azure, key)
	}
	servers := raw["mcp"].(map[string]interface{})["servers"].(map[string]interface{})
	env := servers["brave"].(map[string]interface{})["env"].(map[string]interface{})
	assert.Contains(t, env, "BRAVE_API_KEY")

	cfg, err := Load(context.Background(), location)
	require.NoError(t, err)
	require.NotNil(t, cfg.MCP)
	assert.Equal(t, "<your_brave_api_key>", cfg.MCP.Servers["brave"].Env["BRAVE_API_KEY"])
	assert.Equal(t, DefaultAPIVersion, cfg.Azure.APIVersion)
}

func TestConfig_Merge(t *testing.T) {
	base := &Config{
		Azure: &Azure{ResourceName: "base", Deployment: "gpt-4.1", APIKey: "from-config"},
		MCP: &MCP{Servers: map[string]*Server{
			"brave": {Command: "npx", Args: []string{"-y", "brave"}, Env: map[string]string{"BRAVE_API_KEY": "old", "KEEP": "1"}},
		}},
	}
	overlay := &Config{
		Azure: &Azure{APIKey: "from-secrets"},
		Agent: &Agent{MaxTurns: 5},
		MCP: &MCP{Servers: map[string]*Server{
			"brave":  {Env: map[string]string{"BRAVE_API_KEY": "new", "KEEP": ""}},
			"remote": {URL: "http://localhost:8080/mcp"},
		}},
	}
	base.Merge(overlay)

	assert.Equal(t, "from-secrets", base.Azure.APIKey)
	assert.Equal(t, "base", base.Azure.ResourceName)
	assert.Equal(t, 5, base.Agent.MaxTurns)
	brave := base.MCP.Servers["brave"]
	assert.Equal(t, "npx", brave.Command)
	assert.EqualValues(t, []string{"-y", "brave"}, brave.Args)
	assert.Equal(t, "new", brave.Env["BRAVE_API_KEY"])
	assert.Equal(t, "1", brave.Env["KEEP"])
	assert.Equal(t, "http://localhost:8080/mcp", base.MCP.Servers["remote"].URL)

	base.Merge(nil)
	assert.Equal(t, "from-secrets", base.Azure.APIKey)
}

func TestConfig_ApplyEnv(t *testing.T) {
	var testCases = []struct {
		description string
		azure       *Azure
		env         map[string]string
		expect      Azure
	}{
		{
			description: "file value wins over environment",
			azure:       &Azure{APIKey: "file-key", Deployment: "file-dep"},
			env:         map[string]string{"AZURE_OPENAI_API_KEY": "env-key", "OPENAI_API_KEY": "openai-key", "AZURE_OPENAI_DEPLOYMENT": "env-dep"},
			expect:      Azure{APIKey: "file-key", Deployment: "file-dep"},
		},
		{
			description: "azure variable before openai variable",
			azure:       &Azure{},
			env:         map[string]string{"AZURE_OPENAI_API_KEY": "env-key", "OPENAI_API_KEY": "openai-key"},
			expect:      Azure{APIKey: "env-key"},
		},
		{
			description: "openai variable as last resort",
			azure:       &Azure{},
			env:         map[string]string{"OPENAI_API_KEY": "openai-key", "OPENAI_API_VERSION": "2024-10-21"},
			expect:      Azure{APIKey: "openai-key", APIVersion: "2024-10-21"},
		},
		{
			description: "endpoint and resource from environment",
			azure:       &Azure{},
			env:         map[string]string{"AZURE_OPENAI_ENDPOINT": "https://x.openai.azure.com/", "AZURE_OPENAI_RESOURCE_NAME": "x"},
			expect:      Azure{EndpointURL: "https://x.openai.azure.com/", ResourceName: "x"},
		},
		{
			description: "anthropic key is ignored",
			azure:       &Azure{},
			env:         map[string]string{"ANTHROPIC_API_KEY": "sk-ant"},
			expect:      Azure{},
		},
	}

	for _, tc := range testCases {
		cfg := &Config{Azure: tc.azure}
		cfg.ApplyEnv(func(key string) (string, bool) {
			v, ok := tc.env[key]
			return v, ok
		})
		assert.EqualValues(t, tc.expect, *cfg.Azure, tc.description)
	}
}

func TestLoadWithSecrets(t *testing.T) {
	dir := t.TempDir()
	configLocation := writeFile(t, dir, "config.yaml", `
azure:
  resource_name: contoso
  azure_deployment: gpt-4.1
mcp:
  servers:
    brave:
      command: npx
      args: ["-y", "@modelcontextprotocol/server-brave-search"]
`)
	writeFile(t, dir, DefaultSecretsFile, `
azure:
  api_key: secret-key
mcp:
  servers:
    brave:
      env:
        BRAVE_API_KEY: brave-key
`)
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "env-deployment")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")

	cfg, err := LoadWithSecrets(context.Background(), configLocation, "")
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Azure.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.Azure.Deployment)
	assert.Equal(t, DefaultAPIVersion, cfg.Azure.APIVersion)
	assert.Equal(t, "https://contoso.openai.azure.com/", cfg.Azure.Endpoint())
	brave := cfg.MCP.Servers["brave"]
	assert.Equal(t, "brave", brave.Name)
	assert.Equal(t, TransportStdio, brave.Transport)
	assert.EqualValues(t, []string{"BRAVE_API_KEY=brave-key"}, brave.Environ())
	assert.Equal(t, "Assistant", cfg.Agent.Name)
	assert.Equal(t, 20, cfg.Agent.MaxTurns)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.Azure.Validate())
}

func TestLoadWithSecrets_EnvironmentOnly(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")

	cfg, err := LoadWithSecrets(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "openai-key", cfg.Azure.APIKey)
	assert.Equal(t, "https://example.openai.azure.com/", cfg.Azure.Endpoint())
	assert.NoError(t, cfg.Azure.Validate())
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	location := writeFile(t, dir, "config.toml", `
[azure]
resource_name = "contoso"
azure_deployment = "gpt-4.1"

[mcp.servers.docs]
url = "https://docs.example.com/mcp"

[mcp.servers.docs.headers]
Authorization = "Bearer token"
`)
	cfg, err := Load(context.Background(), location)
	require.NoError(t, err)
	cfg.Init()
	docs := cfg.MCP.Servers["docs"]
	require.NotNil(t, docs)
	assert.Equal(t, TransportHTTP, docs.Transport)
	assert.Equal(t, "Bearer token", docs.Headers["Authorization"])
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	broken := writeFile(t, dir, "broken.yaml", "azure: [unterminated")
	_, err = Load(context.Background(), broken)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	location := filepath.Join(dir, "config.yaml")
	cfg := &Config{MCP: &MCP{Servers: map[string]*Server{
		"remote": {Transport: TransportSSE, URL: "http://localhost:5000/sse"},
	}}}
	require.NoError(t, Save(context.Background(), location, cfg))

	loaded, err := Load(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, loaded.MCP.Servers["remote"].Transport)
	assert.Equal(t, "http://localhost:5000/sse", loaded.MCP.Servers["remote"].URL)
}

func TestMCP_ResolveServers(t *testing.T) {
	dir := t.TempDir()
	location := writeFile(t, dir, "servers.yaml", `
weather:
  command: python
  args: ["-m", "server.main"]
  env:
    PYTHONPATH: "."
fetch:
  url: http://localhost:8000/mcp
`)
	m := &MCP{URL: location}
	servers, err := m.ResolveServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "fetch", servers[0].Name)
	assert.Equal(t, TransportHTTP, servers[0].Transport)
	assert.Equal(t, "weather", servers[1].Name)
	assert.Equal(t, TransportStdio, servers[1].Transport)

	inline := &MCP{URL: location, Servers: map[string]*Server{
		"only":    {Command: "cat"},
		"weather": {Env: map[string]string{"API_KEY": "k"}},
		"orphan":  {Env: map[string]string{"TOKEN": "t"}},
	}}
	servers, err = inline.ResolveServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 3)
	assert.Equal(t, "fetch", servers[0].Name)
	assert.Equal(t, "only", servers[1].Name)
	assert.Equal(t, "weather", servers[2].Name)
	assert.Equal(t, "python", servers[2].Command)
	assert.Equal(t, map[string]string{"PYTHONPATH": ".", "API_KEY": "k"}, servers[2].Env)
	assert.Nil(t, inline.Servers["weather"].Args)
}

func TestLoadWithSecrets_RemoteServers(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	dir := t.TempDir()
	writeFile(t, dir, "servers.yaml", "brave:\n  command: npx\n")
	configLocation := writeFile(t, dir, "config.yaml", "mcp:\n  url: "+filepath.Join(dir, "servers.yaml")+"\n")
	writeFile(t, dir, "secrets.yaml", "mcp:\n  servers:\n    brave:\n      env:\n        BRAVE_API_KEY: k\n    unused:\n      env:\n        TOKEN: t\n")

	cfg, err := LoadWithSecrets(context.Background(), configLocation, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	servers, err := cfg.MCP.ResolveServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "brave", servers[0].Name)
	assert.Equal(t, TransportStdio, servers[0].Transport)
	assert.Equal(t, "npx", servers[0].Command)
	assert.Equal(t, []string{"BRAVE_API_KEY=k"}, servers[0].Environ())
}

func TestServer_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		server      Server
		valid       bool
	}{
		{"stdio inferred", Server{Command: "npx"}, true},
		{"http inferred", Server{URL: "http://localhost:8000/mcp"}, true},
		{"sse explicit", Server{Transport: TransportSSE, URL: "http://localhost:5000/sse"}, true},
		{"env only", Server{Env: map[string]string{"BRAVE_API_KEY": "x"}}, false},
		{"stdio without command", Server{Transport: TransportStdio}, false},
		{"sse without url", Server{Transport: TransportSSE}, false},
		{"unknown transport", Server{Transport: "ws", URL: "ws://localhost"}, false},
		{"malformed url", Server{URL: "not a url"}, false},
	}

	for _, tc := range testCases {
		srv := tc.server
		srv.Name = "test"
		srv.init()
		err := srv.Validate()
		if tc.valid {
			assert.NoError(t, err, tc.description)
		} else {
			assert.Error(t, err, tc.description)
		}
	}
}

func TestAzure(t *testing.T) {
	azure := &Azure{ResourceName: "contoso"}
	assert.Equal(t, "https://contoso.openai.azure.com/", azure.Endpoint())
	azure.EndpointURL = "https://custom.example.com/"
	assert.Equal(t, "https://custom.example.com/", azure.Endpoint())
	assert.Equal(t, "", (&Azure{}).Endpoint())

	assert.Error(t, (&Azure{ResourceName: "contoso"}).Validate(), "deployment is required")
	assert.Error(t, (&Azure{Deployment: "gpt-4.1"}).Validate(), "resource or endpoint is required")
	assert.NoError(t, (&Azure{EndpointURL: "https://x.openai.azure.com/", Deployment: "gpt-4.1"}).Validate())
	assert.False(t, (&Azure{}).HasAPIKey())
}

func TestAgent(t *testing.T) {
	agent := &Agent{}
	agent.init()
	assert.Equal(t, 2, agent.Retries)
	assert.Equal(t, "1s", agent.Delay().String())
	assert.NoError(t, agent.Validate())

	agent.RetryDelay = "250ms"
	assert.Equal(t, "250ms", agent.Delay().String())

	agent.RetryDelay = "soon"
	assert.Error(t, agent.Validate())
	agent.RetryDelay = ""

	agent.RequestsPerMinute = -1
	assert.Error(t, agent.Validate())
	agent.merge(&Agent{RequestsPerMinute: 30})
	assert.Equal(t, 30, agent.RequestsPerMinute)
	assert.NoError(t, agent.Validate())

	assert.Error(t, (&Agent{}).Validate(), "zero max turns")
}

func TestMCP_Add(t *testing.T) {
	m := &MCP{}
	require.NoError(t, m.Add("brave", &Server{Command: "npx", Args: []string{"-y", "brave"}}, false))
	assert.Equal(t, "", m.Servers["brave"].Transport)

	err := m.Add("brave", &Server{URL: "http://localhost:5000/mcp"}, false)
	assert.EqualError(t, err, `mcp server "brave" already exists`)

	require.NoError(t, m.Add("brave", &Server{URL: "http://localhost:5000/mcp"}, true))
	assert.Equal(t, "http://localhost:5000/mcp", m.Servers["brave"].URL)

	assert.Error(t, m.Add("empty", &Server{}, false))
	assert.Error(t, m.Add("", &Server{Command: "x"}, false))
	assert.NotContains(t, m.Servers, "empty")
}
