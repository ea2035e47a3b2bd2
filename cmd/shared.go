package cmd

import (
	"context"
	"os"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/viant/afs"
	"github.com/viant/mcp-agent/agent"
	"github.com/viant/mcp-agent/agent/config"
	"github.com/viant/mcp-agent/internal/logging"
)

// Version is reported by the script server and the MCP client handshake.
const Version = "0.1.0"

// defaultConfigFile is used when -f/--config is not given and it exists in
// the working directory.
const defaultConfigFile = "config.yaml"

var (
	cfgPath     string
	secretsPath string
	logLevel    string

	cfgOnce sync.Once
	cfgInst *config.Config
	cfgErr  error
)

// setGlobals remembers the CLI-level options so that the configuration can be
// loaded lazily by whichever sub-command is executed.
func setGlobals(configLoc, secrets, level string) {
	cfgPath = configLoc
	secretsPath = secrets
	logLevel = level
	cfgOnce = sync.Once{}
	cfgInst, cfgErr = nil, nil
}

// configLocation returns the -f/--config value or the default config file
// when present.
func configLocation(ctx context.Context) string {
	if cfgPath != "" {
		return cfgPath
	}
	if ok, _ := afs.New().Exists(ctx, defaultConfigFile); ok {
		return defaultConfigFile
	}
	return ""
}

// configSingleton loads the configuration with its secrets overlay only once
// per CLI invocation.
func configSingleton(ctx context.Context) (*config.Config, error) {
	cfgOnce.Do(func() {
		cfgInst, cfgErr = config.LoadWithSecrets(ctx, configLocation(ctx), secretsPath)
	})
	return cfgInst, cfgErr
}

// newLogger builds the console logger; the -l/--log-level flag wins over the
// configured level.
func newLogger(cfg *config.Config) arbor.ILogger {
	level := logLevel
	if level == "" && cfg != nil && cfg.Logging != nil {
		level = cfg.Logging.Level
	}
	return logging.Console(level)
}

// newAgent creates an agent from the loaded configuration.
func newAgent(ctx context.Context) (*agent.Agent, error) {
	cfg, err := configSingleton(ctx)
	if err != nil {
		return nil, err
	}
	return agent.New(ctx, cfg, agent.WithLogger(newLogger(cfg)))
}

// connectedAgent creates an agent with every selected server connected. The
// caller must Close it.
func connectedAgent(ctx context.Context) (*agent.Agent, error) {
	a, err := newAgent(ctx)
	if err != nil {
		return nil, err
	}
	if err = a.Connect(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
