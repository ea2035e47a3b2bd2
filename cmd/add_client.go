package cmd

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/mcp-agent/agent/config"
)

// AddClientCmd registers an MCP server in the configuration file.  Secrets
// such as API keys belong in the secrets file and are not written here.
type AddClientCmd struct {
	Name      string            `short:"n" long:"name" description:"Identifier for the MCP server" required:"yes"`
	Address   string            `short:"a" long:"address" description:"HTTP or SSE address of a remote MCP server"`
	Transport string            `short:"t" long:"transport" description:"stdio, http or sse (inferred when empty)"`
	Command   string            `short:"c" long:"command" description:"Command starting a stdio MCP server"`
	Args      []string          `long:"arg" description:"Command argument (repeatable)"`
	Dir       string            `long:"dir" description:"Working directory of a stdio server"`
	Env       map[string]string `long:"env" key-value-delimiter:"=" description:"KEY=VALUE passed to a stdio server (repeatable)"`
	Headers   map[string]string `long:"header" key-value-delimiter:"=" description:"NAME=VALUE sent to a remote server (repeatable)"`
	Replace   bool              `long:"replace" description:"Replace an existing server with the same name"`
}

func (c *AddClientCmd) Execute(_ []string) error {
	if cfgPath == "" {
		return fmt.Errorf("-f/--config is required")
	}
	if (c.Address == "") == (c.Command == "") {
		return fmt.Errorf("exactly one of --address or --command is required")
	}
	ctx := context.Background()
	cfg, err := loadOrCreate(ctx, cfgPath)
	if err != nil {
		return err
	}
	if cfg.MCP == nil {
		cfg.MCP = &config.MCP{}
	}
	srv := &config.Server{
		Transport:        c.Transport,
		Command:          c.Command,
		Args:             c.Args,
		WorkingDirectory: c.Dir,
		Env:              c.Env,
		URL:              c.Address,
		Headers:          c.Headers,
	}
	if err = cfg.MCP.Add(c.Name, srv, c.Replace); err != nil {
		return err
	}
	if err = config.Save(ctx, cfgPath, cfg); err != nil {
		return err
	}
	target := c.Address
	if target == "" {
		target = c.Command
	}
	fmt.Printf("added mcp server %s (%s) to %s\n", c.Name, target, cfgPath)
	return nil
}

// loadOrCreate loads the raw configuration without secrets or defaults so that
// saving it back does not leak either into the file.
func loadOrCreate(ctx context.Context, location string) (*config.Config, error) {
	ok, err := afs.New().Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("check config file %q: %w", location, err)
	}
	if !ok {
		return &config.Config{}, nil
	}
	return config.Load(ctx, location)
}
