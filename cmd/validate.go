package cmd

import (
	"context"
	"fmt"
)

// ValidateCmd loads the configuration with its secrets overlay and reports
// problems.  With --connect every selected server is started as well.
type ValidateCmd struct {
	SkipAzure bool `long:"skip-azure" description:"Do not require the azure section"`
	Connect   bool `long:"connect" description:"Also connect to every selected MCP server"`
}

func (c *ValidateCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := configSingleton(ctx)
	if err != nil {
		return err
	}
	if !c.SkipAzure {
		if err = cfg.Azure.Validate(); err != nil {
			return err
		}
	}
	a, err := newAgent(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("configuration is valid: %d mcp server(s) selected\n", len(a.Servers()))
	if !c.Connect {
		return nil
	}
	if err = a.Connect(ctx); err != nil {
		return err
	}
	defer a.Close()
	tools, err := a.Tools(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("connected: %d tool(s) available\n", len(tools))
	return nil
}
