package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/mcp-agent/agent/tool"
)

// ListToolsCmd prints every tool of the selected servers in `server/tool` form.
type ListToolsCmd struct{}

func (c *ListToolsCmd) Execute(_ []string) error {
	ctx := context.Background()
	a, err := connectedAgent(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tools, err := a.Tools(ctx)
	if err != nil {
		return err
	}
	// Sorting for deterministic output (helpful for tests & scripting).
	sort.Slice(tools, func(i, j int) bool {
		return tool.NewName(tools[i].Server, tools[i].Name) < tool.NewName(tools[j].Server, tools[j].Name)
	})
	for _, t := range tools {
		fmt.Printf("%s\t%s\n", tool.NewName(t.Server, t.Name), t.Description)
	}
	return nil
}
