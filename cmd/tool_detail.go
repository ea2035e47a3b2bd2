package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/mcp-agent/agent/tool"
)

// ToolCmd prints metadata & input schema for a single tool.
type ToolCmd struct {
	Name string `short:"n" long:"name" description:"tool name (tool or server/tool)" positional-arg-name:"name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

func (c *ToolCmd) Execute(_ []string) error {
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
	found := findTool(tools, c.Name)
	if found == nil {
		return fmt.Errorf("tool %q not found", c.Name)
	}

	if c.JSON {
		data, _ := json.MarshalIndent(found, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("Name  : %s\n", tool.NewName(found.Server, found.Name))
	if found.Title != "" {
		fmt.Printf("Title : %s\n", found.Title)
	}
	fmt.Printf("Desc  : %s\n", found.Description)
	js, _ := json.MarshalIndent(found.InputSchema, "", "  ")
	fmt.Printf("InputSchema:\n%s\n", string(js))
	return nil
}

// findTool matches a bare name against the first server offering it, or a
// server/tool name exactly.
func findTool(tools []*tool.Tool, name string) *tool.Tool {
	qualified := tool.Name(name)
	for _, t := range tools {
		if qualified.Server() != "" {
			if t.Server == qualified.Server() && t.Name == qualified.Tool() {
				return t
			}
			continue
		}
		if t.Name == name {
			return t
		}
	}
	return nil
}
