package main

import (
	"os"

	"github.com/viant/mcp-agent/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:]))
}
