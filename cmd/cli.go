package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

var commands = []string{"ask", "list-tools", "tool", "exec", "add-client", "validate", "serve"}

// Run is the entry point for the CLI.  It returns the process exit code.
func Run(args []string) int {
	// Make global options discoverable by sub-commands via the shared state.
	setGlobals(
		extractOption(args, "-f", "--config"),
		extractOption(args, "-s", "--secrets"),
		extractOption(args, "-l", "--log-level"),
	)

	opts := &Options{}
	opts.Init(commandName(args))

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// extractOption searches the raw argument list for a global option before the
// full flags parsing is performed so that sub-commands can load the config
// early from a deterministic location.
func extractOption(args []string, short, long string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == short || a == long:
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, long+"="):
			return strings.TrimPrefix(a, long+"=")
		}
	}
	return ""
}

// commandName returns the first argument naming a sub-command, skipping the
// values of global options.
func commandName(args []string) string {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f", "--config", "-s", "--secrets", "-l", "--log-level":
			i++
			continue
		case "--":
			return ""
		}
		for _, name := range commands {
			if args[i] == name {
				return name
			}
		}
	}
	return ""
}
