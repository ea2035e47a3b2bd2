package cmd

// Options is the root for the CLI.  Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config   string `short:"f" long:"config" description:"agent configuration YAML/JSON/TOML location"`
	Secrets  string `short:"s" long:"secrets" description:"secrets overlay location (default: secrets.yaml next to the config)"`
	LogLevel string `short:"l" long:"log-level" description:"log level: debug, info, warn or error"`

	Ask       *AskCmd       `command:"ask"        description:"Send a message to the agent and print the final reply"`
	ListTools *ListToolsCmd `command:"list-tools" description:"List tools of every selected MCP server"`
	Tool      *ToolCmd      `command:"tool"       description:"Show detailed info about one MCP tool"`
	Exec      *ExecCmd      `command:"exec"       description:"Execute one MCP tool directly"`
	AddClient *AddClientCmd `command:"add-client" description:"Add an MCP server to the configuration file"`
	Validate  *ValidateCmd  `command:"validate"   description:"Load and validate the configuration"`
	Serve     *ServeCmd     `command:"serve"      description:"Run the script MCP server over stdio"`
}

// Init instantiates the sub-command referenced by name so that go-flags can
// populate its fields.
func (o *Options) Init(name string) {
	switch name {
	case "ask":
		o.Ask = &AskCmd{}
	case "list-tools":
		o.ListTools = &ListToolsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "add-client":
		o.AddClient = &AddClientCmd{}
	case "validate":
		o.Validate = &ValidateCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	}
}
