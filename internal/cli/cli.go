package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// CommandType represents the type of CLI command
type CommandType int

const (
	CommandHelp CommandType = iota
	CommandVersion
	CommandServer
	CommandUpdate
)

// Command represents a parsed CLI command
type Command struct {
	Type       CommandType
	Port       int
	ConfigPath string
	CheckOnly  bool
}

// String returns a string representation of the command
func (c *Command) String() string {
	switch c.Type {
	case CommandHelp:
		return "help"
	case CommandVersion:
		return "version"
	case CommandServer:
		if c.Port != 0 {
			return fmt.Sprintf("server (port: %d)", c.Port)
		}
		return "server"
	case CommandUpdate:
		if c.CheckOnly {
			return "update (check only)"
		}
		return "update"
	default:
		return "unknown"
	}
}

// CLI represents the command-line interface
type CLI struct {
	version string
}

// NewCLI creates a new CLI instance
func NewCLI(version string) *CLI {
	return &CLI{
		version: version,
	}
}

// ParseCommand parses command-line arguments and returns a Command
func (c *CLI) ParseCommand(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command specified")
	}

	// Check for global flags first
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return &Command{Type: CommandHelp}, nil
	}

	if args[0] == "-v" || args[0] == "--version" || args[0] == "version" {
		return &Command{Type: CommandVersion}, nil
	}

	// Parse subcommands
	switch args[0] {
	case "server":
		return c.parseServerCommand(args[1:])
	case "update":
		return c.parseUpdateCommand(args[1:])
	default:
		return nil, fmt.Errorf("unknown command: %s", args[0])
	}
}

// parseServerCommand parses the server command
func (c *CLI) parseServerCommand(args []string) (*Command, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	port := fs.Int("port", 0, "Server port (overrides config file)")
	configPath := fs.String("config", "", "Configuration file path (default config dir if empty)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Command{
		Type:       CommandServer,
		Port:       *port,
		ConfigPath: *configPath,
	}, nil
}

// parseUpdateCommand parses the update command
func (c *CLI) parseUpdateCommand(args []string) (*Command, error) {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	checkOnly := fs.Bool("check", false, "Only check for a yt-dlp update without installing")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Command{
		Type:      CommandUpdate,
		CheckOnly: *checkOnly,
	}, nil
}

// PrintHelp prints the help message
func (c *CLI) PrintHelp(w io.Writer) {
	help := `TubeSnap - browser-based YouTube downloader

Usage:
  tubesnap [command] [flags]

Available Commands:
  server      Start the web server
  update      Update the bundled yt-dlp binary
  version     Print version information
  help        Print this help message

Server Flags:
  -port int       Server port (overrides config file)
  -config string  Configuration file path (default config dir if empty)

Update Flags:
  -check   Only check for a yt-dlp update without installing

Examples:
  tubesnap server
  tubesnap server -port 9000
  tubesnap server -config ./config.json
  tubesnap update
  tubesnap update -check
  tubesnap version
`
	fmt.Fprint(w, help)
}

// PrintVersion prints the version information
func (c *CLI) PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "TubeSnap version %s\n", c.version)
}

// Run executes the CLI with the given arguments
func (c *CLI) Run(args []string) int {
	cmd, err := c.ParseCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		c.PrintHelp(os.Stderr)
		return 1
	}

	switch cmd.Type {
	case CommandHelp:
		c.PrintHelp(os.Stdout)
		return 0
	case CommandVersion:
		c.PrintVersion(os.Stdout)
		return 0
	default:
		// Other commands will be handled by the main function
		return 0
	}
}
