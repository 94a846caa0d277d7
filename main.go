// ABOUTME: Entry point for display MCP server, web server, and CLI
// ABOUTME: Routes to the right command based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/marquee/cli"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/marquee)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("marquee version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	app := cli.NewApp(getDataDir(*dataDir))
	defer app.Close()

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		if err := cli.ServeCommand(app, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(app); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "config":
		if len(commandArgs) == 0 {
			fmt.Println("Error: config requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		configCommand := commandArgs[0]
		configArgs := commandArgs[1:]

		switch configCommand {
		case "show":
			if err := cli.ConfigShowCommand(app, configArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "reset":
			if err := cli.ConfigResetCommand(app, configArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export":
			if err := cli.ConfigExportCommand(app, configArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "import":
			if err := cli.ConfigImportCommand(app, configArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown config command: %s\n\n", configCommand)
			printUsage()
			os.Exit(1)
		}

	case "logs":
		if len(commandArgs) == 0 {
			if err := cli.LogsListCommand(app, nil); err != nil {
				log.Fatalf("Error: %v", err)
			}
			return
		}

		logsCommand := commandArgs[0]
		logsArgs := commandArgs[1:]

		switch logsCommand {
		case "list":
			if err := cli.LogsListCommand(app, logsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "clear":
			if err := cli.LogsClearCommand(app); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "logins":
			if err := cli.LoginsCommand(app, logsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown logs command: %s\n\n", logsCommand)
			printUsage()
			os.Exit(1)
		}

	case "import":
		if err := cli.ImportCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDataDir(dataDir string) string {
	if dataDir != "" {
		return dataDir
	}
	return filepath.Join(xdg.DataHome, "marquee")
}

func printUsage() {
	fmt.Printf(`marquee v%s - School display sign toolkit

USAGE:
  marquee [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/marquee)

COMMANDS:
  serve                  Start the display web server
  mcp                    Start MCP server for assistant integration
  config                 Display configuration commands
  logs                   Log buffer commands
  import                 Import announcements and events from a document

SERVER:
  marquee serve          Start the web server
    --port <n>             Listen port (default: 8080)
    --admin-password <pw>  Admin login password (default: $MARQUEE_ADMIN_PASSWORD)

  marquee mcp            Start MCP server (stdio transport)

CONFIG COMMANDS:
  marquee config show       Print the current display configuration

  marquee config reset      Reset the configuration to defaults
    --yes                     Confirm the reset

  marquee config export     Write the configuration as JSON
    --output <file>           Output file (default: stdout)

  marquee config import <file>  Load a configuration from JSON
    Runs the same validation and migrations as startup

LOG COMMANDS:
  marquee logs              List system log entries (same as 'logs list')
  marquee logs list         List system log entries, newest first
    --limit <n>               Maximum entries (default: all)
  marquee logs clear        Clear the system log
  marquee logs logins       List login attempts, newest first
    --limit <n>               Maximum entries (default: all)

IMPORT:
  marquee import <file>     Extract announcements and events from a
                            PDF, text, or markdown file (needs OPENAI_API_KEY)
    --dry-run                 Show what would be imported without saving
    --tone <hint>             Optional tone hint for the extractor

EXAMPLES:
  # Start the display server on port 3000
  marquee serve --port 3000

  # Start MCP server for assistant integration
  marquee mcp

  # See what is on the sign right now
  marquee config show

  # Pull this week's newsletter onto the sign
  marquee import newsletter.pdf

`, version)
}
