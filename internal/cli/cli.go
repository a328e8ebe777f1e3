// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for the drivered console.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdStats
	CmdStudents
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	APIURL  string

	// Command-specific
	Username   string
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `drivered - DriverEdOS admin console

A terminal console for the DriverEdOS driving-school backend.
Without arguments it starts the interactive TUI; the commands
below run one-shot against the API gateway.

Usage:
  drivered                      Start TUI (default)
  drivered login [--username U] Sign in and store the session token
  drivered logout               Sign out and clear the stored token
  drivered status, s            Show session and gateway status
  drivered stats                Show dashboard statistics
  drivered students <sub>       Manage the student roster
  drivered config [show|get|set] Configuration
  drivered version              Show version information
  drivered help                 Show this help

Student Commands:
  drivered students list            List all students
  drivered students get <id>        Show one student
  drivered students create --name N Create a student
    --status enrolled|active|completed   Initial status (default: enrolled)
    --hours H                            Progress hours (default: 0)
    --notes TEXT                         Free-form notes
  drivered students update <id>     Update a student (same flags as create)
  drivered students delete <id>     Delete a student
    --confirm                            Required confirmation flag

Config Commands:
  drivered config show              Show the active configuration
  drivered config get <key>         Print one value (api.base_url, api.timeout_secs, ui.theme)
  drivered config set <key> <value> Persist one value

Global Flags:
  --json               Output in JSON format
  --api-url URL        Override the gateway base URL for this invocation
  -q, --quiet          Suppress informational output
  -v, --verbose        Show additional detail

Environment:
  DRIVERED_API_URL        Gateway base URL
  DRIVERED_TIMEOUT_SECS   Request timeout in seconds
  DRIVERED_THEME          dark, light, or auto

Examples:
  drivered login
  drivered students list --json
  drivered students create --name "Dana Lee" --status active --hours 2.5
  drivered config set api.base_url http://10.0.0.5:8000
`

// Parse parses os.Args and returns the command to execute with its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	// Check first argument for command
	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login", "signin":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "logout", "signout":
		return CmdLogout, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "stats", "dashboard":
		return CmdStats, parsedArgs

	case "students", "student":
		// Argument parsing is done in students_cmd.go HandleStudents
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdStudents, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-V", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		PrintUsage()
		os.Exit(1)
		return CmdHelp, parsedArgs // unreachable
	}
}

// parseGlobalFlags extracts flags that apply to every command.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--api-url":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--api-url=") {
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseLoginArgs parses login command specific arguments.
func parseLoginArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Username = parser.FlagOrDefault("username", parser.Flag("u"))
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}

// PrintUsage prints the top-level help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version and build information.
func PrintVersion(args Args) {
	if args.JSON {
		resp := NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		})
		_ = resp.Print()
		return
	}
	fmt.Printf("drivered %s\n", Version)
	fmt.Printf("  commit:   %s\n", GitCommit)
	fmt.Printf("  built:    %s\n", BuildDate)
	fmt.Printf("  go:       %s\n", runtime.Version())
	fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
