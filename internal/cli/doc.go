// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive commands
// of the drivered console.
//
// The TUI is the default when the binary is run with no arguments. Everything
// else — login, logout, status, stats, students, config — is a one-shot
// command that talks to the DriverEdOS gateway and prints either
// human-readable text or, with --json, a machine-parseable envelope.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed global flags plus command-specific values
//   - ArgParser: unified flag/subcommand parsing shared by all handlers
package cli
