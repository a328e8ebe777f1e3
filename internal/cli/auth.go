// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Login and logout commands.
//
// Command: login
// Short:   Sign in to the DriverEdOS gateway and store the session token
//
// Examples:
//   drivered login                    Prompt for username and password
//   drivered login --username admin   Prompt for password only
//   drivered login --json             Result in JSON format
//
// The password is always read interactively with echo disabled; it is never
// accepted as a flag so it cannot leak into shell history or process lists.
//
// Command: logout
// Short:   Clear the stored session token
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/drivered-tui/internal/session"
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin handles the "login" command.
func HandleLogin(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("login requires an interactive terminal")
	}

	username := strings.TrimSpace(args.Username)
	if username == "" {
		username = promptInput("Username: ")
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	gw, err := openGateway(args)
	if err != nil {
		return err
	}
	defer gw.Close()

	controller := session.NewController(gw.client, gw.store)

	ctx, cancel := commandContext()
	defer cancel()

	snapshot, err := controller.Login(ctx, username, password)
	if err != nil {
		if args.JSON {
			return NewJSONErrorResponse("login", err).Print()
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if args.JSON {
		return NewJSONResponse("login", map[string]interface{}{
			"authenticated": true,
			"username":      snapshot.Identity.Username,
			"role":          snapshot.Identity.Role,
		}).Print()
	}

	if !args.Quiet {
		fmt.Printf("%s Signed in as %s (%s)\n",
			okStyle.Render("[OK]"),
			snapshot.Identity.Username,
			snapshot.Identity.Role)
	}
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout handles the "logout" command.
// Clearing an already-empty store is not an error.
func HandleLogout(args Args) error {
	gw, err := openGateway(args)
	if err != nil {
		return err
	}
	defer gw.Close()

	controller := session.NewController(gw.client, gw.store)
	controller.Logout()

	if args.JSON {
		return NewJSONResponse("logout", map[string]interface{}{
			"authenticated": false,
		}).Print()
	}

	if !args.Quiet {
		fmt.Printf("%s Signed out\n", okStyle.Render("[OK]"))
	}
	return nil
}

// =============================================================================
// PROMPTS
// =============================================================================

// promptInput reads a single line from stdin.
func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// promptPassword reads a password with echo disabled.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println() // Add newline after hidden input
	return strings.TrimSpace(string(passBytes)), nil
}
