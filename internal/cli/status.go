// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation.
//
// Command: status
// Short:   Display gateway and session status
// Aliases: s
//
// Examples:
//   drivered status                Show status
//   drivered status --json         Status in JSON format
//
// Status Sections:
//   Gateway:  base URL and reachability of the DriverEdOS backend
//   Session:  authentication state and, when signed in, the identity
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/drivered-tui/internal/config"
	"github.com/jeranaias/drivered-tui/internal/session"
)

// StatusData is the JSON payload of the status command.
type StatusData struct {
	Gateway StatusGatewayInfo `json:"gateway"`
	Session StatusSessionInfo `json:"session"`
}

// StatusGatewayInfo describes the backend reachability.
type StatusGatewayInfo struct {
	BaseURL string `json:"base_url"`
	Online  bool   `json:"online"`
	Error   string `json:"error,omitempty"`
}

// StatusSessionInfo describes the authentication state.
type StatusSessionInfo struct {
	State    string `json:"state"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	gw, err := openGateway(args)
	if err != nil {
		return err
	}
	defer gw.Close()

	ctx, cancel := commandContext()
	defer cancel()

	data := StatusData{
		Gateway: StatusGatewayInfo{BaseURL: gw.client.BaseURL()},
	}

	if _, healthErr := gw.client.Health(ctx); healthErr != nil {
		data.Gateway.Online = false
		data.Gateway.Error = healthErr.Error()
	} else {
		data.Gateway.Online = true
	}

	controller := session.NewController(gw.client, gw.store)
	snapshot := controller.Probe(ctx)
	data.Session.State = snapshot.State.String()
	if snapshot.Identity != nil {
		data.Session.Username = snapshot.Identity.Username
		data.Session.Role = string(snapshot.Identity.Role)
	}

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	printStatus(data, args.Verbose)
	return nil
}

func printStatus(data StatusData, verbose bool) {
	fmt.Println()
	fmt.Println(titleStyle.Render("drivered Status"))
	fmt.Println(separatorStyle.Render(strings.Repeat("=", 41)))

	fmt.Println(sectionStyle.Render("Gateway"))
	fmt.Printf("  %s%s\n", labelStyle.Render("URL:"), valueStyle.Render(data.Gateway.BaseURL))
	if data.Gateway.Online {
		fmt.Printf("  %s%s\n", labelStyle.Render("Status:"), valueGreenStyle.Render("online"))
	} else {
		fmt.Printf("  %s%s\n", labelStyle.Render("Status:"), valueRedStyle.Render("offline"))
		if verbose && data.Gateway.Error != "" {
			fmt.Printf("  %s%s\n", labelStyle.Render("Error:"), valueDimStyle.Render(data.Gateway.Error))
		}
	}
	fmt.Println()

	fmt.Println(sectionStyle.Render("Session"))
	switch data.Session.State {
	case "authenticated":
		fmt.Printf("  %s%s\n", labelStyle.Render("State:"), valueGreenStyle.Render("signed in"))
		fmt.Printf("  %s%s\n", labelStyle.Render("User:"), valueStyle.Render(data.Session.Username))
		fmt.Printf("  %s%s\n", labelStyle.Render("Role:"), valueStyle.Render(data.Session.Role))
	default:
		fmt.Printf("  %s%s\n", labelStyle.Render("State:"), valueYellowStyle.Render("signed out"))
	}
	fmt.Println()

	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Println(separatorStyle.Render(strings.Repeat("-", 41)))
		fmt.Printf("Config file: %s\n", valueDimStyle.Render(path))
	}
	fmt.Println()
}
