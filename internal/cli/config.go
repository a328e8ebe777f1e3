// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Print one value
//   set <key> <value>   Set a configuration value
//   path                Show configuration file path
//
// Configuration Keys:
//   api.base_url        Gateway base URL (absolute http or https)
//   api.timeout_secs    Request timeout in seconds
//   ui.theme            dark, light, or auto
//
// Examples:
//   drivered config show
//   drivered config get api.base_url
//   drivered config set api.base_url http://10.0.0.5:8000
//   drivered config set ui.theme light
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/drivered-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)

	case "get":
		return handleConfigGet(args)

	case "set":
		return handleConfigSet(args)

	case "path":
		return handleConfigPath(args)

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

// handleConfigShow displays the current configuration.
func handleConfigShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
	}

	if args.JSON {
		return NewJSONResponse("config show", cfg).Print()
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("drivered Configuration"))
	fmt.Println(separatorStyle.Render(strings.Repeat("=", 41)))
	fmt.Println()

	fmt.Println(sectionStyle.Render("[api]"))
	fmt.Printf("  %s%s\n", labelStyle.Render("base_url:"), valueGreenStyle.Render(cfg.API.BaseURL))
	fmt.Printf("  %s%s\n", labelStyle.Render("timeout_secs:"), valueGreenStyle.Render(strconv.Itoa(cfg.API.TimeoutSecs)))
	fmt.Println()

	fmt.Println(sectionStyle.Render("[ui]"))
	fmt.Printf("  %s%s\n", labelStyle.Render("theme:"), valueGreenStyle.Render(cfg.UI.Theme))
	fmt.Println()

	if path, pathErr := config.ConfigPathTOML(); pathErr == nil {
		fmt.Println(separatorStyle.Render(strings.Repeat("-", 41)))
		fmt.Printf("Config file: %s\n", valueDimStyle.Render(path))
	}
	fmt.Println()
	return nil
}

// handleConfigGet prints a single configuration value.
func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("no config key provided\nUsage: drivered config get <key>")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
	}

	value, err := configValue(cfg, args.ConfigKey)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config get", map[string]string{
			"key":   normalizeConfigKey(args.ConfigKey),
			"value": value,
		}).Print()
	}

	fmt.Println(value)
	return nil
}

// handleConfigSet sets a configuration value and persists it.
func handleConfigSet(args Args) error {
	key := args.ConfigKey
	value := args.ConfigVal
	if key == "" {
		return fmt.Errorf("no config key provided\nUsage: drivered config set <key> <value>")
	}
	if value == "" {
		return fmt.Errorf("no config value provided\nUsage: drivered config set %s <value>", key)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = config.Default()
	}

	switch normalizeConfigKey(key) {
	case "api.base_url":
		cfg.API.BaseURL = strings.TrimRight(value, "/")

	case "api.timeout_secs":
		secs, convErr := strconv.Atoi(value)
		if convErr != nil || secs <= 0 {
			return fmt.Errorf("invalid timeout: %s (must be a positive integer)", value)
		}
		cfg.API.TimeoutSecs = secs

	case "ui.theme":
		cfg.UI.Theme = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %s\n\nValid keys:\n"+
			"  api.base_url       - Gateway base URL\n"+
			"  api.timeout_secs   - Request timeout in seconds\n"+
			"  ui.theme           - dark, light, or auto", key)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration value: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if args.JSON {
		return NewJSONResponse("config set", map[string]string{
			"key":   normalizeConfigKey(key),
			"value": value,
		}).Print()
	}

	fmt.Printf("%s %s = %s\n", okStyle.Render("[OK]"), normalizeConfigKey(key), value)
	return nil
}

// handleConfigPath shows the config file path.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	exists := !os.IsNotExist(statErr)

	if args.JSON {
		return NewJSONResponse("config path", map[string]interface{}{
			"path":   path,
			"exists": exists,
		}).Print()
	}

	fmt.Println(path)
	if !exists {
		fmt.Fprintln(os.Stderr, "Note: file does not exist yet; it is created on first save")
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// normalizeConfigKey accepts both dot and underscore notation.
func normalizeConfigKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "api_base_url", "base_url", "api.base_url":
		return "api.base_url"
	case "api_timeout_secs", "timeout_secs", "timeout", "api.timeout_secs":
		return "api.timeout_secs"
	case "ui_theme", "theme", "ui.theme":
		return "ui.theme"
	default:
		return key
	}
}

// configValue resolves a normalized key against a config.
func configValue(cfg *config.Config, key string) (string, error) {
	switch normalizeConfigKey(key) {
	case "api.base_url":
		return cfg.API.BaseURL, nil
	case "api.timeout_secs":
		return strconv.Itoa(cfg.API.TimeoutSecs), nil
	case "ui.theme":
		return cfg.UI.Theme, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}
