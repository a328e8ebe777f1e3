// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// gateway.go - Shared gateway plumbing for one-shot commands.
//
// Each command opens the credential store, builds an API client from the
// active configuration, and closes the store when done. The --api-url flag
// overrides the configured base URL for a single invocation.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/config"
	"github.com/jeranaias/drivered-tui/internal/credentials"
)

// commandTimeout bounds every one-shot gateway call.
const commandTimeout = 30 * time.Second

// gateway bundles the client and store a command needs.
type gateway struct {
	client *api.Client
	store  *credentials.SQLiteStore
}

// openGateway builds a client from config plus CLI overrides.
// Callers must Close the returned gateway.
func openGateway(args Args) (*gateway, error) {
	cfg := config.Global()

	path, err := credentials.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate credential store: %w", err)
	}
	store, err := credentials.OpenSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	clientConfig := &api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.Timeout(),
	}
	if args.APIURL != "" {
		clientConfig.BaseURL = args.APIURL
	}

	return &gateway{
		client: api.NewClientWithConfig(store, clientConfig),
		store:  store,
	}, nil
}

// Close releases the credential store.
func (g *gateway) Close() {
	_ = g.store.Close()
}

// commandContext returns the bounded context used by one-shot commands.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}
