// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns authentication state for the drivered console.
//
// # Key Types
//
//   - Controller: the authentication state machine (Unknown, Anonymous,
//     Authenticated) that probes, logs in, and logs out
//   - Snapshot: read-only session view for the route gate and status bar
//   - IdleWatcher: expires an authenticated session after inactivity
//
// # Usage
//
// Resolve the stored credential at startup:
//
//	ctrl := session.NewController(client, store)
//	snap := ctrl.Probe(ctx)
//
// Log in and out:
//
//	snap, err := ctrl.Login(ctx, username, password)
//	ctrl.Logout()
//
// The controller fails closed: a token the backend cannot validate, for
// any reason, is cleared rather than kept.
package session
