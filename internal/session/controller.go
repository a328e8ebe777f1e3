// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication state machine. It is the only
// layer that decides whether the program is logged in; the gateway reports
// facts (token rejected) and this controller reconciles them.
package session

import (
	"context"
	"sync"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/credentials"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the resolution of the current session.
type State int

const (
	// StateUnknown means the stored credential has not been validated yet.
	// The UI must not show protected content while in this state.
	StateUnknown State = iota

	// StateAnonymous means there is no usable credential.
	StateAnonymous

	// StateAuthenticated means the backend confirmed the credential and
	// returned an identity.
	StateAuthenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Snapshot is a read-only view of the session for the route gate and the
// status bar. Identity is nil unless authenticated.
type Snapshot struct {
	State    State
	Identity *api.Identity

	// Resolving is true while the initial probe (or a login) is still
	// deciding the session state.
	Resolving bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives the session state machine. It is safe for concurrent
// use; probes and logins run on background goroutines while the UI reads
// snapshots from the update loop.
type Controller struct {
	mu       sync.Mutex
	client   *api.Client
	store    credentials.Store
	state    State
	identity *api.Identity

	// generation invalidates in-flight work: any probe or login result
	// whose generation no longer matches is discarded, so a stale response
	// cannot resurrect a session that was logged out meanwhile.
	generation uint64
}

// NewController creates a session controller and wires the gateway's 401
// notification back into it.
func NewController(client *api.Client, store credentials.Store) *Controller {
	c := &Controller{
		client: client,
		store:  store,
		state:  StateUnknown,
	}
	client.SetOnUnauthorized(c.handleUnauthorized)
	return c
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:     c.state,
		Identity:  c.identity,
		Resolving: c.state == StateUnknown,
	}
}

// Probe resolves the stored credential into a definite session state.
//
// With no stored token it settles on Anonymous without touching the
// network. With a token it validates against the backend; any failure —
// network, 401, 500 — clears the credential and settles on Anonymous. The
// session is never left half-open on an unverifiable token.
func (c *Controller) Probe(ctx context.Context) Snapshot {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	token, err := c.store.Get()
	if err != nil || token == "" {
		return c.resolve(gen, StateAnonymous, nil)
	}

	me, err := c.client.Me(ctx)
	if err != nil {
		// Fail closed: an unverifiable token is forfeited, not kept.
		c.clearIfCurrent(gen)
		return c.resolve(gen, StateAnonymous, nil)
	}
	return c.resolve(gen, StateAuthenticated, me)
}

// Login exchanges credentials for a token, stores it, and then runs the
// same validation a startup probe would. Success is only reported once the
// identity has been confirmed; on any failure the session stays Anonymous
// and the backend's reason is returned.
func (c *Controller) Login(ctx context.Context, username, password string) (Snapshot, error) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	resp, err := c.client.Login(ctx, username, password)
	if err != nil {
		return c.resolve(gen, StateAnonymous, nil), err
	}
	stored, err := c.storeIfCurrent(gen, resp.AccessToken)
	if err != nil {
		return c.resolve(gen, StateAnonymous, nil), err
	}
	if !stored {
		// A logout raced this login; do not keep the token it won.
		return c.Snapshot(), nil
	}

	me, err := c.client.Me(ctx)
	if err != nil {
		c.clearIfCurrent(gen)
		return c.resolve(gen, StateAnonymous, nil), err
	}
	return c.resolve(gen, StateAuthenticated, me), nil
}

// Logout ends the session immediately. No network call is made; the
// credential and identity are simply forgotten, and any in-flight probe or
// login result is invalidated.
func (c *Controller) Logout() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	_ = c.store.Clear()
	c.state = StateAnonymous
	c.identity = nil
	return Snapshot{State: c.state}
}

// handleUnauthorized reconciles the session after the gateway saw a 401 on
// any call. The gateway already cleared the store.
func (c *Controller) handleUnauthorized() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateAnonymous
	c.identity = nil
}

// storeIfCurrent writes the token only if no logout or 401 superseded the
// login that produced it. The generation re-check and the write happen
// under one lock, so a racing Logout cannot clear the store and then lose
// to this write.
func (c *Controller) storeIfCurrent(gen uint64, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	return true, c.store.Set(token)
}

// clearIfCurrent forfeits the stored token unless the session moved on
// while the failing call was in flight. A stale failure must not wipe the
// token of a newer session.
func (c *Controller) clearIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		_ = c.store.Clear()
	}
}

// resolve applies a probe/login outcome unless the session moved on while
// the work was in flight. The identity is replaced wholesale, never merged.
func (c *Controller) resolve(gen uint64, state State, identity *api.Identity) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A logout or 401 superseded this work; its result is stale.
		return Snapshot{State: c.state, Identity: c.identity, Resolving: c.state == StateUnknown}
	}
	c.state = state
	c.identity = identity
	return Snapshot{State: c.state, Identity: c.identity}
}
