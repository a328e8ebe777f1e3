// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials persists the bearer token issued by the DriverEdOS
// backend. The store holds at most one opaque token; it applies no policy
// and never inspects the token's shape. An absent token means logged out.
package credentials

import "sync"

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the narrow capability the rest of the program gets for the
// credential: read it, replace it, forget it. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the stored token, or "" when none is stored.
	Get() (string, error)

	// Set replaces the stored token.
	Set(token string) error

	// Clear forgets the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemoryStore keeps the token in process memory only. Used for ephemeral
// runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
