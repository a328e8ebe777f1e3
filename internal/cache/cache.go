// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache is the read-side cache between the UI and the backend. It
// remembers the last successful result per key, collapses concurrent reads
// of the same key into one network call, and applies the retry policy the
// gateway itself deliberately does not have.
package cache

import (
	"context"
	"sync"

	"github.com/jeranaias/drivered-tui/internal/api"
)

// =============================================================================
// KEYS AND STATUS
// =============================================================================

// Cache keys are stable strings shared between readers and the mutation
// paths that invalidate them.
const (
	KeyStudents = "students"
	KeyStats    = "stats"
)

// Status is the lifecycle of a cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is a point-in-time view of one cached key.
type Entry struct {
	Key    string
	Data   any
	Status Status
	Err    error
}

// =============================================================================
// RETRY POLICY
// =============================================================================

// maxRetries bounds how many times a failed fetch is retried.
const maxRetries = 2

// ShouldRetry decides whether a failed fetch attempt is worth repeating.
// attempt counts failures so far (1 after the first failure); status is the
// HTTP status of the failure, 0 for transport errors.
//
// Client errors are terminal: the same request will fail the same way. The
// one exception is 429, which by definition asks for a retry. Transport
// errors and server errors are transient and retried up to the cap.
func ShouldRetry(attempt, status int) bool {
	if status >= 400 && status <= 499 && status != 429 {
		return false
	}
	return attempt < maxRetries+1
}

// =============================================================================
// CACHE
// =============================================================================

// FetchFunc loads fresh data for a key.
type FetchFunc func(ctx context.Context) (any, error)

type inflight struct {
	done chan struct{}
	data any
	err  error
}

type record struct {
	data  any
	valid bool
	err   error
	call  *inflight
}

// Cache holds query results keyed by stable strings. Safe for concurrent
// use; fetches run outside the lock.
type Cache struct {
	mu      sync.Mutex
	records map[string]*record
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{records: make(map[string]*record)}
}

// Get returns the cached value for key, fetching it when absent or stale.
// Concurrent calls for the same key share a single fetch: one caller runs
// it, the rest wait for the outcome. Failures are not cached; the next
// read tries again.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	rec, ok := c.records[key]
	if !ok {
		rec = &record{}
		c.records[key] = rec
	}
	if rec.valid {
		data := rec.data
		c.mu.Unlock()
		return data, nil
	}
	if rec.call != nil {
		call := rec.call
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.data, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflight{done: make(chan struct{})}
	rec.call = call
	c.mu.Unlock()

	data, err := c.fetchWithRetry(ctx, fetch)

	c.mu.Lock()
	call.data = data
	call.err = err
	rec.call = nil
	if err == nil {
		rec.data = data
		rec.valid = true
		rec.err = nil
	} else {
		rec.err = err
	}
	c.mu.Unlock()
	close(call.done)

	return data, err
}

// fetchWithRetry runs fetch under the retry policy. Retries are immediate;
// the backend is local-network and the UI is waiting.
func (c *Cache) fetchWithRetry(ctx context.Context, fetch FetchFunc) (any, error) {
	var data any
	var err error
	for attempt := 0; ; attempt++ {
		data, err = fetch(ctx)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		if !ShouldRetry(attempt+1, api.StatusOf(err)) {
			return nil, err
		}
	}
}

// Invalidate marks the given keys stale. The data stays readable through
// Peek until the next Get replaces it, but Get will refetch.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if rec, ok := c.records[key]; ok {
			rec.valid = false
		}
	}
}

// Peek returns the current entry for key without triggering a fetch.
func (c *Cache) Peek(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[key]
	if !ok {
		return Entry{Key: key, Status: StatusIdle}
	}
	entry := Entry{Key: key, Data: rec.data, Err: rec.err}
	switch {
	case rec.call != nil:
		entry.Status = StatusLoading
	case rec.valid:
		entry.Status = StatusSuccess
	case rec.err != nil:
		entry.Status = StatusError
	default:
		entry.Status = StatusIdle
	}
	return entry
}

// Clear drops every entry. Used on logout so one user's data cannot bleed
// into the next session.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[string]*record)
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// Fetch is a typed wrapper over Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	data, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return data.(T), nil
}

// Mutate runs a write operation and, only if it succeeds, invalidates the
// given keys. A failed mutation leaves every cached value untouched.
func (c *Cache) Mutate(ctx context.Context, op func(context.Context) error, invalidate ...string) error {
	if err := op(ctx); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}
