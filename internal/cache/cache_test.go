// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/drivered-tui/internal/api"
)

// =============================================================================
// RETRY POLICY TESTS
// =============================================================================

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		status  int
		want    bool
	}{
		{"transport error first failure", 1, 0, true},
		{"transport error second failure", 2, 0, true},
		{"transport error third failure", 3, 0, false},
		{"server error retried", 1, 500, true},
		{"bad gateway retried", 2, 502, true},
		{"server error exhausted", 3, 500, false},
		{"bad request terminal", 1, 400, false},
		{"unauthorized terminal", 1, 401, false},
		{"not found terminal", 1, 404, false},
		{"validation error terminal", 1, 422, false},
		{"rate limit retried", 1, 429, true},
		{"rate limit exhausted", 3, 429, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.attempt, tt.status); got != tt.want {
				t.Errorf("ShouldRetry(%d, %d) = %v, want %v", tt.attempt, tt.status, got, tt.want)
			}
		})
	}
}

// =============================================================================
// CACHE BEHAVIOR TESTS
// =============================================================================

func TestGetCachesSuccess(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "roster", nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		data, err := c.Get(ctx, KeyStudents, fetch)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if data != "roster" {
			t.Errorf("Unexpected data: %v", data)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 fetch for repeated reads, got %d", calls.Load())
	}
}

func TestGetDoesNotCacheFailure(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		if calls.Load() == 1 {
			return nil, &api.APIError{Status: 404, Message: "not found"}
		}
		return "ok", nil
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, KeyStats, fetch); err == nil {
		t.Fatal("Expected first read to fail")
	}
	data, err := c.Get(ctx, KeyStats, fetch)
	if err != nil {
		t.Fatalf("Second read should succeed: %v", err)
	}
	if data != "ok" {
		t.Errorf("Unexpected data: %v", data)
	}
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	c := New()
	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const readers = 10
	results := make([]any, readers)
	errs := make([]error, readers)
	var started, done sync.WaitGroup
	started.Add(readers)
	done.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = c.Get(context.Background(), KeyStudents, fetch)
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 fetch for %d concurrent readers, got %d", readers, calls.Load())
	}
	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Errorf("Reader %d failed: %v", i, errs[i])
		}
		if results[i] != 42 {
			t.Errorf("Reader %d got %v", i, results[i])
		}
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) < 3 {
			return nil, &api.APIError{Status: 500, Message: "flaky"}
		}
		return "eventually", nil
	}

	data, err := c.Get(context.Background(), KeyStats, fetch)
	if err != nil {
		t.Fatalf("Expected retries to succeed: %v", err)
	}
	if data != "eventually" {
		t.Errorf("Unexpected data: %v", data)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientErrorIsTerminal(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, &api.APIError{Status: 422, Message: "invalid"}
	}

	_, err := c.Get(context.Background(), KeyStudents, fetch)
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("Client error must not be retried, got %d attempts", calls.Load())
	}
}

func TestRetriesAreBounded(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, &api.APIError{Message: "unreachable"}
	}

	_, err := c.Get(context.Background(), KeyStats, fetch)
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected initial attempt + 2 retries = 3 calls, got %d", calls.Load())
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}

	ctx := context.Background()
	first, _ := c.Get(ctx, KeyStudents, fetch)
	c.Invalidate(KeyStudents, KeyStats)
	second, _ := c.Get(ctx, KeyStudents, fetch)

	if first == second {
		t.Errorf("Expected refetch after invalidation, got %v twice", first)
	}
}

func TestMutateInvalidatesOnlyOnSuccess(t *testing.T) {
	c := New()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}
	ctx := context.Background()
	c.Get(ctx, KeyStudents, fetch)

	// Failed mutation: cache untouched.
	err := c.Mutate(ctx, func(ctx context.Context) error {
		return errors.New("rejected")
	}, KeyStudents, KeyStats)
	if err == nil {
		t.Fatal("Expected mutation error")
	}
	data, _ := c.Get(ctx, KeyStudents, fetch)
	if data != int64(1) {
		t.Errorf("Failed mutation must not invalidate, got refetched value %v", data)
	}

	// Successful mutation: both keys refetch.
	err = c.Mutate(ctx, func(ctx context.Context) error { return nil }, KeyStudents, KeyStats)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	data, _ = c.Get(ctx, KeyStudents, fetch)
	if data != int64(2) {
		t.Errorf("Expected refetch after successful mutation, got %v", data)
	}
}

func TestPeekStatuses(t *testing.T) {
	c := New()

	if status := c.Peek(KeyStudents).Status; status != StatusIdle {
		t.Errorf("Expected idle before first read, got %s", status)
	}

	c.Get(context.Background(), KeyStudents, func(ctx context.Context) (any, error) {
		return "data", nil
	})
	if status := c.Peek(KeyStudents).Status; status != StatusSuccess {
		t.Errorf("Expected success after read, got %s", status)
	}

	c.Get(context.Background(), KeyStats, func(ctx context.Context) (any, error) {
		return nil, &api.APIError{Status: 404, Message: "missing"}
	})
	if status := c.Peek(KeyStats).Status; status != StatusError {
		t.Errorf("Expected error status, got %s", status)
	}
}

func TestClearDropsEverything(t *testing.T) {
	c := New()
	c.Get(context.Background(), KeyStudents, func(ctx context.Context) (any, error) {
		return "data", nil
	})
	c.Clear()
	if status := c.Peek(KeyStudents).Status; status != StatusIdle {
		t.Errorf("Expected idle after Clear, got %s", status)
	}
}

func TestFetchTyped(t *testing.T) {
	c := New()
	students, err := Fetch(context.Background(), c, KeyStudents, func(ctx context.Context) ([]api.Student, error) {
		return []api.Student{{ID: 1, Name: "A"}}, nil
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(students) != 1 || students[0].Name != "A" {
		t.Errorf("Unexpected result: %+v", students)
	}
}
