// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// IDLE WATCHER
// =============================================================================

// IdleWatcher tracks user activity and expires an authenticated session
// after a period of inactivity. An unattended admin console holding a live
// token is logged out rather than left open.
type IdleWatcher struct {
	mu sync.Mutex

	lastActivity time.Time
	timeout      time.Duration
	warnBefore   time.Duration
	warningShown bool

	onTimeout func()
	onWarning func(remaining time.Duration)
}

// IdleConfig holds configuration for the idle watcher.
type IdleConfig struct {
	// Timeout is the idle duration after which the session expires
	// (default: 15 minutes)
	Timeout time.Duration

	// WarnBefore is how long before expiry to warn (default: 2 minutes)
	WarnBefore time.Duration
}

// DefaultIdleConfig returns the default idle watcher configuration.
func DefaultIdleConfig() IdleConfig {
	return IdleConfig{
		Timeout:    15 * time.Minute,
		WarnBefore: 2 * time.Minute,
	}
}

// NewIdleWatcher creates an idle watcher.
func NewIdleWatcher(cfg IdleConfig) *IdleWatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	if cfg.WarnBefore <= 0 {
		cfg.WarnBefore = 2 * time.Minute
	}
	return &IdleWatcher{
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
		warnBefore:   cfg.WarnBefore,
	}
}

// RecordActivity updates the last activity timestamp. Called on every key
// press in the UI.
func (w *IdleWatcher) RecordActivity() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActivity = time.Now()
	w.warningShown = false
}

// IdleTime returns how long since the last activity.
func (w *IdleWatcher) IdleTime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastActivity)
}

// Remaining returns time until idle expiry.
func (w *IdleWatcher) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	remaining := w.timeout - time.Since(w.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired returns true if the idle timeout has elapsed.
func (w *IdleWatcher) IsExpired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastActivity) >= w.timeout
}

// SetTimeoutCallback sets the function called when the session idles out.
func (w *IdleWatcher) SetTimeoutCallback(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTimeout = fn
}

// SetWarningCallback sets the function called when expiry approaches.
func (w *IdleWatcher) SetWarningCallback(fn func(remaining time.Duration)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onWarning = fn
}

// Check evaluates idle state and triggers callbacks. Returns true if the
// session is still live, false once expired. The warning fires at most
// once per activity period.
func (w *IdleWatcher) Check() bool {
	w.mu.Lock()
	idle := time.Since(w.lastActivity)
	expired := idle >= w.timeout

	shouldWarn := false
	var remaining time.Duration
	if !w.warningShown && !expired && idle >= w.timeout-w.warnBefore {
		shouldWarn = true
		remaining = w.timeout - idle
		w.warningShown = true
	}

	onTimeout := w.onTimeout
	onWarning := w.onWarning
	w.mu.Unlock()

	// Callbacks run outside the lock
	if shouldWarn && onWarning != nil {
		onWarning(remaining)
	}
	if expired && onTimeout != nil {
		onTimeout()
	}
	return !expired
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// IdleTickMsg is emitted on each idle-check interval.
type IdleTickMsg time.Time

// IdleExpiredMsg is emitted when the idle timeout elapses.
type IdleExpiredMsg struct{}

// IdleWarningMsg is emitted when expiry approaches.
type IdleWarningMsg struct {
	Remaining time.Duration
}

// IdleTickCmd returns a command that ticks the idle watcher once per
// second.
func IdleTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return IdleTickMsg(t)
	})
}

// HandleTick processes a tick: it reports expiry or warning as a message
// for the update loop and schedules the next tick.
func (w *IdleWatcher) HandleTick() tea.Cmd {
	w.mu.Lock()
	idle := time.Since(w.lastActivity)
	expired := idle >= w.timeout

	var warn bool
	var remaining time.Duration
	if !w.warningShown && !expired && idle >= w.timeout-w.warnBefore {
		warn = true
		remaining = w.timeout - idle
		w.warningShown = true
	}
	w.mu.Unlock()

	if expired {
		return func() tea.Msg { return IdleExpiredMsg{} }
	}
	if warn {
		return tea.Batch(
			func() tea.Msg { return IdleWarningMsg{Remaining: remaining} },
			IdleTickCmd(),
		)
	}
	return IdleTickCmd()
}

// FormatDuration renders a duration as m:ss for the timeout warning.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
