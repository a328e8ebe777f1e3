// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/drivered-tui/internal/ui/styles"
	"github.com/jeranaias/drivered-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: backend health, signed-in user, and the
// key hints for the current view.
type StatusBar struct {
	theme     *styles.Theme
	width     int
	apiOnline bool
	apiKnown  bool
	username  string
	role      string
	shortcuts []Shortcut
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetHealth records the backend health probe result.
func (s *StatusBar) SetHealth(online bool) {
	s.apiOnline = online
	s.apiKnown = true
}

// SetUser records the signed-in identity; empty strings mean signed out.
func (s *StatusBar) SetUser(username, role string) {
	s.username = username
	s.role = role
}

// SetShortcuts replaces the key hints for the current view.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.shortcuts = shortcuts
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left []string

	switch {
	case !s.apiKnown:
		left = append(left, s.theme.Muted.Render("● api: checking"))
	case s.apiOnline:
		left = append(left, s.theme.StatusOnline.Render("● api: online"))
	default:
		left = append(left, s.theme.StatusOffline.Render("● api: offline"))
	}

	if s.username != "" {
		user := s.username
		if s.role != "" {
			user += " (" + s.role + ")"
		}
		left = append(left, s.theme.HeaderSubtitle.Render(util.TruncateWidth(user, 30)))
	}

	leftPart := strings.Join(left, "  ")
	rightPart := s.renderShortcuts()

	if s.width <= 0 {
		return s.theme.StatusBar.Render(leftPart + "  " + rightPart)
	}

	gap := s.width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart) - 2
	if gap < 1 {
		// Narrow terminal: drop the shortcuts before dropping the status.
		return s.theme.StatusBar.Width(s.width).Render(util.TruncateWidth(leftPart, s.width-2))
	}
	return s.theme.StatusBar.Width(s.width).Render(
		leftPart + strings.Repeat(" ", gap) + rightPart,
	)
}

func (s *StatusBar) renderShortcuts() string {
	if len(s.shortcuts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
