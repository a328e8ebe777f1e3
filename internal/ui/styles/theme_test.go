// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme("auto")

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Verify styles are initialized by rendering a test string
	if theme.App.Render("test") == "" {
		t.Error("NewTheme() should initialize App style")
	}
	if theme.Width != 80 || theme.Height != 24 {
		t.Errorf("Unexpected default size: %dx%d", theme.Width, theme.Height)
	}
}

func TestNewThemeModeOverride(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark mode should force IsDark")
	}
	light := NewTheme("light")
	if light.IsDark {
		t.Error("light mode should force !IsDark")
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize not applied: %dx%d", theme.Width, theme.Height)
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutNormal},
		{99, LayoutNormal},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestBadgeFor(t *testing.T) {
	theme := NewTheme("dark")

	if theme.BadgeFor("active").Render("x") == theme.BadgeFor("completed").Render("x") {
		t.Error("active and completed badges should differ")
	}
	// Unknown statuses fall back to the neutral badge.
	if theme.BadgeFor("bogus").Render("x") != theme.BadgeFor("enrolled").Render("x") {
		t.Error("unknown status should render as enrolled")
	}
}
