// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the drivered TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// VIEW STYLES
	// ==========================================================================

	ViewTitle   lipgloss.Style
	SectionNote lipgloss.Style

	// Dashboard stat cards
	Card      lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style

	// Roster table
	TableHeader      lipgloss.Style
	TableRow         lipgloss.Style
	TableRowSelected lipgloss.Style

	// Status badges
	BadgeEnrolled  lipgloss.Style
	BadgeActive    lipgloss.Style
	BadgeCompleted lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormLabel      lipgloss.Style
	FormHint       lipgloss.Style
	FormError      lipgloss.Style
	FormFieldFocus lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	Spinner      lipgloss.Style
	Danger       lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme using the terminal's detected capabilities.
// mode overrides background detection: "dark", "light", or "auto".
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Container = lipgloss.NewStyle().
		Padding(1, 2)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ViewTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	t.SectionNote = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		MarginRight(2)

	t.CardLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CardValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableRowSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)

	t.BadgeEnrolled = lipgloss.NewStyle().
		Foreground(StatusEnrolledFg).
		Background(StatusEnrolledBg).
		Padding(0, 1)

	t.BadgeActive = lipgloss.NewStyle().
		Foreground(StatusActiveFg).
		Background(StatusActiveBg).
		Padding(0, 1)

	t.BadgeCompleted = lipgloss.NewStyle().
		Foreground(StatusCompletedFg).
		Background(StatusCompletedBg).
		Padding(0, 1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(16)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.FormFieldFocus = lipgloss.NewStyle().
		Foreground(Cyan)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusOffline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(Emerald).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(Cyan).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Danger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// =============================================================================
// LAYOUT MODES
// =============================================================================

// LayoutMode describes how much horizontal room the views have.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 cols: single column, no cards
	LayoutNormal                   // 60-99 cols
	LayoutWide                     // >= 100 cols
)

// GetLayoutMode returns the layout mode for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// BadgeFor returns the badge style for a student status string.
func (t *Theme) BadgeFor(status string) lipgloss.Style {
	switch status {
	case "active":
		return t.BadgeActive
	case "completed":
		return t.BadgeCompleted
	default:
		return t.BadgeEnrolled
	}
}
