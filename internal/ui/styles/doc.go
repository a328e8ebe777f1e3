// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the drivered TUI.

This package defines the color palette and the Theme of prebuilt lipgloss
styles used throughout the application. All colors use Lip Gloss
AdaptiveColor for automatic light/dark terminal detection; the theme can be
forced to dark or light via configuration.

# Color System (colors.go)

  - Cyan - Brand color for titles, selections, and shortcuts
  - Emerald - Success states and the completed student badge
  - Amber - Warnings and the active student badge
  - Rose - Errors and delete confirmations

Student status badges carry dedicated fg/bg pairs (StatusEnrolled*,
StatusActive*, StatusCompleted*).

# Theme (theme.go)

Theme bundles every style the views need: header, stat cards, roster
table, form fields, status bar, and toasts. Construct one per program run:

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)

GetLayoutMode reports how much horizontal room the views have so they can
drop to a single column on narrow terminals.
*/
package styles
