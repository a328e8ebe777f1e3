// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the drivered TUI.

This package contains a small set of styled components built on top of the
Bubble Tea and Lip Gloss libraries:

  - ToastManager / OverlayToasts: non-blocking corner notifications for
    mutation results and gateway errors
  - Spinner: loading indicator for in-flight backend calls
  - StatusBar: backend health, signed-in user, and key hints
  - Table: scrollable row selector for the student roster

Components take the active styles.Theme at construction so light/dark
variants stay consistent across views.
*/
package components
