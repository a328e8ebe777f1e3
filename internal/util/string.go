// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWidth truncates a string to a maximum display width, appending
// an ellipsis when something was cut. Width is measured in terminal
// columns, so double-width (CJK) characters count as 2.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadWidth pads a string with spaces to an exact display width, truncating
// if it is too long. Used for fixed-width table columns.
func PadWidth(s string, width int) string {
	s = TruncateWidth(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// StringWidth returns the display width of a string in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// FormatHours renders progress hours for display: whole numbers without a
// decimal point, fractional values with one decimal place.
func FormatHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return strconv.FormatInt(int64(hours), 10)
	}
	return strconv.FormatFloat(hours, 'f', 1, 64)
}
