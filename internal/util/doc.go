// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the drivered application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width safe truncation with ellipsis
//   - PadWidth: fixed-width column padding
//   - FormatHours: progress-hours display formatting
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for table cells
//	cell := util.PadWidth(student.Name, 24)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
