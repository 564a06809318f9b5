// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the chatkit application.
//
// This package contains common helper functions used throughout the
// application for rune-safe string manipulation, type conversion, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - SafeSubstring: rune-index slicing that never splits a UTF-8 character
//   - TruncateRunes / TruncateWidth: display-safe truncation
//
// Type Conversion:
//   - IntToString, Int64ToString, StringToInt
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Slice text by caret positions (rune coordinates)
//	word := util.SafeSubstring(text, start, end)
//
//	// Truncate long display names safely for a suggestion row
//	display := util.TruncateWidth(nickname, 24)
package util
