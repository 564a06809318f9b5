// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatkit.
//
// Configuration lives in ~/.chatkit/config.toml, with sensible defaults,
// CHATKIT_* environment variable overrides, and validation. A Watcher can
// hot-reload the file while the app runs.
package config
