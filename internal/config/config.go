// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatkit configuration.
type Config struct {
	Version string `toml:"version"`

	// Mention configuration
	Mention MentionConfig `toml:"mention"`

	// Member directory configuration
	Directory DirectoryConfig `toml:"directory"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// Draft auto-save configuration
	Draft DraftConfig `toml:"draft"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// MentionConfig tunes the @-mention engine.
type MentionConfig struct {
	// TriggerChar is the character that opens a mention, "@" by default.
	// Must be a single rune.
	TriggerChar string `toml:"trigger_char"`
	// SuggestionLimit caps how many candidates the suggestion popup holds.
	SuggestionLimit int `toml:"suggestion_limit"`
	// MentionLimit caps confirmed mentions per message (0 = unlimited).
	MentionLimit int `toml:"mention_limit"`
	// KeywordLimit caps the keyword length scanned back from the caret.
	KeywordLimit int `toml:"keyword_limit"`
}

// DirectoryConfig tunes member lookups.
type DirectoryConfig struct {
	// RatePerSec and Burst shape the lookup rate limiter.
	RatePerSec float64 `toml:"rate_per_sec"`
	Burst      int     `toml:"burst"`
	// FetchTimeoutMs bounds a single lookup in milliseconds.
	FetchTimeoutMs int `toml:"fetch_timeout_ms"`
}

// StorageConfig locates the message store.
type StorageConfig struct {
	// Path is the SQLite database path (empty = ~/.chatkit/chatkit.db).
	Path string `toml:"path"`
}

// DraftConfig tunes per-channel draft persistence.
type DraftConfig struct {
	// AutoSaveSecs is the auto-save interval in seconds (0 disables).
	AutoSaveSecs int `toml:"auto_save_secs"`
	// Path is the draft file path (empty = ~/.chatkit/drafts.json).
	Path string `toml:"path"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// MaxMessageChars caps the composer length.
	MaxMessageChars int `toml:"max_message_chars"`
	// MarkdownEnabled renders mention-free message bodies as markdown.
	MarkdownEnabled bool `toml:"markdown_enabled"`
	// MouseEnabled turns on mouse support in the terminal.
	MouseEnabled bool `toml:"mouse_enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Mention: MentionConfig{
			TriggerChar:     "@",
			SuggestionLimit: 15,
			MentionLimit:    10,
			KeywordLimit:    30,
		},
		Directory: DirectoryConfig{
			RatePerSec:     5,
			Burst:          2,
			FetchTimeoutMs: 2000,
		},
		Storage: StorageConfig{},
		Draft: DraftConfig{
			AutoSaveSecs: 15,
		},
		UI: UIConfig{
			MaxMessageChars: 4096,
			MarkdownEnabled: true,
			MouseEnabled:    true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the chatkit config directory (~/.chatkit).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatkit"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// StoragePath resolves the SQLite path, applying the default when unset.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatkit.db"), nil
}

// DraftPath resolves the draft file path, applying the default when unset.
func (c *Config) DraftPath() (string, error) {
	if c.Draft.Path != "" {
		return c.Draft.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.chatkit/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied
// last, then the result is validated.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values with defaults, so a partial config file
// only overrides what it names.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Mention.TriggerChar == "" {
		c.Mention.TriggerChar = def.Mention.TriggerChar
	}
	if c.Mention.SuggestionLimit <= 0 {
		c.Mention.SuggestionLimit = def.Mention.SuggestionLimit
	}
	if c.Mention.KeywordLimit <= 0 {
		c.Mention.KeywordLimit = def.Mention.KeywordLimit
	}
	if c.Directory.RatePerSec <= 0 {
		c.Directory.RatePerSec = def.Directory.RatePerSec
	}
	if c.Directory.Burst <= 0 {
		c.Directory.Burst = def.Directory.Burst
	}
	if c.Directory.FetchTimeoutMs <= 0 {
		c.Directory.FetchTimeoutMs = def.Directory.FetchTimeoutMs
	}
	if c.UI.MaxMessageChars <= 0 {
		c.UI.MaxMessageChars = def.UI.MaxMessageChars
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# chatkit configuration file\n")
	buf.WriteString("# Generated by chatkit - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if utf8.RuneCountInString(c.Mention.TriggerChar) != 1 {
		errs = append(errs, ValidationError{
			Field:   "mention.trigger_char",
			Message: fmt.Sprintf("must be a single character, got %q", c.Mention.TriggerChar),
		})
	}
	if c.Mention.SuggestionLimit < 1 || c.Mention.SuggestionLimit > 100 {
		errs = append(errs, ValidationError{
			Field:   "mention.suggestion_limit",
			Message: fmt.Sprintf("must be between 1 and 100, got %d", c.Mention.SuggestionLimit),
		})
	}
	if c.Mention.MentionLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "mention.mention_limit",
			Message: fmt.Sprintf("must not be negative, got %d", c.Mention.MentionLimit),
		})
	}
	if c.Mention.KeywordLimit < 1 {
		errs = append(errs, ValidationError{
			Field:   "mention.keyword_limit",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Mention.KeywordLimit),
		})
	}
	if c.Directory.RatePerSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "directory.rate_per_sec",
			Message: fmt.Sprintf("must be positive, got %v", c.Directory.RatePerSec),
		})
	}
	if c.Directory.FetchTimeoutMs < 100 || c.Directory.FetchTimeoutMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "directory.fetch_timeout_ms",
			Message: fmt.Sprintf("must be between 100 and 60000, got %d", c.Directory.FetchTimeoutMs),
		})
	}
	if c.Draft.AutoSaveSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "draft.auto_save_secs",
			Message: fmt.Sprintf("must not be negative, got %d", c.Draft.AutoSaveSecs),
		})
	}
	if c.UI.MaxMessageChars < 1 || c.UI.MaxMessageChars > 65536 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_message_chars",
			Message: fmt.Sprintf("must be between 1 and 65536, got %d", c.UI.MaxMessageChars),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TriggerRune returns the trigger character as a rune. Call Validate first;
// an invalid config falls back to '@'.
func (c *Config) TriggerRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Mention.TriggerChar)
	if r == utf8.RuneError {
		return '@'
	}
	return r
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CHATKIT_* environment variables over the config.
func (c *Config) ApplyEnvOverrides() {
	// CHATKIT_TRIGGER_CHAR
	if trigger := os.Getenv("CHATKIT_TRIGGER_CHAR"); trigger != "" {
		c.Mention.TriggerChar = trigger
	}

	// CHATKIT_MENTION_LIMIT
	if limit := os.Getenv("CHATKIT_MENTION_LIMIT"); limit != "" {
		c.Mention.MentionLimit = util.StringToInt(limit, c.Mention.MentionLimit)
	}

	// CHATKIT_SUGGESTION_LIMIT
	if limit := os.Getenv("CHATKIT_SUGGESTION_LIMIT"); limit != "" {
		c.Mention.SuggestionLimit = util.StringToInt(limit, c.Mention.SuggestionLimit)
	}

	// CHATKIT_DB
	if path := os.Getenv("CHATKIT_DB"); path != "" {
		c.Storage.Path = path
	}

	// CHATKIT_NO_MARKDOWN
	if noMD := os.Getenv("CHATKIT_NO_MARKDOWN"); noMD != "" {
		c.UI.MarkdownEnabled = !(noMD == "1" || strings.ToLower(noMD) == "true")
	}

	// CHATKIT_NO_MOUSE
	if noMouse := os.Getenv("CHATKIT_NO_MOUSE"); noMouse != "" {
		c.UI.MouseEnabled = !(noMouse == "1" || strings.ToLower(noMouse) == "true")
	}
}
