// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for bex.
//
// Configuration file location (in order of precedence):
//   - --config flag
//   - ~/.bex/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete bex configuration.
type Config struct {
	// Storage backend selection and paths
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Grammar check settings
	Check CheckConfig `toml:"check" json:"check"`

	// Terminal output
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging output
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// StorageConfig selects where bex keeps history, profiles and preferences.
type StorageConfig struct {
	// Backend is one of "file", "keystore", "mirror" (keystore with a file
	// mirror) or "memory"
	Backend string `toml:"backend" json:"backend"`
	// DataFile is the shared JSON document
	DataFile string `toml:"data_file" json:"data_file"`
	// ScratchDir holds temporary files during atomic writes (empty = the
	// data file's directory)
	ScratchDir string `toml:"scratch_dir" json:"scratch_dir"`
	// KeystorePath is the SQLite database for the keystore backends
	KeystorePath string `toml:"keystore_path" json:"keystore_path"`
	// Watch reloads the data file when another front end replaces it
	Watch bool `toml:"watch" json:"watch"`
}

// CheckConfig controls how grammar checks are run.
type CheckConfig struct {
	// Provider is recorded on history entries: openai, claude, gemini, ollama
	Provider string `toml:"provider" json:"provider"`
	// Model overrides the provider's default model
	Model string `toml:"model" json:"model"`
	// Command is the external checker argv; it receives the text on stdin
	// and BEX_SYSTEM_PROMPT in its environment
	Command []string `toml:"command" json:"command"`
	// TimeoutSecs bounds a single check (0 = provider default)
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig contains terminal output settings.
type UIConfig struct {
	// Color is "auto", "always" or "never"
	Color string `toml:"color" json:"color"`
	// RenderMarkdown renders diffs and explanations through glamour
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" json:"level"`
	// Format is "json" or "console"
	Format string `toml:"format" json:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      "file",
			DataFile:     "~/.bex/data.json",
			KeystorePath: "~/.bex/keystore.db",
		},
		Check: CheckConfig{
			Provider: string(model.ProviderOpenAI),
		},
		UI: UIConfig{
			Color: "auto",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// Timeout returns the configured check timeout or the provider default.
func (c CheckConfig) Timeout() time.Duration {
	if c.TimeoutSecs > 0 {
		return time.Duration(c.TimeoutSecs) * time.Second
	}
	return model.Provider(c.Provider).DefaultTimeout()
}

// ResolvedModel returns the configured model or the provider default.
func (c CheckConfig) ResolvedModel() string {
	return model.ModelFor(model.Provider(c.Provider), c.Model)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the bex configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bex"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults. Environment overrides are
// applied last, then paths are expanded and the result validated.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg and fills missing values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any empty values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// Storage
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.Storage.DataFile == "" {
		cfg.Storage.DataFile = defaults.Storage.DataFile
	}
	if cfg.Storage.KeystorePath == "" {
		cfg.Storage.KeystorePath = defaults.Storage.KeystorePath
	}

	// Check
	if cfg.Check.Provider == "" {
		cfg.Check.Provider = defaults.Check.Provider
	}

	// UI
	if cfg.UI.Color == "" {
		cfg.UI.Color = defaults.UI.Color
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
}

// ExpandPaths expands "~" in every path setting.
func (c *Config) ExpandPaths() {
	c.Storage.DataFile = ExpandHome(c.Storage.DataFile)
	c.Storage.ScratchDir = ExpandHome(c.Storage.ScratchDir)
	c.Storage.KeystorePath = ExpandHome(c.Storage.KeystorePath)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# bex configuration file")
	fmt.Fprintln(&buf, "# Generated by bex - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
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

	// Storage
	switch c.Storage.Backend {
	case "file", "mirror":
		if c.Storage.DataFile == "" {
			errs = append(errs, ValidationError{Field: "storage.data_file", Message: "required for the " + c.Storage.Backend + " backend"})
		}
	case "keystore", "memory":
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, keystore, mirror, memory", c.Storage.Backend),
		})
	}
	if (c.Storage.Backend == "keystore" || c.Storage.Backend == "mirror") && c.Storage.KeystorePath == "" {
		errs = append(errs, ValidationError{Field: "storage.keystore_path", Message: "required for the " + c.Storage.Backend + " backend"})
	}

	// Check
	if !model.Provider(c.Check.Provider).Valid() {
		errs = append(errs, ValidationError{
			Field:   "check.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: openai, claude, gemini, ollama", c.Check.Provider),
		})
	}
	if c.Check.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "check.timeout_secs", Message: "must not be negative"})
	}

	// UI
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.color",
			Message: fmt.Sprintf("invalid color mode '%s', must be one of: auto, always, never", c.UI.Color),
		})
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: json, console", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - BEX_DATA_FILE: overrides storage.data_file
//   - BEX_STORAGE_BACKEND: overrides storage.backend
//   - BEX_PROVIDER: overrides check.provider
//   - BEX_MODEL: overrides check.model
//   - BEX_LOG_LEVEL: overrides logging.level
//   - NO_COLOR: forces ui.color = "never"
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("BEX_DATA_FILE"); v != "" {
		c.Storage.DataFile = v
	}
	if v := os.Getenv("BEX_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("BEX_PROVIDER"); v != "" {
		c.Check.Provider = v
	}
	if v := os.Getenv("BEX_MODEL"); v != "" {
		c.Check.Model = v
	}
	if v := os.Getenv("BEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.Color = "never"
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "check.provider").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "check.provider").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks a dotted key down to its struct field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Fields(strVal)))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	root := reflect.TypeOf(Config{})
	for i := 0; i < root.NumField(); i++ {
		section := root.Field(i)
		prefix := section.Tag.Get("toml")
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
