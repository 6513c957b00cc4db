// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// clearEnv neutralises every override so tests see only file values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BEX_DATA_FILE", "BEX_STORAGE_BACKEND", "BEX_PROVIDER", "BEX_MODEL", "BEX_LOG_LEVEL", "NO_COLOR"} {
		t.Setenv(k, "")
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != "file" {
		t.Errorf("Expected default backend 'file', got '%s'", cfg.Storage.Backend)
	}
	if cfg.Storage.DataFile != "~/.bex/data.json" {
		t.Errorf("Expected default data file '~/.bex/data.json', got '%s'", cfg.Storage.DataFile)
	}
	if cfg.Check.Provider != "openai" {
		t.Errorf("Expected default provider 'openai', got '%s'", cfg.Check.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"invalid backend", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"file backend without data file", func(c *Config) { c.Storage.DataFile = "" }, "storage.data_file"},
		{"keystore without path", func(c *Config) {
			c.Storage.Backend = "keystore"
			c.Storage.KeystorePath = ""
		}, "storage.keystore_path"},
		{"memory needs no paths", func(c *Config) {
			c.Storage.Backend = "memory"
			c.Storage.DataFile = ""
			c.Storage.KeystorePath = ""
		}, ""},
		{"invalid provider", func(c *Config) { c.Check.Provider = "mistral" }, "check.provider"},
		{"negative timeout", func(c *Config) { c.Check.TimeoutSecs = -1 }, "check.timeout_secs"},
		{"invalid color", func(c *Config) { c.UI.Color = "rainbow" }, "ui.color"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"uppercase log level", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidateErrors", err)
			}
			if verrs[0].Field != tt.wantErr {
				t.Errorf("Validate() field = %s, want %s", verrs[0].Field, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, ".bex", "data.json"); cfg.Storage.DataFile != want {
		t.Errorf("DataFile = %s, want %s", cfg.Storage.DataFile, want)
	}
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "mirror"
data_file = "/tmp/bex/data.json"
keystore_path = "/tmp/bex/ks.db"
watch = true

[check]
provider = "ollama"
command = ["ollama-check", "--json"]

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != "mirror" || !cfg.Storage.Watch {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if len(cfg.Check.Command) != 2 || cfg.Check.Command[0] != "ollama-check" {
		t.Errorf("command = %v", cfg.Check.Command)
	}
	if cfg.Check.Timeout() != 30*time.Second {
		t.Errorf("ollama timeout = %v, want 30s", cfg.Check.Timeout())
	}
	if cfg.Check.ResolvedModel() != "llama3.2" {
		t.Errorf("model = %s, want llama3.2", cfg.Check.ResolvedModel())
	}
	if cfg.UI.Color != "auto" || cfg.Logging.Format != "json" {
		t.Error("unset values should be filled from defaults")
	}
}

func TestLoad_MalformedIsError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage\nbackend = "), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestLoad_UnknownKeyIsError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbakend = \"file\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.bakend") {
		t.Errorf("Load() error = %v, want unknown key storage.bakend", err)
	}
}

func TestLoad_InvalidValueIsError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[check]\nprovider = \"bard\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unknown provider")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEX_DATA_FILE", "/srv/bex.json")
	t.Setenv("BEX_STORAGE_BACKEND", "keystore")
	t.Setenv("BEX_PROVIDER", "claude")
	t.Setenv("BEX_MODEL", "claude-opus")
	t.Setenv("BEX_LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Storage.DataFile != "/srv/bex.json" {
		t.Errorf("DataFile = %s", cfg.Storage.DataFile)
	}
	if cfg.Storage.Backend != "keystore" {
		t.Errorf("Backend = %s", cfg.Storage.Backend)
	}
	if cfg.Check.Provider != "claude" || cfg.Check.Model != "claude-opus" {
		t.Errorf("Check = %+v", cfg.Check)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Level = %s", cfg.Logging.Level)
	}
	if cfg.UI.Color != "never" {
		t.Errorf("Color = %s, want never", cfg.UI.Color)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Check.Provider = "gemini"
	cfg.Check.TimeoutSecs = 5
	cfg.Storage.DataFile = "/data/bex.json"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config permissions = %o, want 600", perm)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Check.Provider != "gemini" || loaded.Check.Timeout() != 5*time.Second {
		t.Errorf("Check = %+v", loaded.Check)
	}
	if loaded.Storage.DataFile != "/data/bex.json" {
		t.Errorf("DataFile = %s", loaded.Storage.DataFile)
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("check.provider")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "openai" {
		t.Errorf("Get('check.provider') = %v, want 'openai'", val)
	}

	if err := cfg.Set("check.timeout_secs", "15"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Check.TimeoutSecs != 15 {
		t.Errorf("TimeoutSecs = %d, want 15", cfg.Check.TimeoutSecs)
	}

	if err := cfg.Set("storage.watch", "true"); err != nil || !cfg.Storage.Watch {
		t.Errorf("Set(storage.watch) error = %v, watch = %v", err, cfg.Storage.Watch)
	}

	if err := cfg.Set("check.command", "my-checker --fast"); err != nil {
		t.Fatalf("Set(check.command) error = %v", err)
	}
	if len(cfg.Check.Command) != 2 || cfg.Check.Command[1] != "--fast" {
		t.Errorf("Command = %v", cfg.Check.Command)
	}

	if err := cfg.Set("check.timeout_secs", "soon"); err == nil {
		t.Error("Set() with non-integer should fail")
	}
	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if _, err := cfg.Get("check.provider.name"); err == nil {
		t.Error("Get() through a non-struct should return error")
	}
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	want := map[string]bool{"storage.data_file": false, "check.timeout_secs": false, "ui.render_markdown": false, "logging.format": false}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("GetAllKeys missing %s", k)
		}
	}

	cfg := Default()
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%s) error = %v", k, err)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if got := ExpandHome("~/.bex/data.json"); got != filepath.Join(home, ".bex", "data.json") {
		t.Errorf("ExpandHome = %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome = %s", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("ExpandHome = %s", got)
	}
}
