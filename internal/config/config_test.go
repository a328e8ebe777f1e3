// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// DEFAULTS AND VALIDATION TESTS
// =============================================================================

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Unexpected default base URL: %q", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Unexpected default timeout: %v", cfg.Timeout())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base URL", func(c *Config) { c.API.BaseURL = "localhost:8000" }},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -5 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	if cfg.API.BaseURL == "" || cfg.API.TimeoutSecs == 0 || cfg.UI.Theme == "" {
		t.Errorf("SetDefaults left zero values: %+v", cfg)
	}
}

// =============================================================================
// FILE LOADING TESTS
// =============================================================================

func TestLoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://10.0.0.5:9000/"
timeout_secs = 30

[ui]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("Expected trailing slash stripped, got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("Expected timeout 30, got %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Expected dark theme, got %q", cfg.UI.Theme)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api": {"base_url": "https://drivered.example.com", "timeout_secs": 20}, "ui": {"theme": "light"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "https://drivered.example.com" {
		t.Errorf("Unexpected base URL: %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Expected light theme, got %q", cfg.UI.Theme)
	}
}

func TestLoadFromPathPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.API.BaseURL)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.API.BaseURL = "http://192.168.1.10:8000"
	cfg.UI.Theme = "dark"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL || loaded.UI.Theme != cfg.UI.Theme {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Config file permissions = %o, want 0600", info.Mode().Perm())
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDE TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DRIVERED_API_URL", "http://override:9999")
	t.Setenv("DRIVERED_TIMEOUT_SECS", "45")
	t.Setenv("DRIVERED_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://override:9999" {
		t.Errorf("Expected env base URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("Expected env timeout 45, got %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Expected env theme, got %q", cfg.UI.Theme)
	}
}

func TestApplyEnvOverridesIgnoresGarbageTimeout(t *testing.T) {
	t.Setenv("DRIVERED_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.API.TimeoutSecs != Default().API.TimeoutSecs {
		t.Errorf("Garbage timeout should be ignored, got %d", cfg.API.TimeoutSecs)
	}
}

// =============================================================================
// GLOBAL SINGLETON TESTS
// =============================================================================

// TestConfigConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfigConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			_ = Global()
		}()
	}
	wg.Wait()
}
