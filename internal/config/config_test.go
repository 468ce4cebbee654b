package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config must fall back to defaults, got %v", err)
	}
	if cfg.AppID != DefaultConfig.AppID {
		t.Errorf("expected default app_id %q, got %q", DefaultConfig.AppID, cfg.AppID)
	}
	if cfg.Hotkeys.PrimaryToggle != "super+space" {
		t.Errorf("expected default primary toggle, got %q", cfg.Hotkeys.PrimaryToggle)
	}
	if len(cfg.Hotkeys.Secondary) != 2 {
		t.Errorf("expected default secondary bindings, got %v", cfg.Hotkeys.Secondary)
	}
}

func TestLoadConfigParsesHotkeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
app_name = "kit"
app_id = "kit"
socket_path = "/tmp/kit_test_socket"

[prompt]
width = 800
height = 600

[hotkeys]
primary_toggle = "super+k"

[hotkeys.secondary]
notes = "super+shift+n"
scratch = "super+shift+s"

[focus]
poll_interval = 100
auto_dismiss = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Prompt.Width != 800 || cfg.Prompt.Height != 600 {
		t.Errorf("prompt geometry not parsed: %+v", cfg.Prompt)
	}
	if cfg.Hotkeys.PrimaryToggle != "super+k" {
		t.Errorf("primary toggle = %q", cfg.Hotkeys.PrimaryToggle)
	}
	if cfg.Hotkeys.Secondary["notes"] != "super+shift+n" {
		t.Errorf("notes accel = %q", cfg.Hotkeys.Secondary["notes"])
	}
	// Secondary kinds are open: config can add kinds the code never
	// named.
	if cfg.Hotkeys.Secondary["scratch"] != "super+shift+s" {
		t.Errorf("scratch accel = %q", cfg.Hotkeys.Secondary["scratch"])
	}
	if cfg.Focus.PollInterval != 100 {
		t.Errorf("poll interval = %d", cfg.Focus.PollInterval)
	}

	// Unset sections keep their defaults.
	if cfg.Prompt.MaxResults != DefaultConfig.Prompt.MaxResults {
		t.Errorf("expected default max_results, got %d", cfg.Prompt.MaxResults)
	}
}

func TestValidateCatchesBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty app id", func(c *Config) { c.AppID = "" }, "app_id"},
		{"empty socket", func(c *Config) { c.SocketPath = "" }, "socket_path"},
		{"tiny width", func(c *Config) { c.Prompt.Width = 10 }, "width"},
		{"huge height", func(c *Config) { c.Prompt.Height = 9000 }, "height"},
		{"zero results", func(c *Config) { c.Prompt.MaxResults = 0 }, "max_results"},
		{"negative debounce", func(c *Config) { c.Prompt.DebounceDelay = -1 }, "debounce"},
		{"no primary toggle", func(c *Config) { c.Hotkeys.PrimaryToggle = "" }, "primary_toggle"},
		{"blank secondary accel", func(c *Config) { c.Hotkeys.Secondary = map[string]string{"notes": ""} }, "notes"},
		{"fast poll", func(c *Config) { c.Focus.PollInterval = 1 }, "poll_interval"},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig
		cfg.Hotkeys.Secondary = map[string]string{"notes": "super+n"}
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig
	if err := cfg.Validate(); err != nil {
		t.Errorf("the default config must validate: %v", err)
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	cfg := DefaultConfig
	cfg.Prompt.Width = 720
	if err := SaveConfig(&cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Prompt.Width != 720 {
		t.Errorf("expected saved width 720, got %d", loaded.Prompt.Width)
	}
}
