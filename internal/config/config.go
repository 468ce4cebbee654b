package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	AppName    string        `toml:"app_name"`
	AppID      string        `toml:"app_id"`
	SocketPath string        `toml:"socket_path"`
	ScriptsDir string        `toml:"scripts_dir"`
	Prompt     PromptConfig  `toml:"prompt"`
	Hotkeys    HotkeysConfig `toml:"hotkeys"`
	Focus      FocusConfig   `toml:"focus"`
}

type PromptConfig struct {
	Width         int  `toml:"width"`
	Height        int  `toml:"height"`
	MaxResults    int  `toml:"max_results"`
	DebounceDelay int  `toml:"debounce_delay"` // milliseconds
	CacheSize     int  `toml:"cache_size"`
	TopMargin     int  `toml:"top_margin"`
	HideOnRun     bool `toml:"hide_on_run"`
}

type HotkeysConfig struct {
	// PrimaryToggle is the accelerator the compositor keybinding
	// documents for the command window; the daemon normalizes it and
	// keys the trigger registration off it.
	PrimaryToggle string `toml:"primary_toggle"`
	// Secondary maps a surface kind ("notes", "assistant") to its
	// accelerator. Kinds are open: adding an entry adds a binding.
	Secondary map[string]string `toml:"secondary"`
}

type FocusConfig struct {
	// PollInterval is the UI tick interval in milliseconds for
	// foreground-focus sampling.
	PollInterval int `toml:"poll_interval"`
	// AutoDismiss hides the command window when another application
	// takes OS focus while a dismissable view is showing.
	AutoDismiss bool `toml:"auto_dismiss"`
}

var DefaultConfig = Config{
	AppName:    "kit",
	AppID:      "kit",
	SocketPath: "/tmp/kit_socket",
	ScriptsDir: "~/.config/kit/scripts",
	Prompt: PromptConfig{
		Width:         600,
		Height:        500,
		MaxResults:    25,
		DebounceDelay: 80,
		CacheSize:     128,
		TopMargin:     120,
		HideOnRun:     true,
	},
	Hotkeys: HotkeysConfig{
		PrimaryToggle: "super+space",
		Secondary: map[string]string{
			"notes":     "super+n",
			"assistant": "super+a",
		},
	},
	Focus: FocusConfig{
		PollInterval: 150,
		AutoDismiss:  true,
	},
}

func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.SocketPath = expandPath(cfg.SocketPath)
	cfg.ScriptsDir = expandPath(cfg.ScriptsDir)

	return &cfg, nil
}

func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}

func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(expandedPath, data, 0644)
}

func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("app_id must not be empty")
	}
	if c.SocketPath == "" {
		return fmt.Errorf("socket_path must not be empty")
	}
	if err := c.validatePrompt(); err != nil {
		return err
	}
	if err := c.validateHotkeys(); err != nil {
		return err
	}
	if err := c.validateFocus(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePrompt() error {
	p := c.Prompt
	if p.Width < 100 || p.Width > 4000 {
		return fmt.Errorf("invalid prompt width: %d (must be 100-4000)", p.Width)
	}
	if p.Height < 100 || p.Height > 4000 {
		return fmt.Errorf("invalid prompt height: %d (must be 100-4000)", p.Height)
	}
	if p.MaxResults < 1 || p.MaxResults > 1000 {
		return fmt.Errorf("invalid max_results: %d (must be 1-1000)", p.MaxResults)
	}
	if p.DebounceDelay < 0 || p.DebounceDelay > 5000 {
		return fmt.Errorf("invalid debounce_delay: %d (must be 0-5000ms)", p.DebounceDelay)
	}
	if p.CacheSize < 0 || p.CacheSize > 10000 {
		return fmt.Errorf("invalid cache_size: %d (must be 0-10000)", p.CacheSize)
	}
	return nil
}

func (c *Config) validateHotkeys() error {
	if c.Hotkeys.PrimaryToggle == "" {
		return fmt.Errorf("hotkeys.primary_toggle must not be empty")
	}
	for kind, accel := range c.Hotkeys.Secondary {
		if kind == "" {
			return fmt.Errorf("empty secondary surface kind")
		}
		if accel == "" {
			return fmt.Errorf("empty accelerator for secondary %q", kind)
		}
	}
	return nil
}

func (c *Config) validateFocus() error {
	f := c.Focus
	if f.PollInterval < 20 || f.PollInterval > 5000 {
		return fmt.Errorf("invalid focus poll_interval: %d (must be 20-5000ms)", f.PollInterval)
	}
	return nil
}

func ValidateConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
