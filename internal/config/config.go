package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Backend is the portal API base URL
	Backend string `json:"backend"`

	// PublicBase is the public site base used for canonical share links
	PublicBase string `json:"public_base"`

	// Viewer identity; Token empty means unauthenticated
	ViewerID string `json:"viewer_id,omitempty"`
	Token    string `json:"token,omitempty"`

	// Timing overrides, in whole seconds
	Timing TimingConfig `json:"timing"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// TimingConfig controls the presentation delays. All values are whole
// seconds; zero falls back to the default.
type TimingConfig struct {
	FirstItemDelaySeconds    int `json:"first_item_delay_seconds"`
	BetweenItemsDelaySeconds int `json:"between_items_delay_seconds"`
	RequestTimeoutSeconds    int `json:"request_timeout_seconds"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	// ShowCounters hides the interaction counter row when false.
	ShowCounters bool `json:"show_counters"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend:    "http://localhost:8097",
		PublicBase: "http://localhost:8097",
		Timing: TimingConfig{
			FirstItemDelaySeconds:    3,
			BetweenItemsDelaySeconds: 1,
			RequestTimeoutSeconds:    10,
		},
		UI: UIConfig{
			ShowCounters: true,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".citygate", "config.json")
}

// Load reads config from disk, or returns defaults. Environment variables
// override file values either way.
func Load() (*Config, error) {
	path := ConfigPath()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
	}
	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the token
}

// AutoPopulateFromEnv fills in connection settings from environment
// variables
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("CITYGATE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("CITYGATE_PUBLIC_BASE"); v != "" {
		c.PublicBase = v
	}
	if v := os.Getenv("CITYGATE_VIEWER"); v != "" {
		c.ViewerID = v
	}
	if v := os.Getenv("CITYGATE_TOKEN"); v != "" {
		c.Token = v
	}
}

// Bearer returns the credential sent as the Authorization bearer: the
// session token when present, else the bare viewer ID. The development
// daemon accepts either; the production portal only honors real tokens.
func (c *Config) Bearer() string {
	if c.Token != "" {
		return c.Token
	}
	return c.ViewerID
}

// Authenticated reports whether the viewer holds any portal identity.
func (c *Config) Authenticated() bool {
	return c.Bearer() != ""
}

// RequestTimeout returns the HTTP timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	secs := c.Timing.RequestTimeoutSeconds
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

// FirstItemDelay returns the pre-queue delay in seconds.
func (c *Config) FirstItemDelay() int {
	if c.Timing.FirstItemDelaySeconds <= 0 {
		return 3
	}
	return c.Timing.FirstItemDelaySeconds
}

// BetweenItemsDelay returns the inter-item delay in seconds.
func (c *Config) BetweenItemsDelay() int {
	if c.Timing.BetweenItemsDelaySeconds <= 0 {
		return 1
	}
	return c.Timing.BetweenItemsDelaySeconds
}
