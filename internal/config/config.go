package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neboloop/websession/internal/browser"
	"github.com/neboloop/websession/internal/defaults"
)

// Config is the websession config file.
type Config struct {
	browser.Config `yaml:",inline"`

	// Backend is "primary" or "alternate".
	Backend browser.BackendKind `yaml:"backend"`

	// WaitTimeout is the default element wait timeout.
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	dir, err := defaults.DownloadDir()
	if err != nil {
		dir = "downloads"
	}
	return Config{
		Config:      browser.DefaultConfig(dir),
		Backend:     browser.BackendPrimary,
		WaitTimeout: browser.DefaultWaitTimeout,
	}
}

// LoadFromBytes loads configuration from YAML bytes with environment
// variable expansion. Keys missing from data keep their defaults.
func LoadFromBytes(data []byte) (Config, error) {
	c := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if c.WaitTimeout < 0 {
		return c, fmt.Errorf("%w: negative wait_timeout", browser.ErrInvalidConfig)
	}
	return c, c.Validate()
}

// Load reads the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadDefault loads the config file from the data directory, falling
// back to Default when it does not exist.
func LoadDefault() (Config, error) {
	path, err := defaults.ConfigPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
