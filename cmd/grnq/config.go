package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the TOML configuration file:
//
//	address     = "localhost:10043"
//	protocol    = "gqtp"
//	output_type = "json"
//	timeout     = "5s"
//	token       = "secret"
//	rate_limit  = 50.0
type fileConfig struct {
	Address    string  `toml:"address"`
	Protocol   string  `toml:"protocol"`
	OutputType string  `toml:"output_type"`
	Timeout    string  `toml:"timeout"`
	Token      string  `toml:"token"`
	RateLimit  float64 `toml:"rate_limit"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/grnq/config.toml, falling back
// to the platform config directory.
func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "grnq", "config.toml")
}

// loadFileConfig reads path. A missing file yields an empty config unless
// required is set.
func loadFileConfig(path string, required bool) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config timeout: %w", err)
	}
	return d, nil
}
