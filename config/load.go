package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
)

const DefaultConfigPath = "~/.lakehouse/lakehouse.hcl"

// Load reads and parses the config file at the given path.
// An empty path means the default location; a missing file at the default
// location is not an error - the compiled-in defaults apply.
func Load(configPath string) (*Config, error) {
	usingDefaultPath := configPath == "" || configPath == DefaultConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	fullPath, err := homedir.Expand(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", configPath, err)
	}

	contents, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) && usingDefaultPath {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", fullPath, err)
	}

	var cfg Config
	if err := ParseConfig(contents, fullPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
