// Package config loads the library configuration from a YAML file over
// built-in defaults. Configuration is read once at startup; components
// receive their sections at construction and never re-read them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/tokensave/cache"
	"github.com/BaSui01/tokensave/delta"
)

// Config is the full tokensave configuration.
type Config struct {
	Cache cache.Config `yaml:"cache" json:"cache"`
	Delta delta.Config `yaml:"delta" json:"delta"`
	Log   LogConfig    `yaml:"log" json:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: cache.DefaultConfig(),
		Delta: delta.DefaultConfig(),
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads a YAML file and overlays it on the defaults. Fields absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
