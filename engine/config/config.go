package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/** @brief Defaults applied when the configuration file omits a section. */
const (
	DefaultPivot            = "origin"
	DefaultMaxMaterialCount = 1000
	DefaultMaxGeometryCount = 1000
)

// CombineConfig holds the persisted defaults of the combine tool.
// Runtime options are derived from it and can be overridden per call.
type CombineConfig struct {
	IgnoreHidden bool   `toml:"ignore_hidden"`
	KeepOriginal bool   `toml:"keep_original"`
	Pivot        string `toml:"pivot"`
}

type SystemsConfig struct {
	MaxMaterialCount uint32 `toml:"max_material_count"`
	MaxGeometryCount uint32 `toml:"max_geometry_count"`
}

type Config struct {
	Combine CombineConfig `toml:"combine"`
	Systems SystemsConfig `toml:"systems"`
}

func DefaultConfig() *Config {
	return &Config{
		Combine: CombineConfig{
			IgnoreHidden: false,
			KeepOriginal: false,
			Pivot:        DefaultPivot,
		},
		Systems: SystemsConfig{
			MaxMaterialCount: DefaultMaxMaterialCount,
			MaxGeometryCount: DefaultMaxGeometryCount,
		},
	}
}

// Load reads a TOML configuration file. Missing keys keep their
// defaults; an invalid pivot value is a hard error so a typo does not
// silently fall back to origin mode.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Combine.Pivot {
	case "origin", "selection_center":
	default:
		return fmt.Errorf("invalid pivot mode '%s': expected 'origin' or 'selection_center'", c.Combine.Pivot)
	}
	return nil
}
