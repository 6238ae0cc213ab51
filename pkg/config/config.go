// Package config holds tool configuration, loadable from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/isric/go-stac-soilgrids/pkg/soilgrids"
)

// Config captures the tunable behavior of the CLI.
type Config struct {
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`

	GDAL   GDAL   `yaml:"gdal"`
	Tiling Tiling `yaml:"tiling"`

	// Properties restricts dataset processing to a subset of soil
	// property codes. Empty means all properties.
	Properties []string `yaml:"properties"`
}

// GDAL configures how the GDAL binaries are located.
type GDAL struct {
	// BinDir resolves the GDAL tools relative to a directory instead of
	// PATH.
	BinDir string `yaml:"bin_dir"`
}

// Tiling configures the retile step.
type Tiling struct {
	PixelWidth  int `yaml:"pixel_width"`
	PixelHeight int `yaml:"pixel_height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Tiling: Tiling{
			PixelWidth:  soilgrids.TilingPixelSize[0],
			PixelHeight: soilgrids.TilingPixelSize[1],
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.Tiling.PixelWidth <= 0 || c.Tiling.PixelHeight <= 0 {
		return fmt.Errorf("tiling pixel size must be positive, got %dx%d", c.Tiling.PixelWidth, c.Tiling.PixelHeight)
	}
	for _, prop := range c.Properties {
		if _, ok := soilgrids.Properties[prop]; !ok {
			return fmt.Errorf("unknown soil property %q", prop)
		}
	}
	return nil
}

// PixelSize returns the configured tile size.
func (c Config) PixelSize() [2]int {
	return [2]int{c.Tiling.PixelWidth, c.Tiling.PixelHeight}
}
