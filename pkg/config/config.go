// Package config provides configuration loading and management for flexagen.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input parameters
	Input struct {
		// Extensions is the lookup order for source files 1.<ext> .. 6.<ext>
		Extensions []string `yaml:"extensions"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// Workers is how many goroutines cut source images; 1 is sequential,
		// negative values use all CPU cores
		Workers int `yaml:"workers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is where the sheets are written, the working directory by default
		Dir string `yaml:"dir"`

		// Front and Back are the PNG file names of the two sheets
		Front string `yaml:"front"`
		Back  string `yaml:"back"`

		// Background is the canvas underlay as #rrggbb or #rrggbbaa
		Background string `yaml:"background"`

		// PDF enables the printable two-page PDF
		PDF bool `yaml:"pdf"`

		// PDFName is the file name of the PDF
		PDFName string `yaml:"pdfName"`

		// PDFSheetMM is the printed side of a sheet in millimetres
		PDFSheetMM float64 `yaml:"pdfSheetMM"`

		// SaveQuadrants writes every rotated quadrant for inspection
		SaveQuadrants bool `yaml:"saveQuadrants"`

		// QuadrantDir is where quadrants go when SaveQuadrants is set
		QuadrantDir string `yaml:"quadrantDir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

	cfg.Processing.Workers = 1

	cfg.Output.Dir = "."
	cfg.Output.Front = "front.png"
	cfg.Output.Back = "back.png"
	cfg.Output.Background = "#ffffff"
	cfg.Output.PDF = false
	cfg.Output.PDFName = "flexagon.pdf"
	cfg.Output.PDFSheetMM = 180
	cfg.Output.SaveQuadrants = false
	cfg.Output.QuadrantDir = "quadrants"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	if _, err := ParseColor(c.Output.Background); err != nil {
		return err
	}
	if c.Output.Front == "" || c.Output.Back == "" {
		return fmt.Errorf("output file names must not be empty")
	}
	if c.Output.Front == c.Output.Back {
		return fmt.Errorf("front and back share the file name %q", c.Output.Front)
	}
	if c.Output.PDF && c.Output.PDFSheetMM <= 0 {
		return fmt.Errorf("pdfSheetMM must be positive, got %g", c.Output.PDFSheetMM)
	}
	return nil
}

// BackgroundColor returns the parsed background colour
func (c *Config) BackgroundColor() (color.RGBA, error) {
	return ParseColor(c.Output.Background)
}

// ParseColor parses #rrggbb or #rrggbbaa. Colours without alpha are opaque.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}

	// color.RGBA is alpha-premultiplied
	a := uint32(v & 0xff)
	premul := func(c uint32) uint8 { return uint8(c * a / 0xff) }
	return color.RGBA{
		R: premul(uint32(v >> 24 & 0xff)),
		G: premul(uint32(v >> 16 & 0xff)),
		B: premul(uint32(v >> 8 & 0xff)),
		A: uint8(a),
	}, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
