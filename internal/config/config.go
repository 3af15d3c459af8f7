// Package config holds the tool settings shared by the skinbind commands.
// Values come from an optional JSON or YAML file, then SKINBIND_* environment
// variables, then command-line flags; anything still unset gets a default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"skinbind/internal/bind"
	"skinbind/internal/constraint"
)

// Config holds bind, render and logging settings.
type Config struct {
	Method    string `json:"method" yaml:"method"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Constraint export shape
	Vendor     string `json:"vendor" yaml:"vendor"`
	EulerOrder string `json:"euler_order" yaml:"euler_order"`

	// Render settings for debug images
	RenderSize  int        `json:"render_size" yaml:"render_size"`
	Supersample int        `json:"supersample" yaml:"supersample"`
	View        [3]float64 `json:"view" yaml:"view"`

	// Batch settings
	Workers int `json:"workers" yaml:"workers"`
	// Models receiving at least this many samples get a k-d tree vertex index.
	IndexThreshold int `json:"index_threshold" yaml:"index_threshold"`

	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`

	strategy bind.Strategy
	export   constraint.Export
}

// Load reads a config file, choosing the decoder by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Method      string
	OutputDir   string
	Vendor      string
	EulerOrder  string
	RenderSize  int
	Supersample int
	Workers     int
	LogLevel    string
	LogFormat   string
}

// Resolve applies environment overrides, then flags, then defaults, and
// validates the bind method.
func (c *Config) Resolve(flags Flags) error {
	c.applyEnv()

	// CLI flags override config file and environment
	if flags.Method != "" {
		c.Method = flags.Method
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Vendor != "" {
		c.Vendor = flags.Vendor
	}
	if flags.EulerOrder != "" {
		c.EulerOrder = flags.EulerOrder
	}
	if flags.RenderSize > 0 {
		c.RenderSize = flags.RenderSize
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.LogFormat = flags.LogFormat
	}

	if c.Method == "" {
		c.Method = bind.ClosestFace.String()
	}
	if c.OutputDir == "" {
		c.OutputDir = "binds"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.IndexThreshold <= 0 {
		c.IndexThreshold = 2
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	s, err := bind.ParseStrategy(c.Method)
	if err != nil {
		return fmt.Errorf("config: method: %w", err)
	}
	c.strategy = s

	if c.export.Vendor, err = constraint.ParseVendor(c.Vendor); err != nil {
		return fmt.Errorf("config: vendor: %w", err)
	}
	if c.export.Order, err = constraint.ParseEulerOrder(c.EulerOrder); err != nil {
		return fmt.Errorf("config: euler order: %w", err)
	}
	return nil
}

// Strategy returns the parsed bind method. Valid after Resolve.
func (c Config) Strategy() bind.Strategy {
	return c.strategy
}

// Export returns the parsed constraint export shape. Valid after Resolve.
func (c Config) Export() constraint.Export {
	return c.export
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SKINBIND_METHOD"); v != "" {
		c.Method = v
	}
	if v := os.Getenv("SKINBIND_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("SKINBIND_VENDOR"); v != "" {
		c.Vendor = v
	}
	if v := os.Getenv("SKINBIND_EULER_ORDER"); v != "" {
		c.EulerOrder = v
	}
	if v := os.Getenv("SKINBIND_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("SKINBIND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SKINBIND_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}
