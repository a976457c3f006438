package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/Nutripedia/internal/food"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Data    DataConfig   `yaml:"data" json:"data"`
	View    ViewConfig   `yaml:"view" json:"view"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Server  ServerConfig `yaml:"server" json:"server"`
}

// DataConfig locates the dataset and analyses documents
type DataConfig struct {
	Base         string        `yaml:"base" json:"base"`                   // directory or http(s) URL
	Dataset      string        `yaml:"dataset" json:"dataset"`             // relative to base unless absolute
	Analyses     string        `yaml:"analyses" json:"analyses"`           // relative to base unless absolute
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"` // 0 waits indefinitely
	Watch        bool          `yaml:"watch" json:"watch"`                 // reload when local files change
}

// ViewConfig configures the catalogue table
type ViewConfig struct {
	Columns          []food.Column `yaml:"columns" json:"columns"`
	DefaultSort      string        `yaml:"default_sort" json:"default_sort"`           // column key, empty for dataset order
	DefaultDirection string        `yaml:"default_direction" json:"default_direction"` // asc|desc
	ShowSummary      bool          `yaml:"show_summary" json:"show_summary"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"`     // text|json|csv|markdown|xlsx
	ColorMode       string `yaml:"color_mode" json:"color_mode"`             // auto|always|never
	Verbose         bool   `yaml:"verbose" json:"verbose"`                   // default verbosity
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"` // time format string
	Emoji           bool   `yaml:"emoji" json:"emoji"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address     string   `yaml:"address" json:"address"`
	Mode        string   `yaml:"mode" json:"mode"` // debug|release|test
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			Base:         ".",
			Dataset:      "analyses/food_data.json",
			Analyses:     "analyses/summary_analyses.json",
			FetchTimeout: 0,
			Watch:        false,
		},
		View: ViewConfig{
			Columns:          food.DefaultColumns(),
			DefaultSort:      "",
			DefaultDirection: "desc",
			ShowSummary:      true,
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			Verbose:         false,
			TimestampFormat: "2006-01-02 15:04:05",
			Emoji:           true,
		},
		Server: ServerConfig{
			Address:     "localhost:8080",
			Mode:        "release",
			CORSOrigins: []string{"*"},
		},
	}
}

// InitialState is the view state a fresh session starts from
func (c *Config) InitialState() food.ViewState {
	state := food.ViewState{SortKey: c.View.DefaultSort}
	if dir, err := food.ParseDirection(c.View.DefaultDirection); err == nil {
		state.Direction = dir
	}
	return state
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateDataConfig(); err != nil {
		return err
	}
	if err := c.validateViewConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	return nil
}

// validateDataConfig validates data source configuration
func (c *Config) validateDataConfig() error {
	if c.Data.Dataset == "" {
		return fmt.Errorf("data.dataset must not be empty")
	}
	if c.Data.Analyses == "" {
		return fmt.Errorf("data.analyses must not be empty")
	}
	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}
	for _, loc := range []string{c.Data.Base, c.Data.Dataset, c.Data.Analyses} {
		if !isRemote(loc) {
			continue
		}
		u, err := url.Parse(loc)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid data URL: %s", loc)
		}
	}
	return nil
}

// validateViewConfig validates table configuration
func (c *Config) validateViewConfig() error {
	seen := make(map[string]bool, len(c.View.Columns))
	for i, col := range c.View.Columns {
		if col.Key == "" || col.Label == "" {
			return fmt.Errorf("view.columns[%d] needs both key and label", i)
		}
		if seen[col.Key] {
			return fmt.Errorf("duplicate column key: %s", col.Key)
		}
		seen[col.Key] = true
	}

	if c.View.DefaultSort != "" {
		if c.View.DefaultSort == food.NameKey {
			return fmt.Errorf("default_sort: the %s column is not sortable", food.NameKey)
		}
		if len(c.View.Columns) > 0 && !seen[c.View.DefaultSort] {
			return fmt.Errorf("default_sort %s is not a configured column", c.View.DefaultSort)
		}
	}
	if c.View.DefaultDirection != "" {
		if _, err := food.ParseDirection(c.View.DefaultDirection); err != nil {
			return fmt.Errorf("invalid default direction: %s (must be one of: asc, desc)", c.View.DefaultDirection)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
			"xlsx":     true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv, xlsx)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateServerConfig validates HTTP API configuration
func (c *Config) validateServerConfig() error {
	if c.Server.Mode != "" {
		validModes := map[string]bool{
			"debug":   true,
			"release": true,
			"test":    true,
		}
		if !validModes[c.Server.Mode] {
			return fmt.Errorf("invalid server mode: %s (must be one of: debug, release, test)", c.Server.Mode)
		}
	}
	if c.Server.Address != "" && !strings.Contains(c.Server.Address, ":") {
		return fmt.Errorf("server address must be host:port, got %s", c.Server.Address)
	}
	return nil
}

func isRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}
