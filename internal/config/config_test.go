package config

import (
	"testing"
	"time"

	"github.com/yildizm/Nutripedia/internal/food"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Data.Dataset != "analyses/food_data.json" {
		t.Errorf("Expected default dataset path, got %s", cfg.Data.Dataset)
	}
	if cfg.Data.Analyses != "analyses/summary_analyses.json" {
		t.Errorf("Expected default analyses path, got %s", cfg.Data.Analyses)
	}
	if cfg.Data.FetchTimeout != 0 {
		t.Errorf("Expected no fetch timeout by default, got %v", cfg.Data.FetchTimeout)
	}
	if cfg.View.DefaultDirection != "desc" {
		t.Errorf("Expected default direction desc, got %s", cfg.View.DefaultDirection)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if len(cfg.View.Columns) != len(food.DefaultColumns()) {
		t.Errorf("Expected %d columns, got %d", len(food.DefaultColumns()), len(cfg.View.Columns))
	}
	if !cfg.View.ShowSummary {
		t.Error("Expected summary to be shown by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid output format",
			modify:  func(c *Config) { c.Output.DefaultFormat = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format: invalid (must be one of: json, text, markdown, csv, xlsx)",
		},
		{
			name:    "invalid color mode",
			modify:  func(c *Config) { c.Output.ColorMode = "invalid" },
			wantErr: true,
			errMsg:  "invalid color mode: invalid (must be one of: auto, always, never)",
		},
		{
			name:    "empty dataset",
			modify:  func(c *Config) { c.Data.Dataset = "" },
			wantErr: true,
			errMsg:  "data.dataset must not be empty",
		},
		{
			name:    "negative fetch timeout",
			modify:  func(c *Config) { c.Data.FetchTimeout = -time.Second },
			wantErr: true,
			errMsg:  "fetch_timeout must be non-negative",
		},
		{
			name:    "url without host",
			modify:  func(c *Config) { c.Data.Base = "https://" },
			wantErr: true,
			errMsg:  "invalid data URL: https://",
		},
		{
			name:    "remote base",
			modify:  func(c *Config) { c.Data.Base = "https://example.org/nutripedia/" },
			wantErr: false,
		},
		{
			name:    "name column as default sort",
			modify:  func(c *Config) { c.View.DefaultSort = food.NameKey },
			wantErr: true,
			errMsg:  "default_sort: the food column is not sortable",
		},
		{
			name:    "default sort outside columns",
			modify:  func(c *Config) { c.View.DefaultSort = "Sodium" },
			wantErr: true,
			errMsg:  "default_sort Sodium is not a configured column",
		},
		{
			name:    "invalid direction",
			modify:  func(c *Config) { c.View.DefaultDirection = "sideways" },
			wantErr: true,
			errMsg:  "invalid default direction: sideways (must be one of: asc, desc)",
		},
		{
			name: "duplicate column",
			modify: func(c *Config) {
				c.View.Columns = append(c.View.Columns, food.Column{Key: "Fat", Label: "Fat again"})
			},
			wantErr: true,
			errMsg:  "duplicate column key: Fat",
		},
		{
			name:    "column without label",
			modify:  func(c *Config) { c.View.Columns = []food.Column{{Key: "Fat"}} },
			wantErr: true,
			errMsg:  "view.columns[0] needs both key and label",
		},
		{
			name:    "invalid server mode",
			modify:  func(c *Config) { c.Server.Mode = "prod" },
			wantErr: true,
			errMsg:  "invalid server mode: prod (must be one of: debug, release, test)",
		},
		{
			name:    "address without port",
			modify:  func(c *Config) { c.Server.Address = "localhost" },
			wantErr: true,
			errMsg:  "server address must be host:port, got localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Errorf("Expected error message '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.View.DefaultSort = "Protein"
	cfg.View.DefaultDirection = "desc"

	state := cfg.InitialState()
	if state.SortKey != "Protein" || state.Direction != food.Descending || state.Filter != "" {
		t.Errorf("Unexpected initial state: %+v", state)
	}

	if DefaultConfig().InitialState().Sorted() {
		t.Error("Default config should start without an active sort")
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, content := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
				t.Fatalf("Sample config does not parse: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Sample config is not valid: %v", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "relative path",
			input:    "./config.yaml",
			expected: "./config.yaml",
		},
		{
			name:     "absolute path",
			input:    "/etc/nutripedia/config.yaml",
			expected: "/etc/nutripedia/config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := expandPath(tt.input); result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}

	if result := expandPath("~/.config/nutripedia/config.yaml"); result == "~/.config/nutripedia/config.yaml" {
		t.Errorf("Expected path to be expanded, but got same path")
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.nutripedia.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if paths[1] == "~/.config/nutripedia/config.yaml" {
		t.Errorf("Expected user config path to be expanded")
	}
	if paths[2] != "/etc/nutripedia/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}
