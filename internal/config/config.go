// Package config provides YAML-based configuration loading for pivotboard.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voss/pivotboard/internal/pivot"
)

// Config is the top-level pivotboard configuration, loaded from
// pivotboard.yaml.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Board    BoardConfig     `yaml:"board"`
	Projects []ProjectConfig `yaml:"projects"`
}

// ServerConfig holds listen settings for the board API.
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

// DatabaseConfig selects and configures the storage backend. Driver is
// "sqlite" for local mode or "mysql" for a shared deployment.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"`
}

// BoardConfig holds display and paging policy for the pivot view.
type BoardConfig struct {
	DefaultPerPage  int      `yaml:"default_per_page"`
	MaxPerPage      int      `yaml:"max_per_page"`
	PinnedGroups    []string `yaml:"pinned_groups"`
	EmptyPinned     string   `yaml:"empty_pinned"`
	RefreshSchedule string   `yaml:"refresh_schedule"`
}

// ProjectConfig registers a project the board serves.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "pivotboard.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Database == "" {
		c.Database.Database = "pivotboard"
	}
	if c.Board.DefaultPerPage == 0 {
		c.Board.DefaultPerPage = 50
	}
	if c.Board.MaxPerPage == 0 {
		c.Board.MaxPerPage = 200
	}
	if c.Board.EmptyPinned == "" {
		c.Board.EmptyPinned = string(pivot.ShowEmptyFirstPage)
	}
	if c.Board.RefreshSchedule == "" {
		c.Board.RefreshSchedule = "*/5 * * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or mysql", c.Database.Driver))
	}
	switch pivot.VisibilityPolicy(c.Board.EmptyPinned) {
	case pivot.ShowEmptyFirstPage, pivot.ShowEmptyAlways, pivot.ShowEmptyNever:
	default:
		errs = append(errs, fmt.Sprintf("board.empty_pinned %q must be firstPageOnly, always, or never", c.Board.EmptyPinned))
	}
	if c.Board.DefaultPerPage > c.Board.MaxPerPage {
		errs = append(errs, "board.default_per_page must not exceed board.max_per_page")
	}
	for i, p := range c.Projects {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("projects[%d].name is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// VisibilityPolicy returns the configured empty-pinned policy.
func (c *Config) VisibilityPolicy() pivot.VisibilityPolicy {
	return pivot.ParseVisibilityPolicy(c.Board.EmptyPinned)
}
