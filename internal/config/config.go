// Package config loads and validates the host's runtime settings: the
// server's default planning limits, its tick interval, logging, and
// where projects/scripts are searched for on disk. cmd/mozok reads only
// Server.Name from a loaded Config; no other package reads the
// remaining fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"mozok/internal/questmgr"
)

// PlannerConfig mirrors the defaults a quest gets when a project file
// never sets searchLimit/spaceLimit/omega/heuristic itself.
type PlannerConfig struct {
	SearchLimit int    `yaml:"search_limit"`
	SpaceLimit  int    `yaml:"space_limit"`
	Omega       int    `yaml:"omega"`
	Heuristic   string `yaml:"heuristic"` // "SIMPLE" or "HSP"
}

// ServerConfig holds the server's name and worker-thread settings.
type ServerConfig struct {
	Name          string `yaml:"name"`
	TickInterval  string `yaml:"tick_interval"`   // parsed via time.ParseDuration
	AutoStartWork bool   `yaml:"auto_start_work"` // not read: cmd/mozok always starts the worker
}

// LoggingConfig holds logging settings. internal/logging does not read
// it; it loads its own settings from its workspace config file.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// PathsConfig lists search directories for .quest/.qsf files. Nothing
// searches them: project paths resolve against the script's directory.
type PathsConfig struct {
	SearchPaths []string `yaml:"search_paths"`
}

// Config is the root configuration object, loaded from a YAML file on
// disk and overridable via environment variables.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Planner PlannerConfig `yaml:"planner"`
	Logging LoggingConfig `yaml:"logging"`
	Paths   PathsConfig   `yaml:"paths"`
}

// DefaultConfig returns the configuration used when no file is present
// and no environment overrides apply.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:          "mozok",
			TickInterval:  "40ms",
			AutoStartWork: true,
		},
		Planner: PlannerConfig{
			SearchLimit: questmgr.DefaultSearchLimit,
			SpaceLimit:  questmgr.DefaultSpaceLimit,
			Omega:       questmgr.DefaultOmega,
			Heuristic:   "SIMPLE",
		},
		Logging: LoggingConfig{
			DebugMode:  false,
			Level:      "info",
			JSONFormat: false,
		},
		Paths: PathsConfig{
			SearchPaths: []string{"."},
		},
	}
}

// Load reads path (YAML) and layers it onto DefaultConfig, tolerating
// a missing file. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save marshals cfg back to path as YAML, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MOZOK_SERVER_NAME"); v != "" {
		c.Server.Name = v
	}
	if v := os.Getenv("MOZOK_TICK_INTERVAL"); v != "" {
		c.Server.TickInterval = v
	}
	if v := os.Getenv("MOZOK_SEARCH_LIMIT"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			c.Planner.SearchLimit = n
		}
	}
	if v := os.Getenv("MOZOK_SPACE_LIMIT"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			c.Planner.SpaceLimit = n
		}
	}
	if v := os.Getenv("MOZOK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MOZOK_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

func parsePositiveInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive: %s", s)
	}
	return n, nil
}

// GetTickInterval parses Server.TickInterval, falling back to the
// engine's ONE_QUEST_TICK default on a malformed value.
func (c *Config) GetTickInterval() time.Duration {
	d, err := time.ParseDuration(c.Server.TickInterval)
	if err != nil {
		return 40 * time.Millisecond
	}
	return d
}

// Validate checks that the config describes a usable server.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name must not be empty")
	}
	if _, err := time.ParseDuration(c.Server.TickInterval); err != nil {
		return fmt.Errorf("server.tick_interval %q is not a valid duration: %w", c.Server.TickInterval, err)
	}
	if c.Planner.SearchLimit <= 0 {
		return fmt.Errorf("planner.search_limit must be positive")
	}
	if c.Planner.SpaceLimit <= 0 {
		return fmt.Errorf("planner.space_limit must be positive")
	}
	switch c.Planner.Heuristic {
	case "SIMPLE", "HSP":
	default:
		return fmt.Errorf("planner.heuristic must be SIMPLE or HSP, got %q", c.Planner.Heuristic)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}
