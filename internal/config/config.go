// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for ringsight.
type Config struct {
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	APIToken       string `mapstructure:"api_token" yaml:"api_token"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("ringsight")

	// Set defaults (api_url has no default - it's required)
	v.SetDefault("api_token", "")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Setup ENV binding with RINGSIGHT_ prefix
	v.SetEnvPrefix("RINGSIGHT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better int parsing
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	if err := v.BindEnv("api_url", "RINGSIGHT_API_URL"); err != nil {
		return nil, fmt.Errorf("binding api_url env: %w", err)
	}
	if err := v.BindEnv("api_token", "RINGSIGHT_API_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding api_token env: %w", err)
	}
	if err := v.BindEnv("request_timeout_seconds", "RINGSIGHT_REQUEST_TIMEOUT_SECONDS"); err != nil {
		return nil, fmt.Errorf("binding request_timeout_seconds env: %w", err)
	}
	if err := v.BindEnv("log_level", "RINGSIGHT_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("binding log_level env: %w", err)
	}
	if err := v.BindEnv("log_file", "RINGSIGHT_LOG_FILE"); err != nil {
		return nil, fmt.Errorf("binding log_file env: %w", err)
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for API calls.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required (set it in %s or RINGSIGHT_API_URL)", GlobalPath())
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not a valid URL", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be > 0, got %d", c.RequestTimeout)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/ringsight/ringsight.yml or $XDG_CONFIG_HOME/ringsight/ringsight.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ringsight", "ringsight.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ringsight", "ringsight.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./ringsight.yml in the current working directory.
func ProjectPath() string {
	return "ringsight.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return writeFile(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// 0600: the file may hold an API token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
