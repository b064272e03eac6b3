package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOGSTAT_FORMAT.
const EnvPrefix = "LOGSTAT"

// ConfigEnv names a config file that replaces the search.
const ConfigEnv = EnvPrefix + "_CONFIG"

// Config holds application configuration
type Config struct {
	// Global settings
	Format    string `mapstructure:"format"`
	Quiet     bool   `mapstructure:"quiet"`
	Verbose   bool   `mapstructure:"verbose"`
	LogFormat string `mapstructure:"log_format"`

	// Default values for the run command
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for the run command
type DefaultsConfig struct {
	Output    string `mapstructure:"output"`
	Extension string `mapstructure:"extension"`
	Workers   int    `mapstructure:"workers"`
}

// Meta describes where the loaded configuration came from.
type Meta struct {
	ConfigFile string
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:    "json",
		Quiet:     false,
		Verbose:   false,
		LogFormat: "console",
		Defaults: DefaultsConfig{
			Output:    "logstat.json",
			Extension: ".log",
			Workers:   1,
		},
	}
}

// Validate rejects values the commands cannot use.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q: want json or text", c.Format)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want console or json", c.LogFormat)
	}
	if c.Defaults.Workers < 1 {
		return fmt.Errorf("invalid defaults.workers %d: must be at least 1", c.Defaults.Workers)
	}
	if c.Defaults.Output == "" {
		return fmt.Errorf("defaults.output must not be empty")
	}
	return nil
}

// LoadWithMeta loads configuration from files and environment and reports
// the file used. LOGSTAT_CONFIG names the file explicitly; otherwise the
// search order (highest precedence first) is:
// 1. ./.logstat.yaml or ./.logstat.yml
// 2. ~/.logstat.yaml or ~/.logstat.yml
// 3. $XDG_CONFIG_HOME/logstat/config.yaml (or ~/.config/logstat/config.yaml)
// 4. /etc/logstat/config.yaml
func LoadWithMeta() (*Config, *Meta, error) {
	if path := os.Getenv(ConfigEnv); path != "" {
		cfg, err := LoadFromFile(path)
		if err != nil {
			return nil, nil, err
		}
		return cfg, &Meta{ConfigFile: path}, nil
	}

	meta := &Meta{ConfigFile: findConfigFile()}
	cfg, err := load(meta.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, meta, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper registers every key with its default so nested keys can be
// overridden from the environment, e.g. LOGSTAT_DEFAULTS_WORKERS.
func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("format", d.Format)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("defaults.output", d.Defaults.Output)
	v.SetDefault("defaults.extension", d.Defaults.Extension)
	v.SetDefault("defaults.workers", d.Defaults.Workers)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// applyEnvOverrides applies the short environment aliases
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "_OUTPUT"); v != "" {
		cfg.Defaults.Output = v
	}
	if v := os.Getenv(EnvPrefix + "_EXT"); v != "" {
		cfg.Defaults.Extension = v
	}
	if v := os.Getenv(EnvPrefix + "_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s_WORKERS %q: %w", EnvPrefix, v, err)
		}
		cfg.Defaults.Workers = n
	}
	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}

	names := []string{".logstat.yaml", ".logstat.yml", "logstat.yaml", "logstat.yml"}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		for _, name := range names {
			candidates = append(candidates, filepath.Join(cwd, name))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range names {
			candidates = append(candidates, filepath.Join(home, name))
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "logstat", "config.yaml"))
	}
	candidates = append(candidates, "/etc/logstat/config.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
