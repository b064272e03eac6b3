package cli

import (
	"fmt"

	"github.com/vburojevic/logstat/internal/config"
	"github.com/vburojevic/logstat/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	if globals.ConfigErr != nil {
		return failWith(globals, CodeConfigError, globals.ConfigErr, "Fix or remove "+globals.ConfigFile+"; run 'logstat config generate' for a valid sample")
	}

	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "json" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"format":        cfg.Format,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"log_format":    cfg.LogFormat,
			"defaults": map[string]interface{}{
				"output":    cfg.Defaults.Output,
				"extension": cfg.Defaults.Extension,
				"workers":   cfg.Defaults.Workers,
			},
			"config_file": globals.ConfigFile,
		})
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintf(globals.Stdout, "  format:     %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:      %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose:    %v\n", cfg.Verbose)
	fmt.Fprintf(globals.Stdout, "  log_format: %s\n", cfg.LogFormat)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Defaults:")
	fmt.Fprintf(globals.Stdout, "  output:    %s\n", cfg.Defaults.Output)
	fmt.Fprintf(globals.Stdout, "  extension: %s\n", cfg.Defaults.Extension)
	fmt.Fprintf(globals.Stdout, "  workers:   %d\n", cfg.Defaults.Workers)

	if globals.ConfigFile != "" {
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", globals.ConfigFile)
	}
	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := globals.ConfigFile
	if path == "" {
		path = config.ConfigFile()
	}

	if globals.Format == "json" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.logstat.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.logstat.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/logstat/config.yaml")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Or name one with LOGSTAT_CONFIG.")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

const sampleConfig = `# logstat configuration file
# Place this file at ./.logstat.yaml, ~/.logstat.yaml or ~/.config/logstat/config.yaml

# Status and error output: "json" (default) or "text"
format: json

# Suppress parse failure notices and run summaries
quiet: false

# Debug logging; parse failures become structured warnings
verbose: false

# Diagnostic log encoding on stderr: "console" or "json"
log_format: console

# Default values for the run command
defaults:
  # Report destination ("-" writes to stdout)
  output: logstat.json

  # Extension selected when --path is a directory
  extension: .log

  # Files read in parallel
  workers: 1
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}
