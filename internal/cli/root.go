package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/vburojevic/logstat/internal/config"
	"github.com/vburojevic/logstat/internal/logs"
	"github.com/vburojevic/logstat/internal/output"
	"github.com/vburojevic/logstat/internal/pipeline"
)

// CLI is the root command structure for logstat
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"json,text" help:"Output format for status and errors"`
	Quiet   bool   `short:"q" help:"Suppress parse failure notices and run summaries"`
	Verbose bool   `short:"v" help:"Show debug output and report parse failures as structured logs"`

	// Commands
	Run     RunCmd     `cmd:"" default:"withargs" help:"Aggregate access logs into a report"`
	Check   CheckCmd   `cmd:"" help:"Check whether lines match the access log format"`
	Config  ConfigCmd  `cmd:"" help:"Show or manage configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format     string
	Quiet      bool
	Verbose    bool
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Config     *config.Config
	ConfigFile string
	ConfigErr  error // set when the config file failed to load and defaults are in use
	Logger     *zap.Logger
}

// NewParser builds the kong parser with configuration values as flag defaults.
func NewParser(c *CLI, cfg *config.Config, options ...kong.Option) (*kong.Kong, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := []kong.Option{
		kong.Name("logstat"),
		kong.Description("Aggregate web-server access logs into a JSON report\n\nSTART HERE: logstat -p /var/log/nginx"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"config_format":    cfg.Format,
			"config_output":    cfg.Defaults.Output,
			"config_extension": cfg.Defaults.Extension,
			"config_workers":   strconv.Itoa(cfg.Defaults.Workers),
		},
	}
	return kong.New(c, append(opts, options...)...)
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	format := cli.Format
	if format == "" {
		format = cfg.Format
	}
	g := &Globals{
		Format:  format,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	g.Logger = logs.New(logs.Options{
		Verbose: g.Verbose,
		Quiet:   g.Quiet,
		JSON:    cfg.LogFormat == "json",
		Writer:  g.Stderr,
	})
	return g
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// diagnostics picks where parse failures go: nowhere when quiet,
// structured logs when verbose, plain notices on stderr otherwise.
func (g *Globals) diagnostics() pipeline.Diagnostics {
	switch {
	case g.Quiet:
		return pipeline.Discard
	case g.Verbose:
		return pipeline.NewLoggerDiagnostics(g.logger())
	default:
		return pipeline.NewWriterDiagnostics(g.Stderr)
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "json" {
		return output.NewNDJSONWriter(globals.Stdout).WriteMetadata(Version, Commit)
	}
	_, err := fmt.Fprintf(globals.Stdout, "logstat version %s (%s)\n", Version, Commit)
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
