package main

import (
	"fmt"
	"os"

	"github.com/vburojevic/logstat/internal/cli"
	"github.com/vburojevic/logstat/internal/config"
)

const quickStart = `logstat - access log statistics

START HERE:
  logstat -p /var/log/nginx

Flags:
  -p    Log file, or directory searched recursively for *.log files
  -o    Report destination (default logstat.json, '-' for stdout)

Other useful commands:
  logstat check '<line>'               Test a line against the log format
  logstat config generate              Print a sample config file
  logstat --help                       Full usage
`

func main() {
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	cfg, meta, cfgErr := config.LoadWithMeta()
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", cfgErr)
		cfg = config.Default()
		meta = &config.Meta{ConfigFile: config.ConfigFile()}
	}

	var c cli.CLI
	parser, err := cli.NewParser(&c, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logstat: %v\n", err)
		os.Exit(2)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	globals.ConfigFile = meta.ConfigFile
	globals.ConfigErr = cfgErr

	err = ctx.Run(globals)
	_ = globals.Logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
