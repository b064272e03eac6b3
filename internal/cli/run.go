package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vburojevic/logstat/internal/discovery"
	"github.com/vburojevic/logstat/internal/output"
	"github.com/vburojevic/logstat/internal/pipeline"
)

// RunCmd aggregates access logs into a report
type RunCmd struct {
	Path    string `short:"p" required:"" help:"Log file, or directory searched recursively for log files"`
	Output  string `short:"o" default:"${config_output}" help:"Report destination ('-' for stdout)"`
	Ext     string `short:"e" default:"${config_extension}" help:"File extension selected when --path is a directory"`
	Workers int    `short:"w" default:"${config_workers}" help:"Number of files read in parallel"`
}

// Run executes the run command
func (c *RunCmd) Run(globals *Globals) error {
	ctx := context.Background()
	logger := globals.logger()

	files, err := discovery.Find(c.Path, c.Ext)
	if err != nil {
		return failWith(globals, CodeInvalidPath, err, withHint(hintForPath(err))...)
	}
	logger.Debug("sources discovered", zap.String("path", c.Path), zap.Int("count", len(files)))
	if len(files) == 0 && !globals.Quiet {
		msg := fmt.Sprintf("no files with extension %q under %s", c.Ext, c.Path)
		if globals.Format == "json" {
			output.NewNDJSONWriter(globals.Stdout).WriteWarning(msg)
		} else {
			fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
		}
	}

	runner := pipeline.NewRunner(globals.diagnostics(), logger)
	runner.Workers = c.Workers
	res, err := runner.Run(ctx, files)
	if err != nil {
		return failWith(globals, CodeReadFailed, err, withHint(hintForRead(err))...)
	}

	if c.Output == output.StdoutPath && globals.Format == "text" {
		err = output.NewTextWriter(globals.Stdout).WriteReport(res.Report)
	} else {
		err = output.WriteReportFile(c.Output, globals.Stdout, res.Report)
	}
	if err != nil {
		return failWith(globals, CodeWriteFailed, err, withHint(hintForWrite(err, c.Output))...)
	}

	// stdout carries the report itself when writing to "-"
	if globals.Quiet || c.Output == output.StdoutPath {
		return nil
	}
	summary := output.NewRunSummaryOutput(res.Sources, res.ParsedLines, res.FailedLines, res.Elapsed.Milliseconds(), c.Output)
	if globals.Format == "json" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRunSummary(summary)
	}
	return output.NewTextWriter(globals.Stdout).WriteRunSummary(summary)
}
