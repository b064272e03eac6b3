package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/vburojevic/logstat/internal/output"
	"github.com/vburojevic/logstat/internal/parser"
)

// CheckCmd reports whether lines match the access log format
type CheckCmd struct {
	Lines []string `arg:"" optional:"" help:"Lines to check (read from stdin when omitted)"`
}

// Run executes the check command
func (c *CheckCmd) Run(globals *Globals) error {
	lines := c.Lines
	if len(lines) == 0 {
		var err error
		if lines, err = readLines(globals); err != nil {
			return failWith(globals, CodeReadFailed, err)
		}
	}

	ndjson := output.NewNDJSONWriter(globals.Stdout)
	text := output.NewTextWriter(globals.Stdout)
	extractor := parser.NewExtractor()

	failed := 0
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		rec, err := extractor.Extract(line)

		var werr error
		switch {
		case err != nil && globals.Format == "json":
			failed++
			werr = ndjson.WriteParseFailure("", i, line)
		case err != nil:
			failed++
			werr = text.WriteParseFailure(i, line)
		case globals.Format == "json":
			werr = ndjson.WriteRecord(i, rec)
		default:
			werr = text.WriteRecord(i, rec)
		}
		if werr != nil {
			return werr
		}
	}

	if failed > 0 {
		return outputErrorCommon(globals, CodeParseFailed, fmt.Sprintf("%d of %d lines did not match", failed, len(lines)))
	}
	return nil
}

func readLines(globals *Globals) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(globals.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
