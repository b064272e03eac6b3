package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vburojevic/logstat/internal/domain"
)

// DefaultReportFile is where the report is written when no output is given.
const DefaultReportFile = "logstat.json"

// StdoutPath selects standard output as the report destination.
const StdoutPath = "-"

// reportIndent matches the four-space layout of the report document.
const reportIndent = "    "

// WriteReportJSON writes the report as an indented JSON document. Ranked
// views keep their rank order.
func WriteReportJSON(w io.Writer, report *domain.Report) error {
	if report == nil {
		report = domain.NewReport()
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", reportIndent)
	return enc.Encode(report)
}

// WriteReportFile writes the report to path, replacing any existing file.
// StdoutPath writes to stdout instead.
func WriteReportFile(path string, stdout io.Writer, report *domain.Report) (err error) {
	if path == StdoutPath {
		return WriteReportJSON(stdout, report)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report %s: %w", path, cerr)
		}
	}()

	if err := WriteReportJSON(f, report); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
