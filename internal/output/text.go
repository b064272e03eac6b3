package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/logstat/internal/domain"
)

// Section titles of the text report.
const (
	SectionIPs          = "Top IPs"
	SectionMethods      = "Methods"
	SectionLongRequests = "Slowest requests"
	SectionClientErrors = "Top client errors"
	SectionServerErrors = "Top server errors"
)

// TextWriter renders reports and notices for people.
type TextWriter struct {
	w     io.Writer
	color bool
}

// NewTextWriter creates a new text writer. Styling is enabled only when w
// is a terminal.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w, color: IsTerminal(w)}
}

func (w *TextWriter) render(style lipgloss.Style, s string) string {
	if !w.color {
		return s
	}
	return style.Render(s)
}

// WriteReport prints the total and one table per ranked view.
func (w *TextWriter) WriteReport(report *domain.Report) error {
	if report == nil {
		report = domain.NewReport()
	}

	line := w.render(Styles.Label, "Total requests: ") + w.render(Styles.Value, strconv.Itoa(report.TotalRequests)) + "\n"
	if _, err := io.WriteString(w.w, line); err != nil {
		return err
	}

	sections := []struct {
		title   string
		column  string
		ranking domain.Ranking
	}{
		{SectionIPs, "Requests", report.TopIPs},
		{SectionMethods, "Requests", report.Methods},
		{SectionLongRequests, "Max time (µs)", report.LongRequests},
		{SectionClientErrors, "Count", report.ClientErrors},
		{SectionServerErrors, "Count", report.ServerErrors},
	}
	for _, s := range sections {
		if err := w.writeSection(s.title, s.column, s.ranking); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextWriter) writeSection(title, column string, ranking domain.Ranking) error {
	if _, err := fmt.Fprintf(w.w, "\n%s\n", w.render(SectionStyle(title), title)); err != nil {
		return err
	}
	if len(ranking) == 0 {
		_, err := io.WriteString(w.w, w.render(Styles.Label, "  (none)")+"\n")
		return err
	}

	table := tablewriter.NewWriter(w.w)
	table.Header("#", "Key", column)
	for i, e := range ranking {
		if err := table.Append([]string{strconv.Itoa(i + 1), e.Key, strconv.FormatInt(e.Value, 10)}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteRecord prints one extracted record.
func (w *TextWriter) WriteRecord(lineIndex int, rec *domain.LogRecord) error {
	_, err := fmt.Fprintf(w.w, "%s line %d: ip=%s method=%s url=%s status=%s time=%d\n",
		w.render(Styles.Success, "OK"), lineIndex, rec.IP, rec.Method, rec.URL, rec.Status, rec.ResponseTimeMicros)
	return err
}

// WriteParseFailure prints one line that could not be extracted.
func (w *TextWriter) WriteParseFailure(lineIndex int, line string) error {
	_, err := fmt.Fprintf(w.w, "%s line %d: %s\n", w.render(Styles.Danger, "FAIL"), lineIndex, line)
	return err
}

// WriteRunSummary prints counters of a finished run.
func (w *TextWriter) WriteRunSummary(s *RunSummaryOutput) error {
	line := w.render(Styles.Label, "Sources: ") + w.render(Styles.Value, strconv.Itoa(s.Sources)) + " | " +
		w.render(Styles.Label, "Parsed: ") + w.render(Styles.Value, strconv.Itoa(s.Parsed)) + " | "
	if s.Failed > 0 {
		line += w.render(Styles.Warning, "Failed: "+strconv.Itoa(s.Failed))
	} else {
		line += w.render(Styles.Label, "Failed: ") + w.render(Styles.Value, "0")
	}
	if s.Output != "" {
		line += " | " + w.render(Styles.Label, "Report: ") + s.Output
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	errorLabel := w.render(Styles.Danger, "Error")
	codeStr := w.render(Styles.Warning, "["+code+"]")
	_, err := io.WriteString(w.w, errorLabel+" "+codeStr+": "+message+"\n")
	return err
}
