package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Diagnostics receives lines that could not be extracted. lineIndex is
// zero-based within source.
type Diagnostics interface {
	ParseFailure(source string, lineIndex int, line string)
}

// WriterDiagnostics prints one human-readable notice per failed line.
type WriterDiagnostics struct {
	w io.Writer
}

// NewWriterDiagnostics creates a sink writing to w.
func NewWriterDiagnostics(w io.Writer) *WriterDiagnostics {
	return &WriterDiagnostics{w: w}
}

func (d *WriterDiagnostics) ParseFailure(_ string, lineIndex int, line string) {
	fmt.Fprintf(d.w, "Cannot parse line no %d: %s\n", lineIndex, line)
}

// LoggerDiagnostics reports failed lines as structured warnings.
type LoggerDiagnostics struct {
	logger *zap.Logger
}

// NewLoggerDiagnostics creates a sink logging through logger.
func NewLoggerDiagnostics(logger *zap.Logger) *LoggerDiagnostics {
	return &LoggerDiagnostics{logger: logger}
}

func (d *LoggerDiagnostics) ParseFailure(source string, lineIndex int, line string) {
	d.logger.Warn("cannot parse line",
		zap.String("source", source),
		zap.Int("line", lineIndex),
		zap.String("raw", line),
	)
}

type discard struct{}

func (discard) ParseFailure(string, int, string) {}

// Discard drops every notice.
var Discard Diagnostics = discard{}

// Counting forwards every notice to another sink and counts them.
// It is not safe for concurrent use.
type Counting struct {
	next  Diagnostics
	count int
}

// NewCounting wraps next; a nil next drops notices after counting them.
func NewCounting(next Diagnostics) *Counting {
	if next == nil {
		next = Discard
	}
	return &Counting{next: next}
}

func (c *Counting) ParseFailure(source string, lineIndex int, line string) {
	c.count++
	c.next.ParseFailure(source, lineIndex, line)
}

// Count returns how many notices passed through.
func (c *Counting) Count() int {
	return c.count
}

// failure is one recorded parse failure.
type failure struct {
	source    string
	lineIndex int
	line      string
}

// recorder buffers failures of one source so they can be replayed in
// source order after a parallel run.
type recorder struct {
	failures []failure
}

func (r *recorder) ParseFailure(source string, lineIndex int, line string) {
	r.failures = append(r.failures, failure{source: source, lineIndex: lineIndex, line: line})
}

func (r *recorder) replay(d Diagnostics) {
	for _, f := range r.failures {
		d.ParseFailure(f.source, f.lineIndex, f.line)
	}
}
