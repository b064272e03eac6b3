package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/logstat/internal/domain"
)

// NDJSONWriter writes status objects as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep raw lines unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// RecordOutput is one extracted line emitted by the check command
type RecordOutput struct {
	Type          string `json:"type"` // Always "record"
	SchemaVersion int    `json:"schemaVersion"`
	LineIndex     int    `json:"line_index"`
	domain.LogRecord
}

// ParseFailureOutput is one line that could not be extracted
type ParseFailureOutput struct {
	Type          string `json:"type"` // Always "parse_failure"
	SchemaVersion int    `json:"schemaVersion"`
	Source        string `json:"source,omitempty"`
	LineIndex     int    `json:"line_index"`
	Line          string `json:"line"`
}

// RunSummaryOutput describes a finished run
type RunSummaryOutput struct {
	Type          string `json:"type"` // Always "run_summary"
	SchemaVersion int    `json:"schemaVersion"`
	Sources       int    `json:"sources"`
	Parsed        int    `json:"parsed"`
	Failed        int    `json:"failed"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	Output        string `json:"output,omitempty"`
}

// NewRunSummaryOutput creates a run summary with the type fields set
func NewRunSummaryOutput(sources, parsed, failed int, elapsedMs int64, output string) *RunSummaryOutput {
	return &RunSummaryOutput{
		Type:          "run_summary",
		SchemaVersion: SchemaVersion,
		Sources:       sources,
		Parsed:        parsed,
		Failed:        failed,
		ElapsedMs:     elapsedMs,
		Output:        output,
	}
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// MetadataOutput describes runtime/tool metadata
type MetadataOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// WriteRecord outputs an extracted record
func (w *NDJSONWriter) WriteRecord(lineIndex int, rec *domain.LogRecord) error {
	return w.encoder.Encode(&RecordOutput{
		Type:          "record",
		SchemaVersion: SchemaVersion,
		LineIndex:     lineIndex,
		LogRecord:     *rec,
	})
}

// WriteParseFailure outputs a line that could not be extracted
func (w *NDJSONWriter) WriteParseFailure(source string, lineIndex int, line string) error {
	return w.encoder.Encode(&ParseFailureOutput{
		Type:          "parse_failure",
		SchemaVersion: SchemaVersion,
		Source:        source,
		LineIndex:     lineIndex,
		Line:          line,
	})
}

// WriteRunSummary outputs run counters
func (w *NDJSONWriter) WriteRunSummary(s *RunSummaryOutput) error {
	return w.encoder.Encode(s)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteMetadata outputs version information
func (w *NDJSONWriter) WriteMetadata(version, commit string) error {
	return w.encoder.Encode(&MetadataOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
