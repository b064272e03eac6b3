package domain

import (
	"bytes"
	"encoding/json"
)

// RankedEntry is one key of a ranked view with its count or max time.
type RankedEntry struct {
	Key   string
	Value int64
}

// Ranking is an ordered view over a tally. It serializes as a JSON object
// whose members keep the slice order.
type Ranking []RankedEntry

// MarshalJSON writes the ranking as an object in rank order.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := []byte{'{'}
	for i, e := range r {
		if i > 0 {
			out = append(out, ',')
		}
		buf.Reset()
		if err := enc.Encode(e.Key); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
		out = append(out, ':')
		buf.Reset()
		if err := enc.Encode(e.Value); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
	}
	return append(out, '}'), nil
}

// Keys returns the ranked keys in order.
func (r Ranking) Keys() []string {
	keys := make([]string, len(r))
	for i, e := range r {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value stored for key.
func (r Ranking) Get(key string) (int64, bool) {
	for _, e := range r {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Report is the finalized summary of one run. Field order is the
// serialized key order.
type Report struct {
	TotalRequests int     `json:"total_requests"`
	TopIPs        Ranking `json:"top_10_ips"`
	Methods       Ranking `json:"methods_count"`
	LongRequests  Ranking `json:"top_10_long_reqs"`
	ClientErrors  Ranking `json:"top_10_client_errors"`
	ServerErrors  Ranking `json:"top_10_server_errors"`
}

// NewReport creates an empty report with non-nil views.
func NewReport() *Report {
	return &Report{
		TopIPs:       Ranking{},
		Methods:      Ranking{},
		LongRequests: Ranking{},
		ClientErrors: Ranking{},
		ServerErrors: Ranking{},
	}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`          // Always "error"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Code          string `json:"code"`          // Machine-readable error code
	Message       string `json:"message"`       // Human-readable message
	Hint          string `json:"hint,omitempty"`
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
