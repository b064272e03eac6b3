package cli

import (
	"github.com/vburojevic/logstat/internal/output"
)

// Error codes emitted by commands.
const (
	CodeInvalidPath = "INVALID_PATH"
	CodeReadFailed  = "READ_FAILED"
	CodeWriteFailed = "WRITE_FAILED"
	CodeParseFailed = "PARSE_FAILED"
	CodeConfigError = "CONFIG_ERROR"
)

// outputErrorCommon normalizes error emission across commands, respecting
// json vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	cliErr := &CLIError{Code: code, Message: message}
	if len(hint) > 0 {
		cliErr.Hint = hint[0]
	}
	if globals != nil && globals.Format == "json" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		output.NewTextWriter(globals.Stderr).WriteError(code, message)
	}
	return cliErr
}

// failWith emits err under code and returns it wrapped in a CLIError.
func failWith(globals *Globals, code string, err error, hint ...string) error {
	out := outputErrorCommon(globals, code, err.Error(), hint...)
	cliErr := out.(*CLIError)
	cliErr.Err = err
	return cliErr
}
