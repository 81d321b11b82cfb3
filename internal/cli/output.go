package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Contradiction, failed scenario or non-deterministic replay
	ExitCommandError = 2 // Command error (bad input, unknown game, unreadable database)
)

// Error codes carried in the JSON envelope.
const (
	CodeInvalid       = "E_INVALID"
	CodeContradiction = "E_CONTRADICTION"
	CodeNotFound      = "E_NOT_FOUND"
	CodeDeterminism   = "E_DETERMINISM"
	CodeScenario      = "E_SCENARIO"
	CodeInternal      = "E_INTERNAL"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported means the command already wrote the failure to its output,
	// so Execute only sets the exit code.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// reportedFailure is an ExitFailure whose details are already on stdout.
func reportedFailure(message string) *ExitError {
	return &ExitError{Code: ExitFailure, Message: message, Reported: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError: cobra's own
// errors (unknown flag, missing argument) are command errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// errorCode classifies an error for the JSON envelope.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrContradiction):
		return CodeContradiction
	case errors.Is(err, engine.ErrInvalidInput):
		return CodeInvalid
	case errors.Is(err, store.ErrGameNotFound):
		return CodeNotFound
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		return CodeInvalid
	}
	return CodeInternal
}

// errorDetails returns structured context for errors that carry it.
func errorDetails(err error) any {
	if c, ok := engine.IsContradiction(err); ok {
		return contradictionDetails(c)
	}
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		return map[string]string{"field": verr.Field}
	}
	return nil
}

// ContradictionDetails is the JSON form of an engine contradiction.
type ContradictionDetails struct {
	Kind     string              `json:"kind"`
	Turn     int                 `json:"turn,omitempty"`
	Category string              `json:"category,omitempty"`
	Cards    []catalog.Card      `json:"cards,omitempty"`
	Players  []engine.PlayerView `json:"players,omitempty"`
	Message  string              `json:"message"`
}

func contradictionDetails(c *engine.Contradiction) ContradictionDetails {
	d := ContradictionDetails{
		Kind:    string(c.Kind),
		Turn:    c.Turn,
		Cards:   c.Cards,
		Players: c.Players,
		Message: c.Message,
	}
	if c.Category != nil {
		d.Category = c.Category.String()
	}
	return d
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // E_INVALID, E_CONTRADICTION, ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. In text
// mode data is printed with its String method or %v.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Failure outputs a result that ended in a failure (a contradiction, a
// failed scenario), keeping the payload alongside the error.
func (f *OutputFormatter) Failure(code, message string, data any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	if _, err := fmt.Fprintln(f.Writer, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %+v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
