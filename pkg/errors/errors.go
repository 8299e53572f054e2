package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"clipctl/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess             ExitCode = 0
	ExitCodeGeneral             ExitCode = 1
	ExitCodeConfig              ExitCode = 2
	ExitCodeClipboardBusy       ExitCode = 3
	ExitCodeNative              ExitCode = 4
	ExitCodeUnsupportedPlatform ExitCode = 5
	ExitCodeUnsupportedFormat   ExitCode = 6
	ExitCodeValidation          ExitCode = 7
	ExitCodeFileOperation       ExitCode = 8
	ExitCodeHistory             ExitCode = 9
	ExitCodeNotFound            ExitCode = 10
	ExitCodeCancellation        ExitCode = 11
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgCopyFailed     = "Failed to copy to the clipboard"
	ErrMsgPasteFailed    = "Failed to read the clipboard"
	ErrMsgHistoryFailed  = "History operation failed"
	ErrMsgInvalidInput   = "Invalid input provided"
	ErrMsgReadInput      = "Failed to read input"
	ErrMsgWriteOutput    = "Failed to write output"
	ErrMsgConvertFailed  = "Failed to convert clipboard contents"
	ErrMsgBackendFailure = "Failed to initialize the clipboard"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

func NewWithAll(code ExitCode, message string, err error, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Suggestion: suggestion,
	}
}

func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func WrapWithCode(err error, code ExitCode, message string) *Error {
	if err == nil {
		return nil
	}

	var errMsg string
	if wrapped, ok := err.(*Error); ok {
		errMsg = wrapped.Message
		if wrapped.Underlying != nil {
			errMsg += ": " + wrapped.Underlying.Error()
		}
	} else {
		errMsg = err.Error()
	}

	return &Error{
		Code:       code,
		Message:    message + ": " + errMsg,
		Underlying: err,
	}
}

func Is(err error, target error) bool {
	if err == nil || target == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		if t, ok := target.(*Error); ok {
			return e.Code == t.Code
		}
	}

	return err.Error() == target.Error()
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

// HandleReturn processes an error and returns the appropriate exit code.
// The caller is responsible for exiting the program.
func HandleReturn(err error) ExitCode {
	return HandleTo(os.Stderr, err)
}

// HandleTo is HandleReturn writing the user-facing report to w.
func HandleTo(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitCode ExitCode = ExitCodeGeneral
	var message string
	var suggestion string

	if e, ok := err.(*Error); ok {
		exitCode = e.Code
		message = e.Error()
		suggestion = e.Suggestion

		if e.Underlying != nil {
			logger.Error().Err(e.Underlying).Int("exit_code", int(e.Code)).Msg(e.Message)
		} else {
			logger.Error().Int("exit_code", int(e.Code)).Msg(e.Message)
		}
	} else {
		message = err.Error()
		logger.Error().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(strings.TrimRight(suggestion, "\n"), "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
				continue
			}
			if strings.HasPrefix(line, "  -") {
				cyan.Fprintln(w, line)
			} else {
				fmt.Fprintln(w, "            "+line)
			}
		}
	}

	return exitCode
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check your configuration file (clipctl config path) or the CLIPCTL_* environment variables.",
	}
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func NotFoundError(resource string) *Error {
	return &Error{
		Code:       ExitCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Suggestion: "Use 'clipctl history list' to see recorded entries.",
	}
}

func CancelledError(operation string) *Error {
	return &Error{
		Code:       ExitCodeCancellation,
		Message:    fmt.Sprintf("Operation cancelled: %s", operation),
		Suggestion: "The operation was interrupted. No changes were made.",
	}
}

func FileError(path string, err error) *Error {
	return &Error{
		Code:       ExitCodeFileOperation,
		Message:    fmt.Sprintf("File operation failed for %s", path),
		Underlying: err,
	}
}

func HistoryError(err error) *Error {
	return &Error{
		Code:       ExitCodeHistory,
		Message:    ErrMsgHistoryFailed,
		Underlying: err,
		Suggestion: "Disable history with CLIPCTL_HISTORY_ENABLED=false or remove the history database.",
	}
}

func ClipboardBusyError(err error) *Error {
	return &Error{
		Code:       ExitCodeClipboardBusy,
		Message:    "Clipboard is in use by another application",
		Underlying: err,
		Suggestion: "Close the application holding the clipboard and try again.",
	}
}

func UnsupportedPlatformError(err error) *Error {
	return &Error{
		Code:       ExitCodeUnsupportedPlatform,
		Message:    "Clipboard access is not supported here",
		Underlying: err,
		Suggestion: "On Linux install xclip, xsel or wl-clipboard, or run under Wayland.",
	}
}

func UnsupportedFormatError(format string, err error) *Error {
	return &Error{
		Code:       ExitCodeUnsupportedFormat,
		Message:    fmt.Sprintf("Format %q is not supported on this platform", format),
		Underlying: err,
		Suggestion: "Use 'clipctl formats' to list the formats this platform understands.",
	}
}

// CommandError wraps errors from command handlers with consistent formatting.
// It preserves the original error chain for inspection while providing
// a user-friendly message.
func CommandError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
