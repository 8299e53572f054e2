package cmd

import (
	goerrors "errors"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/errors"
	"clipctl/pkg/history"
)

// classifyClipboardError turns a library error into a coded CLI error so the
// exit status tells scripts what went wrong.
func classifyClipboardError(message, format string, err error) error {
	if err == nil {
		return nil
	}

	var coded *errors.Error
	if goerrors.As(err, &coded) {
		return err
	}

	var native *clipboard.NativeCallError
	switch {
	case goerrors.Is(err, clipboard.ErrClipboardUnavailable):
		return errors.ClipboardBusyError(err)
	case goerrors.Is(err, clipboard.ErrUnsupportedPlatform):
		return errors.UnsupportedPlatformError(err)
	case goerrors.Is(err, clipboard.ErrUnsupportedFormat):
		return errors.UnsupportedFormatError(format, err)
	case goerrors.Is(err, clipboard.ErrInvalidFormat):
		return errors.NewWithError(errors.ExitCodeValidation, message, err)
	case goerrors.As(err, &native):
		return errors.NewWithError(errors.ExitCodeNative, message, err)
	default:
		return errors.NewWithError(errors.ExitCodeGeneral, message, err)
	}
}

// classifyHistoryError maps history store failures to exit codes.
func classifyHistoryError(id string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case goerrors.Is(err, history.ErrNotFound):
		return errors.NotFoundError("History entry " + id)
	case goerrors.Is(err, history.ErrAmbiguousID):
		return errors.NewWithSuggestion(errors.ExitCodeValidation,
			"History id "+id+" matches more than one entry",
			"Use more characters of the id shown by 'clipctl history list'.")
	default:
		return errors.HistoryError(err)
	}
}
