package winclip

import (
	"errors"
	"fmt"
	"syscall"
	"time"
)

var (
	// ErrClipboardUnavailable is matched by every *ClipboardUnavailableError.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrInvalidFormat is returned for an empty format name.
	ErrInvalidFormat = errors.New("invalid clipboard format name")
)

// NativeCallError reports a native call that returned a failure value while
// the thread's last-error code was set.
type NativeCallError struct {
	Op   string
	Code syscall.Errno
}

func (e *NativeCallError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("error calling %s", e.Op)
	}
	return fmt.Sprintf("error calling %s: %v", e.Op, e.Code)
}

func (e *NativeCallError) Unwrap() error {
	if e.Code == 0 {
		return nil
	}
	return e.Code
}

// FormatError names the item a copy failed on.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ClipboardUnavailableError is returned when the clipboard stayed owned by
// another process for the whole acquisition window.
type ClipboardUnavailableError struct {
	Timeout  time.Duration
	Attempts int
}

func (e *ClipboardUnavailableError) Error() string {
	return fmt.Sprintf("error calling OpenClipboard: clipboard unavailable after %v (%d attempts)", e.Timeout, e.Attempts)
}

func (e *ClipboardUnavailableError) Is(target error) bool {
	return target == ErrClipboardUnavailable
}
