package winclip

import (
	"errors"
	"syscall"
)

// checkResult turns the raw outcome of a native call into a Go error. Win32
// uses a zero return both for failures and for legitimate results (an empty
// clipboard, a fully unlocked block), so a zero is only an error when the
// last-error code is set as well.
func checkResult(op string, r uintptr, callErr error) (uintptr, error) {
	if r != 0 {
		return r, nil
	}
	var errno syscall.Errno
	if errors.As(callErr, &errno) && errno != 0 {
		return r, &NativeCallError{Op: op, Code: errno}
	}
	return r, nil
}
