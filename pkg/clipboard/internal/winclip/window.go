package winclip

import (
	"clipctl/pkg/logger"
)

// withWindow runs fn with a hidden window that can own the clipboard. The
// window is destroyed on every path; a destroy failure is logged so that it
// never replaces the error returned by fn.
func (c *Clipboard) withWindow(fn func(hwnd uintptr) error) error {
	hwnd, err := c.api.CreateWindow(windowClass)
	if err != nil {
		return err
	}
	// A NULL owner would let EmptyClipboard wipe the clipboard before every
	// SetClipboardData fails.
	if hwnd == 0 {
		return &NativeCallError{Op: "CreateWindowExW"}
	}
	defer func() {
		if err := c.api.DestroyWindow(hwnd); err != nil {
			logger.Warn().Err(err).Uint64("hwnd", uint64(hwnd)).Msg("failed to destroy clipboard window")
		}
	}()
	return fn(hwnd)
}
