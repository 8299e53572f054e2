package winclip

import (
	"time"

	"clipctl/pkg/logger"
)

// Another process may hold the clipboard for a moment (clipboard managers,
// remote desktop agents), so opening is retried for a short, fixed window.
const (
	openTimeout       = 500 * time.Millisecond
	openRetryInterval = 10 * time.Millisecond
)

// withClipboard opens the clipboard on behalf of hwnd (0 for read-only
// sessions), runs fn and closes it again. A close failure is only returned
// when fn itself succeeded.
func (c *Clipboard) withClipboard(hwnd uintptr, fn func() error) (err error) {
	if err := c.open(hwnd); err != nil {
		return err
	}
	defer func() {
		cerr := c.api.CloseClipboard()
		if cerr == nil {
			return
		}
		if err == nil {
			err = cerr
			return
		}
		logger.Warn().Err(cerr).Msg("failed to close clipboard")
	}()
	return fn()
}

func (c *Clipboard) open(hwnd uintptr) error {
	deadline := c.now().Add(openTimeout)
	attempts := 0
	for {
		attempts++
		if c.api.OpenClipboard(hwnd) {
			if attempts > 1 {
				logger.Debug().Int("attempts", attempts).Msg("clipboard opened after contention")
			}
			return nil
		}
		if !c.now().Before(deadline) {
			return &ClipboardUnavailableError{Timeout: openTimeout, Attempts: attempts}
		}
		c.sleep(openRetryInterval)
	}
}
