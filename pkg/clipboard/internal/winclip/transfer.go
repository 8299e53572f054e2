package winclip

import (
	"clipctl/pkg/logger"
)

// setData hands payload to the clipboard under format. The block belongs to
// the system once SetClipboardData succeeds; before that it is ours to free.
func (c *Clipboard) setData(format uint32, payload []byte) error {
	size := len(payload) + terminatorWidth(format)
	mem, err := c.api.GlobalAlloc(gmemMoveable, uintptr(size))
	if err != nil {
		return err
	}
	if mem == 0 {
		return &NativeCallError{Op: "GlobalAlloc"}
	}

	handedOver := false
	defer func() {
		if handedOver {
			return
		}
		if err := c.api.GlobalFree(mem); err != nil {
			logger.Warn().Err(err).Msg("failed to release clipboard memory block")
		}
	}()

	addr, err := c.api.GlobalLock(mem)
	if err != nil {
		return err
	}
	if addr == 0 {
		return &NativeCallError{Op: "GlobalLock"}
	}

	buf := make([]byte, size)
	copy(buf, payload)
	c.api.WriteMemory(addr, buf)

	if err := c.api.GlobalUnlock(mem); err != nil {
		return err
	}
	if _, err := c.api.SetClipboardData(format, mem); err != nil {
		return err
	}
	handedOver = true
	return nil
}

// getData reads the payload stored under format. An absent format is an
// empty result, not an error.
func (c *Clipboard) getData(format uint32) ([]byte, error) {
	if !c.api.IsClipboardFormatAvailable(format) {
		return nil, nil
	}
	h, err := c.api.GetClipboardData(format)
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, nil
	}

	addr, err := c.api.GlobalLock(h)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, nil
	}
	defer func() {
		if err := c.api.GlobalUnlock(h); err != nil {
			logger.Debug().Err(err).Msg("failed to unlock clipboard data")
		}
	}()

	size, err := c.api.GlobalSize(h)
	if err != nil {
		return nil, err
	}
	raw := trimAtTerminator(c.api.ReadMemory(addr, size), terminatorWidth(format))
	if format == cfUnicodeText {
		return decodeUnicodeText(raw)
	}
	return raw, nil
}
