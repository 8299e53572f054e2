package winclip

import (
	"runtime"
	"time"
)

// Item is one payload written under one format name.
type Item struct {
	Format string
	Data   []byte
}

// Clipboard drives the Win32 clipboard protocol over an API.
type Clipboard struct {
	api     API
	formats *Registry

	now   func() time.Time
	sleep func(time.Duration)
}

func New(api API) *Clipboard {
	return &Clipboard{
		api:     api,
		formats: NewRegistry(api),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Formats exposes the registry used by this clipboard.
func (c *Clipboard) Formats() *Registry {
	return c.formats
}

// Copy replaces the clipboard contents with items, written in order. `text`
// items carry UTF-8 and are stored as CF_UNICODETEXT. The call is not
// atomic: a failure part way leaves the earlier items on the clipboard.
func (c *Clipboard) Copy(items ...Item) error {
	for _, item := range items {
		if item.Format == "" {
			return ErrInvalidFormat
		}
	}

	// Window and clipboard ownership belong to the creating thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	return c.withWindow(func(hwnd uintptr) error {
		// Opening with a NULL owner would make EmptyClipboard clear the
		// owner and every SetClipboardData after it fail.
		return c.withClipboard(hwnd, func() error {
			if err := c.api.EmptyClipboard(); err != nil {
				return err
			}
			for _, item := range items {
				if err := c.put(item); err != nil {
					return &FormatError{Format: item.Format, Err: err}
				}
			}
			return nil
		})
	})
}

func (c *Clipboard) put(item Item) error {
	id, err := c.formats.Resolve(item.Format)
	if err != nil {
		return err
	}
	payload := item.Data
	if id == cfUnicodeText {
		if payload, err = encodeUnicodeText(payload); err != nil {
			return err
		}
	}
	return c.setData(id, payload)
}

// Paste returns the payload stored under format, "" meaning text. Text is
// returned as UTF-8. Nothing stored under the format yields an empty result.
func (c *Clipboard) Paste(format string) ([]byte, error) {
	if format == "" {
		format = FormatText
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var data []byte
	err := c.withClipboard(0, func() error {
		id, err := c.formats.Resolve(format)
		if err != nil {
			return err
		}
		data, err = c.getData(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
