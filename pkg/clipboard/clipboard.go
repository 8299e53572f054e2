// Package clipboard copies to and pastes from the system clipboard in one
// or more named formats. Windows drives the Win32 clipboard directly, macOS
// uses NSPasteboard and Linux owns the Wayland selection or falls back to
// the X11 clipboard utilities for plain text.
package clipboard

import (
	"errors"
	"sync"

	"clipctl/pkg/clipboard/internal/winclip"
)

// Format names shared by every platform. Any other non-empty name is a
// custom format, passed to the platform as is.
const (
	FormatText = winclip.FormatText
	FormatHTML = winclip.FormatHTML
	FormatRTF  = winclip.FormatRTF
)

// ServeCommand is the hidden subcommand that owns the Wayland selection,
// and ServeReady the line it prints once the selection is owned.
const (
	ServeCommand = "__clipboard-serve"
	ServeReady   = "owned"
)

var (
	ErrUnsupportedPlatform = errors.New("clipboard: unsupported platform")
	ErrUnsupportedFormat   = errors.New("clipboard: format not supported on this platform")
	ErrInvalidFormat       = winclip.ErrInvalidFormat

	// ErrClipboardUnavailable matches every *ClipboardUnavailableError.
	ErrClipboardUnavailable = winclip.ErrClipboardUnavailable
)

type (
	NativeCallError           = winclip.NativeCallError
	ClipboardUnavailableError = winclip.ClipboardUnavailableError

	// FormatError wraps a copy failure with the format being written.
	FormatError = winclip.FormatError
)

// Item is one payload written under one format. Text is UTF-8.
type Item struct {
	Format string `json:"format" yaml:"format"`
	Data   []byte `json:"data" yaml:"data"`
}

func Text(s string) Item {
	return Item{Format: FormatText, Data: []byte(s)}
}

func HTML(b []byte) Item {
	return Item{Format: FormatHTML, Data: b}
}

func RTF(b []byte) Item {
	return Item{Format: FormatRTF, Data: b}
}

func Custom(name string, b []byte) Item {
	return Item{Format: name, Data: b}
}

// Backend is a platform clipboard. Copy replaces the whole clipboard with
// items, in order; it is not atomic. Paste returns the bytes stored under a
// format, "" meaning text, and an empty result when nothing is stored.
type Backend interface {
	Copy(items ...Item) error
	Paste(format string) ([]byte, error)
}

// New returns the backend for the running platform. It fails with
// ErrUnsupportedPlatform when no clipboard can be reached.
func New() (Backend, error) {
	return newBackend()
}

// NativeFormat returns the name a format is stored under on this platform.
func NativeFormat(name string) string {
	return nativeFormat(name)
}

var (
	defaultOnce    sync.Once
	defaultBackend Backend
	defaultErr     error
)

// Default returns a process-wide backend, built on first use.
func Default() (Backend, error) {
	defaultOnce.Do(func() {
		defaultBackend, defaultErr = New()
	})
	return defaultBackend, defaultErr
}

func Copy(items ...Item) error {
	b, err := Default()
	if err != nil {
		return err
	}
	return b.Copy(items...)
}

func Paste(format string) ([]byte, error) {
	b, err := Default()
	if err != nil {
		return nil, err
	}
	return b.Paste(format)
}

func CopyText(text string) error {
	return Copy(Text(text))
}

func PasteText() (string, error) {
	data, err := Paste(FormatText)
	return string(data), err
}

func validate(items []Item) error {
	for _, item := range items {
		if item.Format == "" {
			return ErrInvalidFormat
		}
	}
	return nil
}
