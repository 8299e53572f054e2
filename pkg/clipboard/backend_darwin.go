//go:build darwin

package clipboard

import (
	"fmt"

	"clipctl/pkg/clipboard/internal/pasteboard"
)

var utis = map[string]string{
	FormatText: "public.utf8-plain-text",
	FormatHTML: "public.html",
	FormatRTF:  "public.rtf",
}

type darwinBackend struct{}

func newBackend() (Backend, error) {
	if err := pasteboard.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}
	return darwinBackend{}, nil
}

func (darwinBackend) Copy(items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	entries := make([]pasteboard.Entry, len(items))
	for i, item := range items {
		entries[i] = pasteboard.Entry{Type: nativeFormat(item.Format), Data: item.Data}
	}
	return pasteboard.Write(entries)
}

func (darwinBackend) Paste(format string) ([]byte, error) {
	if format == "" {
		format = FormatText
	}
	return pasteboard.Read(nativeFormat(format))
}

func nativeFormat(name string) string {
	if uti, ok := utis[name]; ok {
		return uti
	}
	return name
}

// ServeClipboard only has work to do on Wayland.
func ServeClipboard(items []Item, owned func()) error {
	return ErrUnsupportedPlatform
}
