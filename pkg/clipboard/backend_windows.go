//go:build windows

package clipboard

import (
	"fmt"

	"clipctl/pkg/clipboard/internal/winclip"
)

type windowsBackend struct {
	cb *winclip.Clipboard
}

func newBackend() (Backend, error) {
	api, err := winclip.NewNative()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}
	return &windowsBackend{cb: winclip.New(api)}, nil
}

func (b *windowsBackend) Copy(items ...Item) error {
	native := make([]winclip.Item, len(items))
	for i, item := range items {
		native[i] = winclip.Item{Format: item.Format, Data: item.Data}
	}
	return b.cb.Copy(native...)
}

func (b *windowsBackend) Paste(format string) ([]byte, error) {
	return b.cb.Paste(format)
}

func nativeFormat(name string) string {
	return winclip.NativeName(name)
}

// ServeClipboard only has work to do on Wayland.
func ServeClipboard(items []Item, owned func()) error {
	return ErrUnsupportedPlatform
}
