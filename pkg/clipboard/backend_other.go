//go:build !windows && !darwin && !linux

package clipboard

func newBackend() (Backend, error) {
	return nil, ErrUnsupportedPlatform
}

func nativeFormat(name string) string {
	return name
}

func ServeClipboard(items []Item, owned func()) error {
	return ErrUnsupportedPlatform
}
