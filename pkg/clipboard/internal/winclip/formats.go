package winclip

import (
	"sync"
)

// Format names understood by every backend.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatRTF  = "rtf"
)

// registeredNames maps short names to the names other Windows applications
// register for the same data.
var registeredNames = map[string]string{
	FormatHTML: "HTML Format",
	FormatRTF:  "Rich Text Format",
}

// NativeName returns the Windows name behind a format name.
func NativeName(name string) string {
	if name == FormatText {
		return "CF_UNICODETEXT"
	}
	if native, ok := registeredNames[name]; ok {
		return native
	}
	return name
}

// Registry resolves format names to clipboard format identifiers. Registered
// identifiers are cached; Windows hands out the same value for the same name
// for the lifetime of the session anyway.
type Registry struct {
	api API

	mu  sync.Mutex
	ids map[string]uint32
}

func NewRegistry(api API) *Registry {
	return &Registry{api: api, ids: make(map[string]uint32)}
}

func (r *Registry) Resolve(name string) (uint32, error) {
	if name == "" {
		return 0, ErrInvalidFormat
	}
	if name == FormatText {
		return cfUnicodeText, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[name]; ok {
		return id, nil
	}

	native := NativeName(name)
	id, err := r.api.RegisterClipboardFormat(native)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, &NativeCallError{Op: "RegisterClipboardFormatW"}
	}
	r.ids[name] = id
	return id, nil
}
