// Package winclip implements the Win32 clipboard protocol: a hidden owner
// window, a contended clipboard session, lazily registered formats and
// movable global memory blocks handed over to the system.
//
// The protocol is written against the API interface so that it can be
// exercised without a Windows host; native_windows.go provides the real
// user32/kernel32 bindings.
package winclip

// Standard clipboard formats and allocation flags from winuser.h / winbase.h.
const (
	cfUnicodeText uint32 = 13

	gmemMoveable uint32 = 0x0002
)

// windowClass is a predefined class, so no RegisterClassEx is needed; the
// window only exists to own the clipboard.
const windowClass = "STATIC"

// API is the subset of user32 and kernel32 the clipboard protocol needs.
// Every method except OpenClipboard and IsClipboardFormatAvailable reports
// failures as *NativeCallError.
type API interface {
	CreateWindow(class string) (uintptr, error)
	DestroyWindow(hwnd uintptr) error

	// OpenClipboard is unchecked: failure is expected under contention and
	// handled by the retry loop.
	OpenClipboard(hwnd uintptr) bool
	CloseClipboard() error
	EmptyClipboard() error
	IsClipboardFormatAvailable(format uint32) bool
	RegisterClipboardFormat(name string) (uint32, error)
	GetClipboardData(format uint32) (uintptr, error)
	SetClipboardData(format uint32, mem uintptr) (uintptr, error)

	GlobalAlloc(flags uint32, size uintptr) (uintptr, error)
	GlobalFree(mem uintptr) error
	GlobalLock(mem uintptr) (uintptr, error)
	GlobalUnlock(mem uintptr) error
	GlobalSize(mem uintptr) (uintptr, error)

	// WriteMemory copies data to a locked block address.
	WriteMemory(addr uintptr, data []byte)
	// ReadMemory returns a copy of n bytes starting at a locked block address.
	ReadMemory(addr uintptr, n uintptr) []byte
}
