//go:build windows

package winclip

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreateWindowExW            = user32.NewProc("CreateWindowExW")
	procDestroyWindow              = user32.NewProc("DestroyWindow")
	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")
	procRegisterClipboardFormatW   = user32.NewProc("RegisterClipboardFormatW")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalSize   = kernel32.NewProc("GlobalSize")
	procSetLastError = kernel32.NewProc("SetLastError")
)

// checkedProc pairs a lazily loaded procedure with the zero-result check.
type checkedProc struct {
	proc *windows.LazyProc
}

// call clears the last-error slot first so that a code left behind by an
// earlier call on this thread is not reported against this one. Callers
// must hold the OS thread for the pair of calls to be meaningful.
//
//go:uintptrescapes
func (p checkedProc) call(args ...uintptr) (uintptr, error) {
	procSetLastError.Call(0) //nolint:errcheck
	r, _, callErr := p.proc.Call(args...)
	return checkResult(p.proc.Name, r, callErr)
}

var (
	createWindowEx          = checkedProc{procCreateWindowExW}
	destroyWindow           = checkedProc{procDestroyWindow}
	closeClipboard          = checkedProc{procCloseClipboard}
	emptyClipboard          = checkedProc{procEmptyClipboard}
	registerClipboardFormat = checkedProc{procRegisterClipboardFormatW}
	getClipboardData        = checkedProc{procGetClipboardData}
	setClipboardData        = checkedProc{procSetClipboardData}
	globalAlloc             = checkedProc{procGlobalAlloc}
	globalLock              = checkedProc{procGlobalLock}
	globalUnlock            = checkedProc{procGlobalUnlock}
	globalSize              = checkedProc{procGlobalSize}
)

type nativeAPI struct{}

// NewNative resolves every procedure up front so a missing export fails at
// construction instead of halfway through a copy.
func NewNative() (API, error) {
	procs := []*windows.LazyProc{
		procCreateWindowExW, procDestroyWindow,
		procOpenClipboard, procCloseClipboard, procEmptyClipboard,
		procIsClipboardFormatAvailable, procRegisterClipboardFormatW,
		procGetClipboardData, procSetClipboardData,
		procGlobalAlloc, procGlobalFree, procGlobalLock, procGlobalUnlock,
		procGlobalSize, procSetLastError,
	}
	for _, p := range procs {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("missing procedure %q: %w", p.Name, err)
		}
	}
	return nativeAPI{}, nil
}

func (nativeAPI) CreateWindow(class string) (uintptr, error) {
	className, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0, err
	}
	hwnd, err := createWindowEx.call(
		0,                                  // dwExStyle
		uintptr(unsafe.Pointer(className)), // lpClassName
		0,                                  // lpWindowName
		0,                                  // dwStyle
		0, 0, 0, 0,                         // x, y, width, height
		0, 0, 0, 0,                         // parent, menu, instance, param
	)
	runtime.KeepAlive(className)
	return hwnd, err
}

func (nativeAPI) DestroyWindow(hwnd uintptr) error {
	_, err := destroyWindow.call(hwnd)
	return err
}

func (nativeAPI) OpenClipboard(hwnd uintptr) bool {
	r, _, _ := procOpenClipboard.Call(hwnd)
	return r != 0
}

func (nativeAPI) CloseClipboard() error {
	_, err := closeClipboard.call()
	return err
}

func (nativeAPI) EmptyClipboard() error {
	_, err := emptyClipboard.call()
	return err
}

func (nativeAPI) IsClipboardFormatAvailable(format uint32) bool {
	r, _, _ := procIsClipboardFormatAvailable.Call(uintptr(format))
	return r != 0
}

func (nativeAPI) RegisterClipboardFormat(name string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	id, err := registerClipboardFormat.call(uintptr(unsafe.Pointer(p)))
	runtime.KeepAlive(p)
	return uint32(id), err
}

func (nativeAPI) GetClipboardData(format uint32) (uintptr, error) {
	return getClipboardData.call(uintptr(format))
}

func (nativeAPI) SetClipboardData(format uint32, mem uintptr) (uintptr, error) {
	return setClipboardData.call(uintptr(format), mem)
}

func (nativeAPI) GlobalAlloc(flags uint32, size uintptr) (uintptr, error) {
	return globalAlloc.call(uintptr(flags), size)
}

// GlobalFree signals failure with a non-zero return, the inverse of every
// other call here, so it bypasses checkedProc.
func (nativeAPI) GlobalFree(mem uintptr) error {
	procSetLastError.Call(0) //nolint:errcheck
	r, _, callErr := procGlobalFree.Call(mem)
	if r == 0 {
		return nil
	}
	nerr := &NativeCallError{Op: procGlobalFree.Name}
	var errno syscall.Errno
	if errors.As(callErr, &errno) {
		nerr.Code = errno
	}
	return nerr
}

func (nativeAPI) GlobalLock(mem uintptr) (uintptr, error) {
	return globalLock.call(mem)
}

func (nativeAPI) GlobalUnlock(mem uintptr) error {
	_, err := globalUnlock.call(mem)
	return err
}

func (nativeAPI) GlobalSize(mem uintptr) (uintptr, error) {
	return globalSize.call(mem)
}

func (nativeAPI) WriteMemory(addr uintptr, data []byte) {
	if len(data) == 0 {
		return
	}
	// addr comes from GlobalLock; the block stays pinned until GlobalUnlock.
	dst := unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(data)) //nolint:govet
	copy(dst, data)
}

func (nativeAPI) ReadMemory(addr uintptr, n uintptr) []byte {
	if n == 0 {
		return nil
	}
	// addr comes from GlobalLock; the block stays pinned until GlobalUnlock.
	src := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n) //nolint:govet
	out := make([]byte, n)
	copy(out, src)
	return out
}
