package winclip

import (
	"sync"
	"syscall"
)

const (
	errClipboardNotOpen syscall.Errno = 1418
	errInvalidHandle    syscall.Errno = 6
)

// fakeAPI keeps a clipboard in memory. Block handles double as their locked
// addresses.
type fakeAPI struct {
	mu sync.Mutex

	nextHandle uintptr
	blocks     map[uintptr][]byte
	locks      map[uintptr]int
	stored     map[uint32]uintptr

	registered map[string]uint32
	nextFormat uint32

	open    bool
	owner   uintptr
	windows map[uintptr]bool

	// busyFor makes OpenClipboard fail that many times; negative fails forever.
	busyFor int

	failSetData  bool
	failClose    bool
	failRegister bool

	// zeroWindow makes CreateWindow return a NULL handle without an error.
	zeroWindow bool

	openAttempts  int
	registerCalls map[string]int
	destroyCalls  map[uintptr]int
	freed         []uintptr
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextHandle:    0x1000,
		blocks:        make(map[uintptr][]byte),
		locks:         make(map[uintptr]int),
		stored:        make(map[uint32]uintptr),
		registered:    make(map[string]uint32),
		nextFormat:    0xC000,
		windows:       make(map[uintptr]bool),
		registerCalls: make(map[string]int),
		destroyCalls:  make(map[uintptr]int),
	}
}

func (f *fakeAPI) handle() uintptr {
	f.nextHandle += 0x10
	return f.nextHandle
}

func (f *fakeAPI) CreateWindow(class string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.zeroWindow {
		return 0, nil
	}
	hwnd := f.handle()
	f.windows[hwnd] = true
	return hwnd, nil
}

func (f *fakeAPI) DestroyWindow(hwnd uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyCalls[hwnd]++
	if !f.windows[hwnd] {
		return &NativeCallError{Op: "DestroyWindow", Code: errInvalidHandle}
	}
	delete(f.windows, hwnd)
	return nil
}

func (f *fakeAPI) OpenClipboard(hwnd uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openAttempts++
	if f.busyFor != 0 {
		if f.busyFor > 0 {
			f.busyFor--
		}
		return false
	}
	if f.open {
		return false
	}
	f.open = true
	f.owner = hwnd
	return true
}

func (f *fakeAPI) CloseClipboard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return &NativeCallError{Op: "CloseClipboard", Code: errClipboardNotOpen}
	}
	f.open = false
	if f.failClose {
		return &NativeCallError{Op: "CloseClipboard", Code: errClipboardNotOpen}
	}
	return nil
}

func (f *fakeAPI) EmptyClipboard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return &NativeCallError{Op: "EmptyClipboard", Code: errClipboardNotOpen}
	}
	for _, mem := range f.stored {
		delete(f.blocks, mem)
	}
	f.stored = make(map[uint32]uintptr)
	return nil
}

func (f *fakeAPI) IsClipboardFormatAvailable(format uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.stored[format]
	return ok
}

func (f *fakeAPI) RegisterClipboardFormat(name string) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls[name]++
	if f.failRegister {
		return 0, &NativeCallError{Op: "RegisterClipboardFormatW", Code: syscall.Errno(87)}
	}
	if id, ok := f.registered[name]; ok {
		return id, nil
	}
	f.nextFormat++
	f.registered[name] = f.nextFormat
	return f.nextFormat, nil
}

func (f *fakeAPI) GetClipboardData(format uint32) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return 0, &NativeCallError{Op: "GetClipboardData", Code: errClipboardNotOpen}
	}
	return f.stored[format], nil
}

// SetClipboardData requires an owner window, as Windows does once the
// clipboard has been emptied.
func (f *fakeAPI) SetClipboardData(format uint32, mem uintptr) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open || f.owner == 0 || f.failSetData {
		return 0, &NativeCallError{Op: "SetClipboardData", Code: errClipboardNotOpen}
	}
	if old, ok := f.stored[format]; ok {
		delete(f.blocks, old)
	}
	f.stored[format] = mem
	return mem, nil
}

func (f *fakeAPI) GlobalAlloc(flags uint32, size uintptr) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mem := f.handle()
	f.blocks[mem] = make([]byte, size)
	return mem, nil
}

func (f *fakeAPI) GlobalFree(mem uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freed = append(f.freed, mem)
	if _, ok := f.blocks[mem]; !ok {
		return &NativeCallError{Op: "GlobalFree", Code: errInvalidHandle}
	}
	delete(f.blocks, mem)
	return nil
}

func (f *fakeAPI) GlobalLock(mem uintptr) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blocks[mem]; !ok {
		return 0, &NativeCallError{Op: "GlobalLock", Code: errInvalidHandle}
	}
	f.locks[mem]++
	return mem, nil
}

func (f *fakeAPI) GlobalUnlock(mem uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[mem] > 0 {
		f.locks[mem]--
	}
	return nil
}

func (f *fakeAPI) GlobalSize(mem uintptr) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uintptr(len(f.blocks[mem])), nil
}

func (f *fakeAPI) WriteMemory(addr uintptr, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.blocks[addr], data)
}

func (f *fakeAPI) ReadMemory(addr uintptr, n uintptr) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	copy(out, f.blocks[addr])
	return out
}

// storeRaw places a payload on the clipboard the way another application
// would, bypassing the protocol under test.
func (f *fakeAPI) storeRaw(format uint32, raw []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mem := f.handle()
	f.blocks[mem] = append([]byte(nil), raw...)
	f.stored[format] = mem
}

func (f *fakeAPI) liveBlocks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blocks)
}
