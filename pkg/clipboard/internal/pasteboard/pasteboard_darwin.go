//go:build darwin

package pasteboard

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

// Entry is one payload stored under a uniform type identifier.
type Entry struct {
	Type string
	Data []byte
}

var (
	initOnce sync.Once
	initErr  error

	selAlloc                objc.SEL
	selInit                 objc.SEL
	selRelease              objc.SEL
	selGeneralPasteboard    objc.SEL
	selClearContents        objc.SEL
	selSetDataForType       objc.SEL
	selDataForType          objc.SEL
	selDataWithBytesLength  objc.SEL
	selBytes                objc.SEL
	selLength               objc.SEL
	selStringWithUTF8String objc.SEL
)

// Load maps libobjc and AppKit and caches the selectors used here.
func Load() error {
	initOnce.Do(func() {
		if _, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_GLOBAL); err != nil {
			initErr = fmt.Errorf("pasteboard: load libobjc: %w", err)
			return
		}
		if _, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL); err != nil {
			initErr = fmt.Errorf("pasteboard: load AppKit: %w", err)
			return
		}

		selAlloc = objc.RegisterName("alloc")
		selInit = objc.RegisterName("init")
		selRelease = objc.RegisterName("release")
		selGeneralPasteboard = objc.RegisterName("generalPasteboard")
		selClearContents = objc.RegisterName("clearContents")
		selSetDataForType = objc.RegisterName("setData:forType:")
		selDataForType = objc.RegisterName("dataForType:")
		selDataWithBytesLength = objc.RegisterName("dataWithBytes:length:")
		selBytes = objc.RegisterName("bytes")
		selLength = objc.RegisterName("length")
		selStringWithUTF8String = objc.RegisterName("stringWithUTF8String:")
	})
	return initErr
}

// session runs fn inside an autorelease pool with the general pasteboard.
func session(fn func(pb objc.ID) error) error {
	if err := Load(); err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pool := objc.ID(objc.GetClass("NSAutoreleasePool")).Send(selAlloc).Send(selInit)
	if pool != 0 {
		defer pool.Send(selRelease)
	}

	class := objc.GetClass("NSPasteboard")
	if class == 0 {
		return fmt.Errorf("pasteboard: NSPasteboard class not found")
	}
	pb := objc.ID(class).Send(selGeneralPasteboard)
	if pb == 0 {
		return fmt.Errorf("pasteboard: no general pasteboard")
	}
	return fn(pb)
}

// Write clears the pasteboard and stores entries in order. Entries after a
// rejected one are not written.
func Write(entries []Entry) error {
	return session(func(pb objc.ID) error {
		pb.Send(selClearContents)
		for _, e := range entries {
			if !objc.Send[bool](pb, selSetDataForType, nsData(e.Data), nsString(e.Type)) {
				return fmt.Errorf("pasteboard: setData:forType: %s was rejected", e.Type)
			}
		}
		return nil
	})
}

// Read returns the data stored under uti, or nil when there is none.
func Read(uti string) ([]byte, error) {
	var out []byte
	err := session(func(pb objc.ID) error {
		data := objc.Send[objc.ID](pb, selDataForType, nsString(uti))
		out = goBytes(data)
		return nil
	})
	return out, err
}

func nsString(v string) objc.ID {
	return objc.ID(objc.GetClass("NSString")).Send(selStringWithUTF8String, v+"\x00")
}

func nsData(b []byte) objc.ID {
	var p unsafe.Pointer
	if len(b) > 0 {
		p = unsafe.Pointer(&b[0])
	}
	d := objc.ID(objc.GetClass("NSData")).Send(selDataWithBytesLength, p, uint64(len(b)))
	runtime.KeepAlive(b)
	return d
}

// goBytes copies the contents of an NSData; the buffer belongs to the pool.
func goBytes(data objc.ID) []byte {
	if data == 0 {
		return nil
	}
	n := objc.Send[uint64](data, selLength)
	if n == 0 {
		return nil
	}
	p := objc.Send[unsafe.Pointer](data, selBytes)
	if p == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(p), n))
	return out
}
