// Package pasteboard reads and writes the macOS general pasteboard through
// the Objective-C runtime, loaded with purego so no cgo toolchain is needed.
package pasteboard
