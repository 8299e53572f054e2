package winclip

import (
	"golang.org/x/text/encoding/unicode"
)

// CF_UNICODETEXT holds little-endian UTF-16 without a byte order mark.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func encodeUnicodeText(text []byte) ([]byte, error) {
	return utf16le.NewEncoder().Bytes(text)
}

func decodeUnicodeText(raw []byte) ([]byte, error) {
	return utf16le.NewDecoder().Bytes(raw)
}

// terminatorWidth is the size in bytes of the NUL that ends a payload of the
// given format.
func terminatorWidth(format uint32) int {
	if format == cfUnicodeText {
		return 2
	}
	return 1
}

// trimAtTerminator cuts buf at the first NUL unit of the given width. A
// buffer without a terminator is returned whole, minus a trailing partial
// unit.
func trimAtTerminator(buf []byte, width int) []byte {
	n := len(buf) - len(buf)%width
	for i := 0; i < n; i += width {
		zero := true
		for j := 0; j < width; j++ {
			if buf[i+j] != 0 {
				zero = false
				break
			}
		}
		if zero {
			return buf[:i]
		}
	}
	return buf[:n]
}
