// Package wayland owns the selection of a wlroots-style compositor through
// zwlr_data_control_v1, speaking the wire protocol directly over the
// compositor socket.
package wayland

import (
	"encoding/binary"
	"fmt"
)

var le = binary.LittleEndian

const headerSize = 8

// message is one decoded wire message. Requests and events share the layout.
type message struct {
	object uint32
	opcode uint16
	args   []byte
}

// encode lays out the 8-byte header (object id, then size<<16 | opcode)
// followed by the arguments.
func (m message) encode() []byte {
	size := headerSize + len(m.args)
	buf := make([]byte, size)
	le.PutUint32(buf[0:], m.object)
	le.PutUint32(buf[4:], uint32(m.opcode)|uint32(size)<<16)
	copy(buf[headerSize:], m.args)
	return buf
}

// splitMessage cuts the first complete message off buf. ok is false while
// buf holds only part of a message.
func splitMessage(buf []byte) (m message, rest []byte, ok bool, err error) {
	if len(buf) < headerSize {
		return message{}, buf, false, nil
	}
	word := le.Uint32(buf[4:8])
	size := int(word >> 16)
	if size < headerSize {
		return message{}, buf, false, fmt.Errorf("wayland: invalid message size %d", size)
	}
	if len(buf) < size {
		return message{}, buf, false, nil
	}
	m = message{
		object: le.Uint32(buf[0:4]),
		opcode: uint16(word & 0xffff),
		args:   append([]byte(nil), buf[headerSize:size]...),
	}
	return m, buf[size:], true, nil
}

// args concatenates encoded arguments.
func args(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func uint32Arg(v uint32) []byte {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return b
}

// stringArg encodes a string as its length including the NUL, the bytes,
// the NUL and padding to a 4-byte boundary.
func stringArg(s string) []byte {
	length := len(s) + 1
	buf := make([]byte, 4+(length+3)&^3)
	le.PutUint32(buf[0:], uint32(length))
	copy(buf[4:], s)
	return buf
}

func readUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, data, fmt.Errorf("wayland: short uint argument")
	}
	return le.Uint32(data[:4]), data[4:], nil
}

func readString(data []byte) (string, []byte, error) {
	length, data, err := readUint32(data)
	if err != nil {
		return "", data, err
	}
	if length == 0 {
		return "", data, nil
	}
	padded := int(length+3) &^ 3
	if len(data) < padded {
		return "", data, fmt.Errorf("wayland: short string argument")
	}
	return string(data[:length-1]), data[padded:], nil
}
