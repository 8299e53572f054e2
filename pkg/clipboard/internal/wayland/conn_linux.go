package wayland

import (
	"fmt"
	"syscall"
)

// conn is a buffered connection to the compositor socket. File descriptors
// that arrive as SCM_RIGHTS are queued and handed out with the next message.
type conn struct {
	fd      int
	inBuf   []byte
	pending []int
}

func dial(path string) (*conn, error) {
	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM|syscall.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	if err := syscall.Connect(fd, &syscall.SockaddrUnix{Name: path}); err != nil {
		syscall.Close(fd) //nolint:errcheck
		return nil, err
	}
	return &conn{fd: fd}, nil
}

func (c *conn) close() {
	for _, fd := range c.pending {
		syscall.Close(fd) //nolint:errcheck
	}
	syscall.Close(c.fd) //nolint:errcheck
}

func (c *conn) send(object uint32, opcode uint16, a []byte) error {
	_, err := syscall.Write(c.fd, message{object: object, opcode: opcode, args: a}.encode())
	return err
}

// next returns the next event and the descriptor that came with it, or -1.
func (c *conn) next() (message, int, error) {
	for {
		m, rest, ok, err := splitMessage(c.inBuf)
		if err != nil {
			return message{}, -1, err
		}
		if ok {
			c.inBuf = rest
			fd := -1
			if len(c.pending) > 0 {
				fd = c.pending[0]
				c.pending = c.pending[1:]
			}
			return m, fd, nil
		}
		if err := c.fill(); err != nil {
			return message{}, -1, err
		}
	}
}

func (c *conn) fill() error {
	buf := make([]byte, 4096)
	oob := make([]byte, syscall.CmsgSpace(4*8))
	n, oobn, _, _, err := syscall.Recvmsg(c.fd, buf, oob, syscall.MSG_CMSG_CLOEXEC)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wayland: connection closed")
	}
	c.inBuf = append(c.inBuf, buf[:n]...)

	if oobn == 0 {
		return nil
	}
	scms, err := syscall.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil
	}
	for i := range scms {
		if rights, err := syscall.ParseUnixRights(&scms[i]); err == nil {
			c.pending = append(c.pending, rights...)
		}
	}
	return nil
}

// writeAll writes data to fd, riding out short writes and interrupts.
func writeAll(fd int, data []byte) error {
	for len(data) > 0 {
		n, err := syscall.Write(fd, data)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
