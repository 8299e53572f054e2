package wayland

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"clipctl/pkg/logger"
)

// Object ids are allocated by the client, starting after wl_display (1).
const (
	idDisplay   uint32 = 1
	idRegistry  uint32 = 2
	idSyncGlobs uint32 = 3
	idSeat      uint32 = 4
	idManager   uint32 = 5
	idSource    uint32 = 6
	idDevice    uint32 = 7
	idSyncOwned uint32 = 8
)

const (
	ifaceSeat    = "wl_seat"
	ifaceManager = "zwlr_data_control_manager_v1"
)

// Offer is one MIME type served from the selection.
type Offer struct {
	MimeType string
	Data     []byte
}

// SocketPath returns the compositor socket named by the environment.
func SocketPath() (string, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	if runtimeDir == "" {
		return "", fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	return filepath.Join(runtimeDir, display), nil
}

// Serve takes the selection with offers, in order, and answers paste
// requests until another client replaces the selection or the compositor
// goes away. owned, if set, runs once ownership is confirmed.
func Serve(offers []Offer, owned func()) error {
	path, err := SocketPath()
	if err != nil {
		return err
	}
	c, err := dial(path)
	if err != nil {
		return fmt.Errorf("wayland: connect %s: %w", path, err)
	}
	defer c.close()

	names, err := discoverGlobals(c)
	if err != nil {
		return err
	}
	data, err := claimSelection(c, names, offers)
	if err != nil {
		return err
	}
	logger.Debug().Int("offers", len(data)).Msg("wayland selection owned")
	if owned != nil {
		owned()
	}
	return serveRequests(c, data)
}

// discoverGlobals lists the registry and returns the global names of the
// seat and the data control manager.
func discoverGlobals(c *conn) (map[string]uint32, error) {
	if err := c.send(idDisplay, 1 /* get_registry */, uint32Arg(idRegistry)); err != nil {
		return nil, err
	}
	if err := c.send(idDisplay, 0 /* sync */, uint32Arg(idSyncGlobs)); err != nil {
		return nil, err
	}

	names := make(map[string]uint32)
	for {
		m, fd, err := c.next()
		if err != nil {
			return nil, err
		}
		closeFd(fd)

		if m.object == idSyncGlobs && m.opcode == 0 /* done */ {
			break
		}
		if m.object != idRegistry || m.opcode != 0 /* global */ {
			continue
		}
		name, rest, err := readUint32(m.args)
		if err != nil {
			continue
		}
		iface, _, err := readString(rest)
		if err != nil {
			continue
		}
		if iface == ifaceSeat || iface == ifaceManager {
			if _, seen := names[iface]; !seen {
				names[iface] = name
			}
		}
	}

	if _, ok := names[ifaceSeat]; !ok {
		return nil, fmt.Errorf("wayland: %s not found", ifaceSeat)
	}
	if _, ok := names[ifaceManager]; !ok {
		return nil, fmt.Errorf("wayland: %s not found (compositor may not support wlr-data-control)", ifaceManager)
	}
	return names, nil
}

// claimSelection offers every MIME type once and sets the selection,
// returning the payload served for each type.
func claimSelection(c *conn, names map[string]uint32, offers []Offer) (map[string][]byte, error) {
	requests := []message{
		// wl_registry.bind carries the interface name and version inline.
		{idRegistry, 0, args(uint32Arg(names[ifaceSeat]), stringArg(ifaceSeat), uint32Arg(1), uint32Arg(idSeat))},
		{idRegistry, 0, args(uint32Arg(names[ifaceManager]), stringArg(ifaceManager), uint32Arg(2), uint32Arg(idManager))},
		{idManager, 0 /* create_data_source */, uint32Arg(idSource)},
	}

	data := make(map[string][]byte, len(offers))
	for _, o := range offers {
		if _, dup := data[o.MimeType]; dup {
			continue
		}
		data[o.MimeType] = o.Data
		requests = append(requests, message{idSource, 0 /* offer */, stringArg(o.MimeType)})
	}

	requests = append(requests,
		message{idManager, 1 /* get_data_device */, args(uint32Arg(idDevice), uint32Arg(idSeat))},
		message{idDevice, 0 /* set_selection */, uint32Arg(idSource)},
		message{idDisplay, 0 /* sync */, uint32Arg(idSyncOwned)},
	)
	for _, r := range requests {
		if err := c.send(r.object, r.opcode, r.args); err != nil {
			return nil, err
		}
	}

	for {
		m, fd, err := c.next()
		if err != nil {
			return nil, err
		}
		closeFd(fd)
		if m.object == idSyncOwned && m.opcode == 0 /* done */ {
			return data, nil
		}
	}
}

func serveRequests(c *conn, data map[string][]byte) error {
	for {
		m, fd, err := c.next()
		if err != nil {
			// The compositor hung up; nothing left to own.
			logger.Debug().Err(err).Msg("wayland connection ended")
			return nil
		}
		if m.object != idSource {
			closeFd(fd)
			continue
		}

		switch m.opcode {
		case 0: // send
			mimeType, _, _ := readString(m.args)
			if fd < 0 {
				continue
			}
			if payload, ok := data[mimeType]; ok {
				if err := writeAll(fd, payload); err != nil {
					logger.Warn().Err(err).Str("mime", mimeType).Msg("failed to serve selection")
				}
			}
			closeFd(fd)
		case 1: // cancelled
			return nil
		default:
			closeFd(fd)
		}
	}
}

func closeFd(fd int) {
	if fd >= 0 {
		syscall.Close(fd) //nolint:errcheck
	}
}
