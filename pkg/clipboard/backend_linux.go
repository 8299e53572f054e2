//go:build linux

package clipboard

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"clipctl/pkg/clipboard/internal/wayland"
	"clipctl/pkg/logger"

	atotto "github.com/atotto/clipboard"
)

const serveReadyTimeout = 3 * time.Second

// mimeTypes lists what each built-in format is offered as, most specific
// first. X11 clients still ask for the legacy atom names through XWayland.
var mimeTypes = map[string][]string{
	FormatText: {"text/plain;charset=utf-8", "text/plain", "UTF8_STRING", "STRING", "TEXT"},
	FormatHTML: {"text/html"},
	FormatRTF:  {"text/rtf"},
}

func mimeTypesFor(name string) []string {
	if types, ok := mimeTypes[name]; ok {
		return types
	}
	return []string{name}
}

func nativeFormat(name string) string {
	return mimeTypesFor(name)[0]
}

type linuxBackend struct {
	wayland bool
}

func newBackend() (Backend, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return &linuxBackend{wayland: true}, nil
	}
	if atotto.Unsupported {
		return nil, fmt.Errorf("%w: no xclip, xsel or wl-clipboard found", ErrUnsupportedPlatform)
	}
	return &linuxBackend{}, nil
}

func (b *linuxBackend) Copy(items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	if b.wayland {
		return spawnServer(items)
	}
	text, err := x11Text(items)
	if err != nil {
		return err
	}
	return atotto.WriteAll(text)
}

func (b *linuxBackend) Paste(format string) ([]byte, error) {
	if format == "" {
		format = FormatText
	}
	if b.wayland {
		return wlPaste(nativeFormat(format))
	}
	if format != FormatText {
		return nil, fmt.Errorf("%w: %s requires Wayland", ErrUnsupportedFormat, format)
	}
	return x11Paste()
}

// x11ReadAll is replaced in tests.
var x11ReadAll = atotto.ReadAll

// x11Paste reads the text selection. xclip and xsel exit non-zero when the
// selection holds no text, which is an empty clipboard, not a failure.
func x11Paste() ([]byte, error) {
	text, err := x11ReadAll()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug().Err(err).Str("stderr", strings.TrimSpace(string(exitErr.Stderr))).Msg("X11 selection holds no text")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// x11Text picks the text written through the X11 utilities, which carry
// plain text only. Other formats are dropped with a warning.
func x11Text(items []Item) (string, error) {
	var text *Item
	for i := range items {
		if items[i].Format == FormatText && text == nil {
			text = &items[i]
			continue
		}
		logger.Warn().Str("format", items[i].Format).Msg("format dropped: X11 clipboard holds plain text only")
	}
	if text == nil && len(items) > 0 {
		return "", fmt.Errorf("%w: X11 clipboard holds plain text only", ErrUnsupportedFormat)
	}
	if text == nil {
		return "", nil
	}
	return string(text.Data), nil
}

// offers expands items into the MIME types served from the selection.
func offers(items []Item) []wayland.Offer {
	var out []wayland.Offer
	for _, item := range items {
		for _, mime := range mimeTypesFor(item.Format) {
			out = append(out, wayland.Offer{MimeType: mime, Data: item.Data})
		}
	}
	return out
}

// spawnServer re-executes this binary as a detached selection owner and
// waits until it reports that it owns the selection.
func spawnServer(items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	cmd := exec.Command(exe, ServeCommand)
	cmd.Stdin = bytes.NewReader(payload)
	// A new session keeps the owner alive after this process exits.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start clipboard server: %w", err)
	}
	defer cmd.Process.Release() //nolint:errcheck

	ready := make(chan error, 1)
	go func() {
		line, _ := bufio.NewReader(stdout).ReadString('\n')
		line = strings.TrimSpace(line)
		switch {
		case line == ServeReady:
			ready <- nil
		case line != "":
			ready <- errors.New(line)
		default:
			ready <- errors.New("clipboard server exited before owning the selection")
		}
	}()

	select {
	case err := <-ready:
		return err
	case <-time.After(serveReadyTimeout):
		return fmt.Errorf("clipboard server did not own the selection within %v", serveReadyTimeout)
	}
}

// ServeClipboard owns the Wayland selection with items and blocks until it
// is replaced. owned runs once the compositor has confirmed ownership.
func ServeClipboard(items []Item, owned func()) error {
	if err := validate(items); err != nil {
		return err
	}
	return wayland.Serve(offers(items), owned)
}

func wlPaste(mime string) ([]byte, error) {
	cmd := exec.Command("wl-paste", "--no-newline", "--type", mime)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: wl-paste not found", ErrUnsupportedFormat)
	}
	if isEmptySelection(stderr.String()) {
		return nil, nil
	}
	return nil, fmt.Errorf("wl-paste --type %s: %w: %s", mime, err, strings.TrimSpace(stderr.String()))
}

// isEmptySelection recognises the wl-paste messages for a selection that
// has nothing under the requested type.
func isEmptySelection(stderr string) bool {
	for _, msg := range []string{"No suitable type of content copied", "Nothing is copied", "No selection"} {
		if strings.Contains(stderr, msg) {
			return true
		}
	}
	return false
}
