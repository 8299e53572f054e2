// Package markup converts clipboard HTML: the CF_HTML envelope Windows
// applications exchange, and Markdown rendering for terminal output.
package markup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

const (
	fragmentStart = "<!--StartFragment-->"
	fragmentEnd   = "<!--EndFragment-->"
)

// The header is fixed width so that offsets can be computed before the
// header itself is written.
const cfHTMLHeader = "Version:0.9\r\n" +
	"StartHTML:%010d\r\n" +
	"EndHTML:%010d\r\n" +
	"StartFragment:%010d\r\n" +
	"EndFragment:%010d\r\n"

// HasCFHTMLHeader reports whether data starts with a CF_HTML description.
func HasCFHTMLHeader(data []byte) bool {
	return bytes.HasPrefix(data, []byte("Version:"))
}

// EncodeCFHTML wraps an HTML fragment in the CF_HTML envelope.
func EncodeCFHTML(fragment []byte) []byte {
	headerLen := len(fmt.Sprintf(cfHTMLHeader, 0, 0, 0, 0))
	prefix := "<html><body>\r\n" + fragmentStart
	suffix := fragmentEnd + "\r\n</body></html>"

	startHTML := headerLen
	startFragment := startHTML + len(prefix)
	endFragment := startFragment + len(fragment)
	endHTML := endFragment + len(suffix)

	var buf bytes.Buffer
	buf.Grow(endHTML)
	fmt.Fprintf(&buf, cfHTMLHeader, startHTML, endHTML, startFragment, endFragment)
	buf.WriteString(prefix)
	buf.Write(fragment)
	buf.WriteString(suffix)
	return buf.Bytes()
}

// DecodeCFHTML returns the fragment described by a CF_HTML header. Data
// without a header is returned unchanged; a header with unusable offsets
// falls back to the text after the header lines.
func DecodeCFHTML(data []byte) []byte {
	if !HasCFHTMLHeader(data) {
		return data
	}

	offsets, body := parseHeader(data)
	if s, e, ok := span(offsets, "StartFragment", "EndFragment", len(data)); ok {
		return data[s:e]
	}
	if s, e, ok := span(offsets, "StartHTML", "EndHTML", len(data)); ok {
		return trimFragment(data[s:e])
	}
	return trimFragment(data[body:])
}

// parseHeader reads "Key:value" lines and returns the numeric ones, plus
// where the header ends.
func parseHeader(data []byte) (map[string]int, int) {
	offsets := make(map[string]int)
	pos := 0
	for pos < len(data) {
		end := bytes.IndexByte(data[pos:], '\n')
		if end < 0 {
			end = len(data) - pos
		}
		line := strings.TrimRight(string(data[pos:pos+end]), "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.ContainsAny(key, " <") || key == "" {
			break
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			offsets[key] = n
		}
		pos += end + 1
	}
	if pos > len(data) {
		pos = len(data)
	}
	return offsets, pos
}

func span(offsets map[string]int, startKey, endKey string, size int) (int, int, bool) {
	s, okS := offsets[startKey]
	e, okE := offsets[endKey]
	if !okS || !okE || s < 0 || e < s || e > size {
		return 0, 0, false
	}
	return s, e, true
}

// trimFragment cuts html down to the part between fragment markers.
func trimFragment(html []byte) []byte {
	if i := bytes.Index(html, []byte(fragmentStart)); i >= 0 {
		html = html[i+len(fragmentStart):]
	}
	if i := bytes.Index(html, []byte(fragmentEnd)); i >= 0 {
		html = html[:i]
	}
	return html
}

// ToMarkdown renders clipboard HTML as Markdown, unwrapping CF_HTML first.
func ToMarkdown(html []byte) (string, error) {
	html = DecodeCFHTML(html)
	if len(bytes.TrimSpace(html)) == 0 {
		return "", nil
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertString(string(html))
	if err != nil {
		return "", err
	}

	markdown = strings.ReplaceAll(markdown, `\!\[`, `![`)
	markdown = strings.ReplaceAll(markdown, `\[`, `[`)
	markdown = strings.ReplaceAll(markdown, `\]`, `]`)
	markdown = strings.ReplaceAll(markdown, `\_`, `_`)

	return markdown, nil
}
