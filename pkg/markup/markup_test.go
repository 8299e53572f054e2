package markup

import (
	"strings"
	"testing"
)

func TestEncodeDecodeCFHTML(t *testing.T) {
	fragments := []string{"<b>bold</b>", "", "<p>héllo</p>"}
	for _, fragment := range fragments {
		encoded := EncodeCFHTML([]byte(fragment))
		if !HasCFHTMLHeader(encoded) {
			t.Fatalf("EncodeCFHTML(%q) has no header", fragment)
		}
		if got := string(DecodeCFHTML(encoded)); got != fragment {
			t.Errorf("DecodeCFHTML(EncodeCFHTML(%q)) = %q", fragment, got)
		}
	}
}

func TestEncodeCFHTMLOffsets(t *testing.T) {
	encoded := string(EncodeCFHTML([]byte("<i>x</i>")))
	offsets, _ := parseHeader([]byte(encoded))

	if got := encoded[offsets["StartHTML"]:offsets["EndHTML"]]; !strings.HasPrefix(got, "<html>") || !strings.HasSuffix(got, "</html>") {
		t.Errorf("StartHTML/EndHTML select %q", got)
	}
	if got := encoded[offsets["StartFragment"]:offsets["EndFragment"]]; got != "<i>x</i>" {
		t.Errorf("StartFragment/EndFragment select %q", got)
	}
	if offsets["EndHTML"] != len(encoded) {
		t.Errorf("EndHTML = %d, want %d", offsets["EndHTML"], len(encoded))
	}
}

func TestDecodeCFHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain html untouched",
			in:   "<b>x</b>",
			want: "<b>x</b>",
		},
		{
			name: "bad offsets fall back to markers",
			in:   "Version:0.9\r\nStartHTML:-1\r\nEndHTML:-1\r\nStartFragment:999\r\nEndFragment:1000\r\n<html><body><!--StartFragment--><u>y</u><!--EndFragment--></body></html>",
			want: "<u>y</u>",
		},
		{
			name: "header with source url",
			in:   "Version:1.0\nSourceURL:https://example.com/a\n<p>z</p>",
			want: "<p>z</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(DecodeCFHTML([]byte(tt.in))); got != tt.want {
				t.Errorf("DecodeCFHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		contains []string
	}{
		{name: "empty", in: nil},
		{name: "emphasis", in: []byte("<p>a <strong>bold</strong> move</p>"), contains: []string{"**bold**"}},
		{name: "link", in: []byte(`<a href="https://example.com">site</a>`), contains: []string{"[site](https://example.com)"}},
		{name: "wrapped", in: EncodeCFHTML([]byte("<h1>Title</h1>")), contains: []string{"# Title"}},
		{name: "strikethrough", in: []byte("<del>gone</del>"), contains: []string{"~~gone~~"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMarkdown(tt.in)
			if err != nil {
				t.Fatalf("ToMarkdown() error = %v", err)
			}
			if len(tt.contains) == 0 && got != "" {
				t.Errorf("ToMarkdown() = %q, want empty", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToMarkdown() = %q, want it to contain %q", got, want)
				}
			}
			if strings.Contains(got, "Version:") {
				t.Errorf("ToMarkdown() leaked the CF_HTML header: %q", got)
			}
		})
	}
}
