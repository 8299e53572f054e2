package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipctl/pkg/clipboard"
	clierrors "clipctl/pkg/errors"
	"clipctl/pkg/markup"
)

func TestResolvePasteFormat(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		markdown     bool
		markdownFlag bool
		want         string
		wantErr      bool
	}{
		{name: "default", want: "text"},
		{name: "explicit", args: []string{"rtf"}, want: "rtf"},
		{name: "markdown flag implies html", markdown: true, markdownFlag: true, want: "html"},
		{name: "markdown from config keeps default", markdown: true, want: "text"},
		{name: "markdown with html", args: []string{"html"}, markdown: true, markdownFlag: true, want: "html"},
		{name: "markdown flag with rtf", args: []string{"rtf"}, markdown: true, markdownFlag: true, wantErr: true},
		{name: "markdown from config with rtf", args: []string{"rtf"}, markdown: true, want: "rtf"},
		{name: "empty name", args: []string{""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePasteFormat(tt.args, "text", tt.markdown, tt.markdownFlag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolvePasteFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !clierrors.IsExitCode(err, clierrors.ExitCodeValidation) {
				t.Errorf("error %v is not a validation error", err)
			}
			if got != tt.want {
				t.Errorf("resolvePasteFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPaste(t *testing.T) {
	wrapped := markup.EncodeCFHTML([]byte("<b>bold</b>"))

	tests := []struct {
		name     string
		format   string
		data     []byte
		markdown bool
		raw      bool
		want     string
	}{
		{"text untouched", clipboard.FormatText, []byte("Version:1"), false, false, "Version:1"},
		{"cf_html unwrapped", clipboard.FormatHTML, wrapped, false, false, "<b>bold</b>"},
		{"raw keeps header", clipboard.FormatHTML, wrapped, false, true, string(wrapped)},
		{"plain html", clipboard.FormatHTML, []byte("<i>x</i>"), false, false, "<i>x</i>"},
		{"markdown", clipboard.FormatHTML, wrapped, true, false, "**bold**\n"},
		{"markdown of nothing", clipboard.FormatHTML, nil, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderPaste(tt.format, tt.data, tt.markdown, tt.raw)
			if err != nil {
				t.Fatalf("renderPaste() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("renderPaste() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWritePaste(t *testing.T) {
	var stdout bytes.Buffer
	if err := writePaste(&stdout, "", []byte("a")); err != nil {
		t.Fatalf("writePaste(stdout) error = %v", err)
	}
	if err := writePaste(&stdout, "-", []byte("b")); err != nil {
		t.Fatalf("writePaste(-) error = %v", err)
	}
	if stdout.String() != "ab" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "ab")
	}

	path := filepath.Join(t.TempDir(), "out.bin")
	if err := writePaste(&stdout, path, []byte{0, 1}); err != nil {
		t.Fatalf("writePaste(file) error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, []byte{0, 1}) {
		t.Errorf("file contents = %v (%v)", data, err)
	}

	err = writePaste(&stdout, filepath.Join(t.TempDir(), "missing", "out"), nil)
	if !clierrors.IsExitCode(err, clierrors.ExitCodeFileOperation) {
		t.Errorf("writePaste(bad path) error = %v, want file error", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q does not name the path", err)
	}
}
