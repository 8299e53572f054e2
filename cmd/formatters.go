package cmd

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatTable is the default human-readable table format
	FormatTable OutputFormat = "table"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs as YAML
	FormatYAML OutputFormat = "yaml"
)

// OutputWriter handles structured output formatting
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new output writer with the specified format
func NewOutputWriter(format string) *OutputWriter {
	f := OutputFormat(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatTable // default
	}
	return &OutputWriter{
		format: f,
		writer: os.Stdout,
	}
}

// SetWriter sets a custom writer (used in tests)
func (w *OutputWriter) SetWriter(writer io.Writer) {
	w.writer = writer
}

// IsStructured returns true if the format is JSON or YAML
func (w *OutputWriter) IsStructured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

// Write outputs the data in the configured format
func (w *OutputWriter) Write(data interface{}) error {
	switch w.format {
	case FormatJSON:
		encoder := json.NewEncoder(w.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w.writer)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		// Table format is handled by individual commands
		return nil
	}
}

// ValidFormats returns a list of valid output formats
func ValidFormats() []string {
	return []string{"table", "json", "yaml"}
}

func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
