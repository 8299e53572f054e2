package cmd

import (
	"io"
	"os"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/errors"
	"clipctl/pkg/markup"

	"github.com/spf13/cobra"
)

var (
	pasteMarkdown bool
	pasteOutput   string
	pasteRaw      bool
)

var pasteCmd = &cobra.Command{
	Use:   "paste [FORMAT]",
	Short: "Write the clipboard contents to stdout",
	Long: `Write the clipboard contents stored under FORMAT to stdout, or to a file
with --output. FORMAT is text, html, rtf or any custom format name; it
defaults to paste.default_format from the configuration.

An empty clipboard, or one without the requested format, prints nothing.`,
	Example: `  # Paste text
  clipctl paste

  # Paste HTML rendered as Markdown
  clipctl paste html --markdown

  # Save a custom format to a file
  clipctl paste application/x-diagram --output diagram.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markdown := cfg.Paste.Markdown
		if cmd.Flags().Changed("markdown") {
			markdown = pasteMarkdown
		}
		format, err := resolvePasteFormat(args, cfg.Paste.DefaultFormat, markdown, cmd.Flags().Changed("markdown"))
		if err != nil {
			return err
		}

		backend, err := newBackend()
		if err != nil {
			return classifyClipboardError(errors.ErrMsgBackendFailure, format, err)
		}
		data, err := backend.Paste(format)
		if err != nil {
			return classifyClipboardError(errors.ErrMsgPasteFailed, format, err)
		}

		data, err = renderPaste(format, data, markdown && format == clipboard.FormatHTML, pasteRaw)
		if err != nil {
			return err
		}
		return writePaste(cmd.OutOrStdout(), pasteOutput, data)
	},
}

// resolvePasteFormat picks the format to read. --markdown without a format
// reads HTML; asking for Markdown from anything else is an error, unless it
// only came from the config file.
func resolvePasteFormat(args []string, defaultFormat string, markdown, markdownFlag bool) (string, error) {
	if len(args) == 1 {
		format := args[0]
		if format == "" {
			return "", errors.ValidationError("Format name must not be empty")
		}
		if markdown && markdownFlag && format != clipboard.FormatHTML {
			return "", errors.NewWithSuggestion(errors.ExitCodeValidation,
				"--markdown only applies to html",
				"Run 'clipctl paste html --markdown'.")
		}
		return format, nil
	}
	if markdown && markdownFlag {
		return clipboard.FormatHTML, nil
	}
	return defaultFormat, nil
}

// renderPaste unwraps CF_HTML envelopes and optionally converts HTML to
// Markdown.
func renderPaste(format string, data []byte, markdown, raw bool) ([]byte, error) {
	if format != clipboard.FormatHTML || raw {
		return data, nil
	}
	if markdown {
		md, err := markup.ToMarkdown(data)
		if err != nil {
			return nil, errors.NewWithError(errors.ExitCodeGeneral, errors.ErrMsgConvertFailed, err)
		}
		if md != "" {
			md += "\n"
		}
		return []byte(md), nil
	}
	return markup.DecodeCFHTML(data), nil
}

func writePaste(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgWriteOutput, err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FileError(path, err)
	}
	return nil
}

func init() {
	pasteCmd.Flags().BoolVar(&pasteMarkdown, "markdown", false, "Render HTML as Markdown")
	pasteCmd.Flags().StringVarP(&pasteOutput, "output", "o", "", "Write to a file instead of stdout")
	pasteCmd.Flags().BoolVar(&pasteRaw, "raw", false, "Print HTML exactly as stored, including any CF_HTML header")
}
