package cmd

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/errors"
	"clipctl/pkg/history"
	"clipctl/pkg/logger"
	"clipctl/pkg/markup"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type copyOptions struct {
	html      string
	htmlFile  string
	rtf       string
	rtfFile   string
	custom    []string
	stdin     bool
	noHistory bool
}

var copyOpts copyOptions

var copyCmd = &cobra.Command{
	Use:   "copy [TEXT...]",
	Short: "Replace the clipboard contents",
	Long: `Replace the clipboard contents with one or more formats.

Text comes from the arguments, or from stdin when --stdin is given or stdin
is not a terminal. HTML, RTF and custom formats are added with flags; all
formats are written together, replacing everything on the clipboard.`,
	Example: `  # Copy plain text
  clipctl copy "hello world"

  # Copy the output of a command
  git log -1 | clipctl copy

  # Copy text with an HTML alternative for rich-text editors
  clipctl copy "docs" --html '<a href="https://example.com">docs</a>'

  # Copy a custom format, read from a file
  clipctl copy --format application/x-diagram=@diagram.bin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stdin := io.Reader(nil)
		if copyOpts.stdin || (len(args) == 0 && !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())) {
			stdin = cmd.InOrStdin()
		}

		items, err := buildCopyItems(copyOpts, args, stdin, os.ReadFile)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errors.NewWithSuggestion(errors.ExitCodeValidation, "Nothing to copy",
				"Pass text as an argument, pipe it on stdin or use --html, --rtf or --format.")
		}
		items = wrapNativeHTML(items)

		backend, err := newBackend()
		if err != nil {
			return classifyClipboardError(errors.ErrMsgBackendFailure, "", err)
		}
		if err := backend.Copy(items...); err != nil {
			return classifyClipboardError(errors.ErrMsgCopyFailed, failedFormat(err), err)
		}
		logger.Info().Strs("formats", itemFormats(items)).Msg("copied to clipboard")

		if !copyOpts.noHistory {
			recordHistory(items)
		}
		return nil
	},
}

// buildCopyItems collects the items in clipboard order: text, html, rtf,
// then custom formats as given.
func buildCopyItems(opts copyOptions, args []string, stdin io.Reader, readFile func(string) ([]byte, error)) ([]clipboard.Item, error) {
	var items []clipboard.Item

	switch {
	case len(args) > 0 && opts.stdin:
		return nil, errors.ValidationError("Text arguments and --stdin cannot be combined")
	case len(args) > 0:
		items = append(items, clipboard.Text(strings.Join(args, " ")))
	case stdin != nil:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgReadInput, err)
		}
		items = append(items, clipboard.Text(string(data)))
	}

	for _, src := range []struct {
		format, value, file, flag string
	}{
		{clipboard.FormatHTML, opts.html, opts.htmlFile, "html"},
		{clipboard.FormatRTF, opts.rtf, opts.rtfFile, "rtf"},
	} {
		if src.value != "" && src.file != "" {
			return nil, errors.ValidationError(fmt.Sprintf("--%s and --%s-file cannot be combined", src.flag, src.flag))
		}
		switch {
		case src.value != "":
			items = append(items, clipboard.Item{Format: src.format, Data: []byte(src.value)})
		case src.file != "":
			data, err := readFile(src.file)
			if err != nil {
				return nil, errors.FileError(src.file, err)
			}
			items = append(items, clipboard.Item{Format: src.format, Data: data})
		}
	}

	for _, spec := range opts.custom {
		item, err := parseCustomFormat(spec, readFile)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// parseCustomFormat reads name=value, or name=@path to take the payload
// from a file.
func parseCustomFormat(spec string, readFile func(string) ([]byte, error)) (clipboard.Item, error) {
	name, value, ok := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return clipboard.Item{}, errors.NewWithSuggestion(errors.ExitCodeValidation,
			fmt.Sprintf("Invalid --format value %q", spec),
			"Use --format name=value or --format name=@file.")
	}
	if path, isFile := strings.CutPrefix(value, "@"); isFile {
		data, err := readFile(path)
		if err != nil {
			return clipboard.Item{}, errors.FileError(path, err)
		}
		return clipboard.Custom(name, data), nil
	}
	return clipboard.Custom(name, []byte(value)), nil
}

// wrapNativeHTML adds the CF_HTML envelope Windows applications expect
// under "HTML Format".
func wrapNativeHTML(items []clipboard.Item) []clipboard.Item {
	if clipboard.NativeFormat(clipboard.FormatHTML) != "HTML Format" {
		return items
	}
	out := make([]clipboard.Item, len(items))
	for i, item := range items {
		if item.Format == clipboard.FormatHTML && !markup.HasCFHTMLHeader(item.Data) {
			item.Data = markup.EncodeCFHTML(item.Data)
		}
		out[i] = item
	}
	return out
}

// failedFormat names the item a copy failed on, when the backend reports it.
func failedFormat(err error) string {
	var ferr *clipboard.FormatError
	if goerrors.As(err, &ferr) {
		return ferr.Format
	}
	return ""
}

func itemFormats(items []clipboard.Item) []string {
	formats := make([]string, len(items))
	for i, item := range items {
		formats[i] = item.Format
	}
	return formats
}

// recordHistory stores a successful copy. History problems never fail the
// copy itself.
func recordHistory(items []clipboard.Item) {
	if !cfg.History.Enabled {
		return
	}
	store, err := openHistory()
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable; copy not recorded")
		return
	}
	defer store.Close()

	entry, err := store.Record(items)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record copy in history")
		return
	}
	if removed, err := store.Prune(cfg.History.MaxEntries); err != nil {
		logger.Warn().Err(err).Msg("failed to prune history")
	} else if removed > 0 {
		logger.Debug().Int("removed", removed).Msg("pruned history")
	}
	logger.Debug().Str("id", entry.ID).Msg("recorded copy in history")
}

func openHistory() (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

func init() {
	copyCmd.Flags().StringVar(&copyOpts.html, "html", "", "HTML to copy alongside the text")
	copyCmd.Flags().StringVar(&copyOpts.htmlFile, "html-file", "", "Read HTML to copy from a file")
	copyCmd.Flags().StringVar(&copyOpts.rtf, "rtf", "", "RTF to copy alongside the text")
	copyCmd.Flags().StringVar(&copyOpts.rtfFile, "rtf-file", "", "Read RTF to copy from a file")
	copyCmd.Flags().StringArrayVar(&copyOpts.custom, "format", nil, "Custom format as name=value or name=@file (repeatable)")
	copyCmd.Flags().BoolVar(&copyOpts.stdin, "stdin", false, "Read the text from stdin")
	copyCmd.Flags().BoolVar(&copyOpts.noHistory, "no-history", false, "Do not record this copy in the history")
}
