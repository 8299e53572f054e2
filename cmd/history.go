package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"clipctl/pkg/errors"
	"clipctl/pkg/filter"
	"clipctl/pkg/history"
	"clipctl/pkg/logger"

	"github.com/spf13/cobra"
)

const previewWidth = 60

var (
	historyLimit      int
	historySearch     string
	historyMatch      string
	historyWithFormat string
	historySince      time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and restore earlier copies",
	Long: `Every copy made with clipctl is recorded in a local sqlite database,
unless history is disabled in the configuration or --no-history is passed.
Entries are addressed by id; any unique prefix of an id is accepted.`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded copies, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return errors.HistoryError(err)
		}
		defer store.Close()

		f, err := buildEntryFilter(historySearch, historyMatch, historyWithFormat, historySince, time.Now())
		if err != nil {
			return err
		}

		var entries []history.Entry
		if f.Active() {
			all, err := store.List(0)
			if err != nil {
				return errors.HistoryError(err)
			}
			entries = f.Apply(all, historyLimit)
		} else {
			entries, err = store.List(historyLimit)
			if err != nil {
				return errors.HistoryError(err)
			}
		}

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history entries.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOPIED\tFORMATS\tPREVIEW")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				e.ShortID(),
				FormatTimestamp(e.CreatedAt),
				strings.Join(e.Formats(), ","),
				e.Preview(previewWidth),
			)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the formats and contents of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := loadHistoryEntry(args[0])
		if err != nil {
			return err
		}

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(entry)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID: %s\n", entry.ID)
		fmt.Fprintf(w, "Copied: %s\n", FormatTimestamp(entry.CreatedAt))
		for _, item := range entry.Items {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "[%s] %d bytes\n", item.Format, len(item.Data))
			fmt.Fprintln(w, printable(item.Data))
		}
		return nil
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Put an entry back on the clipboard",
	Long: `Copy every format of a history entry back to the clipboard. Restoring does
not create a new history entry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := loadHistoryEntry(args[0])
		if err != nil {
			return err
		}

		backend, err := newBackend()
		if err != nil {
			return classifyClipboardError(errors.ErrMsgBackendFailure, "", err)
		}
		if err := backend.Copy(entry.Items...); err != nil {
			return classifyClipboardError(errors.ErrMsgCopyFailed, failedFormat(err), err)
		}

		logger.Info().Str("id", entry.ID).Strs("formats", entry.Formats()).Msg("restored history entry")
		fmt.Fprintf(cmd.ErrOrStderr(), "Restored %s (%s)\n", entry.ShortID(), strings.Join(entry.Formats(), ", "))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return errors.HistoryError(err)
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return classifyHistoryError(args[0], err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return errors.HistoryError(err)
		}
		defer store.Close()

		count, err := store.Count()
		if err != nil {
			return errors.HistoryError(err)
		}
		if count == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "History is already empty.")
			return nil
		}

		if err := RequireConfirmation("clear clipboard history", map[string]string{
			"Entries": strconv.Itoa(count),
		}); err != nil {
			return err
		}

		removed, err := store.Clear()
		if err != nil {
			return errors.HistoryError(err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d entries\n", removed)
		return nil
	},
}

func buildEntryFilter(search, match, format string, since time.Duration, now time.Time) (*filter.EntryFilter, error) {
	f := &filter.EntryFilter{Format: format}
	if since < 0 {
		return nil, errors.ValidationError("--since must not be negative")
	}
	if since > 0 {
		f.Since = now.Add(-since)
	}
	if search == "" {
		return f, nil
	}

	mode, err := filter.ParseMode(match)
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeValidation, errors.ErrMsgInvalidInput, err)
	}
	text, err := filter.NewStringFilter(search, mode)
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeValidation, errors.ErrMsgInvalidInput, err)
	}
	f.Text = text
	return f, nil
}

func loadHistoryEntry(id string) (*history.Entry, error) {
	store, err := openHistory()
	if err != nil {
		return nil, errors.HistoryError(err)
	}
	defer store.Close()

	entry, err := store.Get(id)
	if err != nil {
		return nil, classifyHistoryError(id, err)
	}
	return entry, nil
}

// printable returns data as text, or a size marker for binary payloads.
func printable(data []byte) string {
	if !utf8.Valid(data) {
		return fmt.Sprintf("<%d bytes of binary data>", len(data))
	}
	return string(data)
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to list (0 for all)")
	historyListCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Only entries whose text matches")
	historyListCmd.Flags().StringVar(&historyMatch, "match", "contains", "How --search matches (contains, regex, fuzzy)")
	historyListCmd.Flags().StringVar(&historyWithFormat, "with-format", "", "Only entries that include this format")
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "Only entries copied within this duration (e.g. 2h)")
}
