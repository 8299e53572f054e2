package completions

import (
	"fmt"
	"strings"
	"sync"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/config"
	"clipctl/pkg/history"

	"github.com/spf13/cobra"
)

// historyCompletionLimit bounds how many ids are offered for completion.
const historyCompletionLimit = 50

type Completer struct {
	// openHistory is replaced in tests.
	openHistory func(cmd *cobra.Command) (*history.Store, error)

	mu  sync.RWMutex
	ids []string
}

func NewCompleter() *Completer {
	return &Completer{openHistory: openConfiguredHistory}
}

// CompleteFormatNames offers the built-in clipboard formats. Custom names
// are accepted but cannot be enumerated.
func (c *Completer) CompleteFormatNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	formats := []string{clipboard.FormatText, clipboard.FormatHTML, clipboard.FormatRTF}
	results := c.filterPrefix(formats, toComplete)

	for i, format := range results {
		results[i] = fmt.Sprintf("%s\t%s", format, getFormatDescription(format))
	}

	return results, cobra.ShellCompDirectiveNoFileComp
}

// CompleteCustomFormat completes the name half of a name=value flag.
func (c *Completer) CompleteCustomFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.Contains(toComplete, "=") {
		return nil, cobra.ShellCompDirectiveDefault
	}
	examples := []string{
		"application/json=\tJSON document",
		"image/png=@\tPNG image read from a file",
		"text/uri-list=\tList of URIs",
	}
	return c.filterPrefix(examples, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func (c *Completer) CompleteOutputFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{
		"table\tHuman readable table",
		"json\tJSON document",
		"yaml\tYAML document",
	}
	return c.filterPrefix(formats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteHistoryIDs offers short ids of recent history entries, described
// by their preview.
func (c *Completer) CompleteHistoryIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	store, err := c.openHistory(cmd)
	if err != nil {
		return c.cachedIDs(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	defer store.Close()

	entries, err := store.List(historyCompletionLimit)
	if err != nil {
		return c.cachedIDs(toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, fmt.Sprintf("%s\t%s", e.ShortID(), e.Preview(40)))
	}

	c.mu.Lock()
	c.ids = ids
	c.mu.Unlock()

	return c.filterPrefix(ids, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) cachedIDs(toComplete string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filterPrefix(c.ids, toComplete)
}

func (c *Completer) filterPrefix(items []string, prefix string) []string {
	result := []string{}
	for _, item := range items {
		itemName := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(itemName), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func getFormatDescription(format string) string {
	switch format {
	case clipboard.FormatText:
		return "Plain text"
	case clipboard.FormatHTML:
		return "HTML fragment"
	case clipboard.FormatRTF:
		return "Rich Text Format"
	default:
		return ""
	}
}

// openConfiguredHistory opens the history database named by the --config
// flag, CLIPCTL_CONFIG or the default config file.
func openConfiguredHistory(cmd *cobra.Command) (*history.Store, error) {
	var path string
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dbPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(dbPath)
}

func RegisterCompletions(rootCmd *cobra.Command) {
	completer := NewCompleter()

	rootCmd.RegisterFlagCompletionFunc("format", completer.CompleteOutputFormat)

	pasteCmd, _, _ := rootCmd.Find([]string{"paste"})
	if pasteCmd != nil && pasteCmd != rootCmd {
		pasteCmd.ValidArgsFunction = completer.CompleteFormatNames
	}

	copyCmd, _, _ := rootCmd.Find([]string{"copy"})
	if copyCmd != nil && copyCmd != rootCmd {
		copyCmd.RegisterFlagCompletionFunc("format", completer.CompleteCustomFormat)
	}

	for _, name := range []string{"show", "restore", "delete"} {
		sub, _, _ := rootCmd.Find([]string{"history", name})
		if sub != nil && sub.Name() == name {
			sub.ValidArgsFunction = completer.CompleteHistoryIDs
		}
	}
}
