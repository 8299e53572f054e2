package completions

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/history"

	"github.com/spf13/cobra"
)

func TestFilterPrefix(t *testing.T) {
	c := NewCompleter()
	items := []string{"text\tPlain", "html\tHTML", "HTML Format\tnative"}

	tests := []struct {
		prefix string
		want   int
	}{
		{"", 3},
		{"t", 1},
		{"ht", 2},
		{"HT", 2},
		{"x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.filterPrefix(items, tt.prefix)
			if len(got) != tt.want {
				t.Errorf("filterPrefix(%q) = %v, want %d items", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleteFormatNames(t *testing.T) {
	c := NewCompleter()

	got, directive := c.CompleteFormatNames(&cobra.Command{}, nil, "r")
	if len(got) != 1 || !strings.HasPrefix(got[0], "rtf\t") {
		t.Errorf("CompleteFormatNames(r) = %v, want rtf", got)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}

	got, _ = c.CompleteFormatNames(&cobra.Command{}, []string{"text"}, "")
	if len(got) != 0 {
		t.Errorf("second argument completed to %v, want nothing", got)
	}
}

func TestCompleteCustomFormatStopsAtValue(t *testing.T) {
	c := NewCompleter()

	got, _ := c.CompleteCustomFormat(&cobra.Command{}, nil, "image/")
	if len(got) != 1 || !strings.HasPrefix(got[0], "image/png=@") {
		t.Errorf("CompleteCustomFormat(image/) = %v", got)
	}

	got, directive := c.CompleteCustomFormat(&cobra.Command{}, nil, "image/png=@")
	if got != nil || directive != cobra.ShellCompDirectiveDefault {
		t.Errorf("value half completed to %v (%v), want file completion", got, directive)
	}
}

func TestCompleteHistoryIDs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	entry, err := store.Record([]clipboard.Item{clipboard.Text("remember me")})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	store.Close()

	c := NewCompleter()
	c.openHistory = func(*cobra.Command) (*history.Store, error) {
		return history.Open(dbPath)
	}

	got, _ := c.CompleteHistoryIDs(&cobra.Command{}, nil, entry.ID[:2])
	if len(got) != 1 {
		t.Fatalf("CompleteHistoryIDs() = %v, want one id", got)
	}
	if got[0] != entry.ShortID()+"\tremember me" {
		t.Errorf("CompleteHistoryIDs() = %q", got[0])
	}

	// A store that cannot be opened falls back to the ids seen last time.
	c.openHistory = func(*cobra.Command) (*history.Store, error) {
		return nil, errors.New("locked")
	}
	got, _ = c.CompleteHistoryIDs(&cobra.Command{}, nil, "")
	if len(got) != 1 {
		t.Errorf("fallback completion = %v, want the cached id", got)
	}
}

func TestRegisterCompletions(t *testing.T) {
	root := &cobra.Command{Use: "clipctl"}
	root.PersistentFlags().String("format", "table", "")
	paste := &cobra.Command{Use: "paste", Run: func(*cobra.Command, []string) {}}
	hist := &cobra.Command{Use: "history"}
	show := &cobra.Command{Use: "show", Run: func(*cobra.Command, []string) {}}
	hist.AddCommand(show)
	root.AddCommand(paste, hist)

	RegisterCompletions(root)

	if paste.ValidArgsFunction == nil {
		t.Error("paste has no argument completion")
	}
	if show.ValidArgsFunction == nil {
		t.Error("history show has no argument completion")
	}
	if hist.ValidArgsFunction != nil {
		t.Error("history itself should not complete ids")
	}
}
