// Package filter selects history entries by their text, formats and age.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/history"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeContains
	ModeRegex
	ModeFuzzy
)

// ParseMode maps a --match flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "contains":
		return ModeContains, nil
	case "regex", "re":
		return ModeRegex, nil
	case "fuzzy":
		return ModeFuzzy, nil
	default:
		return ModeNone, fmt.Errorf("unknown match mode %q (want contains, regex or fuzzy)", s)
	}
}

type StringFilter struct {
	Pattern string
	Mode    Mode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode Mode) (*StringFilter, error) {
	f := &StringFilter{
		Pattern: pattern,
		Mode:    mode,
	}

	if mode == ModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}

	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case ModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case ModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	case ModeFuzzy:
		return FuzzyMatch(f.Pattern, s)
	default:
		return true
	}
}

// FuzzyMatch reports whether the runes of pattern appear in text in order,
// ignoring case.
func FuzzyMatch(pattern, text string) bool {
	if pattern == "" {
		return true
	}

	p := []rune(strings.ToLower(pattern))
	i := 0
	for _, r := range strings.ToLower(text) {
		if r == p[i] {
			i++
			if i == len(p) {
				return true
			}
		}
	}
	return false
}

// EntryFilter is the conjunction of its non-zero fields.
type EntryFilter struct {
	Text   *StringFilter
	Format string
	Since  time.Time
}

func (f *EntryFilter) Active() bool {
	return f.Text != nil || f.Format != "" || !f.Since.IsZero()
}

func (f *EntryFilter) Matches(e history.Entry) bool {
	if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
		return false
	}
	if f.Format != "" && !hasFormat(e, f.Format) {
		return false
	}
	if f.Text != nil && !matchesText(f.Text, e) {
		return false
	}
	return true
}

// Apply keeps the matching entries, in order, up to limit (0 for all).
func (f *EntryFilter) Apply(entries []history.Entry, limit int) []history.Entry {
	var out []history.Entry
	for _, e := range entries {
		if limit > 0 && len(out) == limit {
			break
		}
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func hasFormat(e history.Entry, format string) bool {
	for _, item := range e.Items {
		if strings.EqualFold(item.Format, format) {
			return true
		}
	}
	return false
}

// matchesText searches the text item, falling back to any item that holds
// valid UTF-8.
func matchesText(f *StringFilter, e history.Entry) bool {
	for _, item := range e.Items {
		if item.Format == clipboard.FormatText {
			return f.Match(string(item.Data))
		}
	}
	for _, item := range e.Items {
		if utf8.Valid(item.Data) && f.Match(string(item.Data)) {
			return true
		}
	}
	return false
}
