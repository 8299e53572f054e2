// Package history keeps a local record of what clipctl copied, so an
// earlier copy can be listed and put back on the clipboard.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"clipctl/pkg/clipboard"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound    = errors.New("history entry not found")
	ErrAmbiguousID = errors.New("history id prefix matches more than one entry")
	ErrEmpty       = errors.New("nothing to record")
)

// ShortIDLength is how much of an id List output shows; any unique prefix
// is accepted by Get, Delete and the CLI.
const ShortIDLength = 8

type Entry struct {
	ID        string           `json:"id" yaml:"id"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	Items     []clipboard.Item `json:"items" yaml:"items"`
}

// ShortID returns the abbreviated id shown in listings.
func (e Entry) ShortID() string {
	if len(e.ID) <= ShortIDLength {
		return e.ID
	}
	return e.ID[:ShortIDLength]
}

// Formats lists the formats of the entry, in copy order.
func (e Entry) Formats() []string {
	formats := make([]string, len(e.Items))
	for i, item := range e.Items {
		formats[i] = item.Format
	}
	return formats
}

// Preview returns a single-line excerpt of the entry's text, or of its
// first item when it has no text.
func (e Entry) Preview(max int) string {
	if len(e.Items) == 0 {
		return ""
	}
	data := e.Items[0].Data
	for _, item := range e.Items {
		if item.Format == clipboard.FormatText {
			data = item.Data
			break
		}
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("<%d bytes>", len(data))
	}
	text := strings.Join(strings.Fields(string(data)), " ")
	if max < 1 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}

// Store is a sqlite-backed history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			entry_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			format TEXT NOT NULL,
			data BLOB,
			PRIMARY KEY (entry_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores items as a new entry, newest first in List.
func (s *Store) Record(items []clipboard.Item) (*Entry, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		CreatedAt: s.now().UTC(),
		Items:     items,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO entries (id, created_at) VALUES (?, ?)`, entry.ID, entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO items (entry_id, position, format, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(entry.ID, i, item.Format, item.Data); err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// List returns up to limit entries, newest first. A limit of 0 or less
// returns every entry.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT id, created_at FROM entries ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	rows.Close()

	for i := range entries {
		if entries[i].Items, err = s.items(entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Store) items(entryID string) ([]clipboard.Item, error) {
	rows, err := s.db.Query(`SELECT format, data FROM items WHERE entry_id = ? ORDER BY position`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []clipboard.Item{}
	for rows.Next() {
		var item clipboard.Item
		if err := rows.Scan(&item.Format, &item.Data); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// resolve expands a unique id prefix to the full id.
func (s *Store) resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(strings.ToLower(prefix))
	if prefix == "" {
		return "", ErrNotFound
	}

	rows, err := s.db.Query(`SELECT id FROM entries WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan entry: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// Get returns the entry whose id starts with id.
func (s *Store) Get(id string) (*Entry, error) {
	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	e := &Entry{ID: full}
	if err := s.db.QueryRow(`SELECT created_at FROM entries WHERE id = ?`, full).Scan(&e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	if e.Items, err = s.items(full); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes the entry whose id starts with id.
func (s *Store) Delete(id string) error {
	full, err := s.resolve(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items WHERE entry_id = ?`, full); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE id = ?`, full); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many there were.
func (s *Store) Clear() (int, error) {
	return s.deleteWhere(`1 = 1`)
}

// Prune keeps the newest max entries and returns how many were removed.
// A max of 0 or less keeps everything.
func (s *Store) Prune(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	return s.deleteWhere(`seq NOT IN (SELECT seq FROM entries ORDER BY seq DESC LIMIT ?)`, max)
}

func (s *Store) deleteWhere(cond string, args ...any) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items WHERE entry_id IN (SELECT id FROM entries WHERE `+cond+`)`, args...); err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM entries WHERE `+cond, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(n), nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
