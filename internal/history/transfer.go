package history

import (
	"fmt"
	"os"
	"strings"
)

// Separator joins items in plain-text exports.
const Separator = "\n---\n"

// ─── Text export / import ────────────────────────────────────────────────────

// ExportGroup writes the content of every member of the named group to
// path, newest first, joined by Separator.
func (s *Store) ExportGroup(name, path string) error {
	contents, err := s.collectContents(
		`SELECT h.raw_content
		 FROM history h
		 JOIN item_groups ig ON h.id = ig.item_id
		 JOIN groups g ON ig.group_id = g.id
		 WHERE g.name = ?
		 ORDER BY h.created_at DESC, h.id DESC`,
		name,
	)
	if err != nil {
		return fmt.Errorf("history: export group %q: %w", name, err)
	}
	return writeText(path, contents)
}

// ExportAllText writes the content of every item to path, newest first,
// joined by Separator.
func (s *Store) ExportAllText(path string) error {
	contents, err := s.collectContents(
		`SELECT raw_content FROM history ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return fmt.Errorf("history: export all: %w", err)
	}
	return writeText(path, contents)
}

// ImportGroup reads a Separator-delimited file and inserts every
// non-blank segment as a new item in the named group. Importing the same
// file twice duplicates its items. It returns the number of items added.
func (s *Store) ImportGroup(name, path string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("history: import group: %w", ErrEmptyName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("history: import group: read %s: %w", path, err)
	}
	segments := SplitText(string(data))

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return 0, fmt.Errorf("history: import group: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.ensureGroup(tx, name); err != nil {
		return 0, fmt.Errorf("history: import group: %w", err)
	}
	for _, seg := range segments {
		if _, err := s.insertItem(tx, seg, &name); err != nil {
			return 0, fmt.Errorf("history: import group: %w", err)
		}
	}
	if err := s.commitHook(tx); err != nil {
		return 0, fmt.Errorf("history: import group: commit: %w", err)
	}
	return len(segments), nil
}

// SplitText splits an export on Separator and drops blank segments.
func SplitText(content string) []string {
	var out []string
	for _, seg := range strings.Split(content, Separator) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func (s *Store) collectContents(query string, args ...any) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func writeText(path string, contents []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(contents, Separator)), 0o644); err != nil {
		return fmt.Errorf("history: write %s: %w", path, err)
	}
	return nil
}
