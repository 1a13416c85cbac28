package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ─── Backup / Restore ────────────────────────────────────────────────────────

// BackupData is the full serializable dump of the history database.
type BackupData struct {
	History    []ClipboardItem `json:"history"`
	Groups     []Group         `json:"groups"`
	ExportedAt string          `json:"exported_at"`
}

// RestoreMode selects how a backup is applied.
type RestoreMode string

const (
	// RestoreReplace wipes history and groups before loading the backup.
	RestoreReplace RestoreMode = "replace"
	// RestoreMerge keeps existing data; items whose content already exists
	// only gain the backup's group memberships.
	RestoreMerge RestoreMode = "merge"
)

// ErrInvalidRestoreMode is returned for modes other than replace and merge.
var ErrInvalidRestoreMode = errors.New("invalid restore mode")

// ParseRestoreMode validates a mode string.
func ParseRestoreMode(s string) (RestoreMode, error) {
	switch m := RestoreMode(s); m {
	case RestoreReplace, RestoreMerge:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidRestoreMode, s, RestoreReplace, RestoreMerge)
	}
}

// RestoreResult holds counts of what a restore changed.
type RestoreResult struct {
	ItemsInserted int `json:"items_inserted"`
	ItemsMerged   int `json:"items_merged"`
	GroupsCreated int `json:"groups_created"`
}

// ExportAll collects items and groups for a backup. When selectedGroups is
// non-empty only members of those groups, and those groups, are included.
func (s *Store) ExportAll(selectedGroups []string) (*BackupData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemQuery := `SELECT ` + itemColumns + ` FROM history ORDER BY id`
	groupQuery := `SELECT id, name, is_system FROM groups ORDER BY name`
	var args []any

	if len(selectedGroups) > 0 {
		for _, g := range selectedGroups {
			args = append(args, g)
		}
		in := placeholders(len(selectedGroups))
		itemQuery = `SELECT DISTINCT ` + prefixed("h.", itemColumns) + `
			FROM history h
			JOIN item_groups ig ON h.id = ig.item_id
			JOIN groups g ON ig.group_id = g.id
			WHERE g.name IN (` + in + `)
			ORDER BY h.id`
		groupQuery = `SELECT id, name, is_system FROM groups WHERE name IN (` + in + `) ORDER BY name`
	}

	items, err := s.queryItems(s.db, itemQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("history: export items: %w", err)
	}
	groups, err := s.queryGroups(s.db, groupQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("history: export groups: %w", err)
	}

	return &BackupData{
		History:    items,
		Groups:     groups,
		ExportedAt: timeNow().Format(time.RFC3339),
	}, nil
}

// MarshalBackup renders a backup as pretty-printed JSON.
func MarshalBackup(data *BackupData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// BackupToFile writes a JSON backup of the selected groups (all when
// empty) to path.
func (s *Store) BackupToFile(path string, selectedGroups []string) error {
	data, err := s.ExportAll(selectedGroups)
	if err != nil {
		return err
	}
	out, err := MarshalBackup(data)
	if err != nil {
		return fmt.Errorf("history: marshal backup: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("history: write backup %s: %w", path, err)
	}
	return nil
}

// RestoreFromFile reads a JSON backup from path and applies it.
func (s *Store) RestoreFromFile(path string, mode RestoreMode) (*RestoreResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("history: read backup %s: %w", path, err)
	}
	var data BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("history: parse backup %s: %w", path, err)
	}
	return s.Restore(&data, mode)
}

// Restore applies a backup in one transaction. Backup ids are never
// reused: new rows take the store's own autoincrement ids. In merge mode
// an item whose raw content already exists is reused and only gains new
// memberships.
func (s *Store) Restore(data *BackupData, mode RestoreMode) (*RestoreResult, error) {
	if _, err := ParseRestoreMode(string(mode)); err != nil {
		return nil, fmt.Errorf("history: restore: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("history: restore: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == RestoreReplace {
		if _, err := s.execHook(tx, `DELETE FROM history`); err != nil {
			return nil, fmt.Errorf("history: restore: clear history: %w", err)
		}
		if _, err := s.execHook(tx, `DELETE FROM groups`); err != nil {
			return nil, fmt.Errorf("history: restore: clear groups: %w", err)
		}
	}

	result := &RestoreResult{}

	for _, g := range data.Groups {
		res, err := s.execHook(tx,
			`INSERT OR IGNORE INTO groups (name, is_system) VALUES (?, ?)`,
			g.Name, g.IsSystem,
		)
		if err != nil {
			return nil, fmt.Errorf("history: restore group %q: %w", g.Name, err)
		}
		n, _ := res.RowsAffected()
		result.GroupsCreated += int(n)
	}

	for _, it := range data.History {
		itemID, merged, err := s.restoreItem(tx, it, mode)
		if err != nil {
			return nil, fmt.Errorf("history: restore item %d: %w", it.ID, err)
		}
		if merged {
			result.ItemsMerged++
		} else {
			result.ItemsInserted++
		}

		for _, name := range it.Groups {
			if strings.TrimSpace(name) == "" {
				continue
			}
			if err := s.attach(tx, itemID, name); err != nil {
				return nil, fmt.Errorf("history: restore membership %q: %w", name, err)
			}
		}
	}

	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("history: restore: commit: %w", err)
	}
	return result, nil
}

func (s *Store) restoreItem(tx *sql.Tx, it ClipboardItem, mode RestoreMode) (id int64, merged bool, err error) {
	if mode == RestoreMerge {
		err := tx.QueryRow(
			`SELECT id FROM history WHERE raw_content = ? ORDER BY id LIMIT 1`, it.RawContent,
		).Scan(&id)
		if err == nil {
			return id, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, false, err
		}
	}

	contentType := it.ContentType
	if contentType == "" {
		contentType = ContentTypeText
	}
	res, err := s.execHook(tx,
		`INSERT INTO history (content_type, raw_content, category, is_permanent, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		contentType, it.RawContent, normalizeCategory(it.Category), it.IsPermanent,
		normalizeTimestamp(it.CreatedAt),
	)
	if err != nil {
		return 0, false, err
	}
	id, err = res.LastInsertId()
	return id, false, err
}
