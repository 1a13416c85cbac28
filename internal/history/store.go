// Package history implements ortu's persistent clipboard history.
//
// It uses SQLite (modernc.org/sqlite, no cgo) to store captured items,
// named groups and the many-to-many membership between them. Every
// operation runs under a single mutex over a single connection, so all
// reads and writes are strictly serialized. Multi-statement operations
// run inside one transaction.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/HendryAvila/ortu/internal/logger"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// ClipboardItem is one captured, imported or restored snapshot.
type ClipboardItem struct {
	ID          int64    `json:"id"`
	ContentType string   `json:"content_type"`
	RawContent  string   `json:"raw_content"`
	Category    *string  `json:"category"`
	Groups      []string `json:"groups"`
	IsPermanent bool     `json:"is_permanent"`
	CreatedAt   string   `json:"created_at"`
}

// Group is a named collection of items.
type Group struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"is_system"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	TotalItems  int `json:"total_items"`
	PinnedItems int `json:"pinned_items"`
	TotalGroups int `json:"total_groups"`
}

var (
	// ErrNotFound is returned when an operation requires an item that
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGroupExists is returned when creating or renaming onto a group
	// name that is already taken.
	ErrGroupExists = errors.New("group already exists")
	// ErrEmptyName is returned for blank group names.
	ErrEmptyName = errors.New("group name is empty")
)

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds history store configuration.
type Config struct {
	DataDir         string
	HistoryLimit    int
	RetentionWindow time.Duration
	Buckets         Buckets
	// Log receives migration warnings. Nil discards them.
	Log logger.Logger
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:         filepath.Join(home, ".ortu"),
		HistoryLimit:    100,
		RetentionWindow: 24 * time.Hour,
		Buckets:         DefaultBuckets(),
	}
}

// DBFile is the database file name inside the data directory.
const DBFile = "ortu.db"

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the clipboard history backed by SQLite.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a Store with the given configuration. It creates the data
// directory if needed, opens SQLite in WAL mode with foreign keys
// enforced, and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}
	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = 24 * time.Hour
	}
	if cfg.Buckets == nil {
		cfg.Buckets = DefaultBuckets()
	}
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	// DSN pragmas apply to every connection the pool opens.
	dsn := "file:" + filepath.Join(cfg.DataDir, DBFile) +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)"
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping database: %w", err)
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Buckets returns the virtual bucket table the store filters with.
func (s *Store) Buckets() Buckets {
	return s.cfg.Buckets
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	if _, err := s.execHook(s.db, `
		CREATE TABLE IF NOT EXISTS groups (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT    NOT NULL UNIQUE,
			is_system INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			content_type TEXT    NOT NULL,
			raw_content  TEXT    NOT NULL,
			category     TEXT,
			is_permanent INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_history_created  ON history(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_history_category ON history(category);
	`); err != nil {
		return err
	}

	// Older databases pointed item_groups at a clipboard_items table that
	// no longer exists. Drop the edge table so it is recreated correctly.
	stale, err := s.itemGroupsReferences("clipboard_items")
	if err != nil {
		return err
	}
	if stale {
		if _, err := s.execHook(s.db, `DROP TABLE item_groups`); err != nil {
			return err
		}
	}

	if _, err := s.execHook(s.db, `
		CREATE TABLE IF NOT EXISTS item_groups (
			item_id  INTEGER NOT NULL,
			group_id INTEGER NOT NULL,
			PRIMARY KEY (item_id, group_id),
			FOREIGN KEY (item_id)  REFERENCES history(id) ON DELETE CASCADE,
			FOREIGN KEY (group_id) REFERENCES groups(id)  ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_item_groups_group ON item_groups(group_id);
	`); err != nil {
		return err
	}

	s.backfillMemberships()
	return nil
}

// backfillMemberships creates a group for every legacy category and the
// matching edges. Failures are logged; the store stays usable.
func (s *Store) backfillMemberships() {
	if _, err := s.execHook(s.db, `INSERT OR IGNORE INTO groups (name)
		SELECT DISTINCT category FROM history WHERE category IS NOT NULL AND category != ''`); err != nil {
		s.cfg.Log.Warn("history migration: backfill groups", logger.Error(err))
		return
	}
	if _, err := s.execHook(s.db, `INSERT OR IGNORE INTO item_groups (item_id, group_id)
		SELECT h.id, g.id FROM history h JOIN groups g ON h.category = g.name
		WHERE h.category IS NOT NULL`); err != nil {
		s.cfg.Log.Warn("history migration: backfill memberships", logger.Error(err))
	}
}

func (s *Store) itemGroupsReferences(table string) (bool, error) {
	rows, err := s.queryItHook(s.db, `SELECT "table" FROM pragma_foreign_key_list('item_groups')`)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	found := false
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return false, err
		}
		if ref == table {
			found = true
		}
	}
	return found, rows.Err()
}

// ─── Items ───────────────────────────────────────────────────────────────────

// InsertItem appends a text item. A non-empty category is written to the
// legacy column and attached as a group membership, creating the group
// when needed.
func (s *Store) InsertItem(content string, category *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return 0, fmt.Errorf("history: insert: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.insertItem(tx, content, normalizeCategory(category))
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	if err := s.commitHook(tx); err != nil {
		return 0, fmt.Errorf("history: insert: commit: %w", err)
	}
	return id, nil
}

func (s *Store) insertItem(tx *sql.Tx, content string, category *string) (int64, error) {
	res, err := s.execHook(tx,
		`INSERT INTO history (content_type, raw_content, category, created_at) VALUES (?, ?, ?, ?)`,
		ContentTypeText, content, category, Now(),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if category != nil {
		if err := s.attach(tx, id, *category); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetItem returns a single item with its groups populated.
func (s *Store) GetItem(id int64) (*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.queryItems(s.db, `SELECT `+itemColumns+` FROM history WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("history: get item %d: %w", id, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("history: item %d: %w", id, ErrNotFound)
	}
	return &items[0], nil
}

// GetHistory returns up to the configured limit of items, pinned first,
// then newest first. Each item's groups are loaded by a second query so
// the membership join never duplicates rows.
func (s *Store) GetHistory(f Filter) ([]ClipboardItem, error) {
	query := `SELECT ` + itemColumns + ` FROM history`
	order := `is_permanent DESC, created_at DESC, id DESC`
	var args []any

	switch v := f.(type) {
	case nil:
	case PlainFilter:
		if v.Text != "" {
			pattern := likeContains(v.Text)
			query += ` WHERE raw_content LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'`
			args = append(args, pattern, pattern)
		}
	case GroupFilter:
		query = `SELECT DISTINCT ` + prefixed("h.", itemColumns) + `
			FROM history h
			JOIN item_groups ig ON h.id = ig.item_id
			JOIN groups g ON ig.group_id = g.id
			WHERE g.name = ? AND h.raw_content LIKE ? ESCAPE '\'`
		order = prefixed("h.", `is_permanent DESC, created_at DESC, id DESC`)
		args = append(args, v.Name, likeContains(v.Text))
	case BucketFilter:
		bucket, ok := s.cfg.Buckets[v.Bucket]
		if !ok {
			return []ClipboardItem{}, nil
		}
		clause, bargs, ok := bucket.where()
		if !ok {
			return []ClipboardItem{}, nil
		}
		query += ` WHERE ` + clause + ` AND raw_content LIKE ? ESCAPE '\'`
		args = append(append(args, bargs...), likeContains(v.Text))
	default:
		return nil, fmt.Errorf("history: unsupported filter %T", f)
	}

	query += ` ORDER BY ` + order + ` LIMIT ?`
	args = append(args, s.cfg.HistoryLimit)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.queryItems(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: get history: %w", err)
	}
	return items, nil
}

// FindSimilarCategory looks for an existing categorized item whose content
// starts with the same first whitespace-delimited token as content, and
// returns its category. The earliest such item wins.
func (s *Store) FindSimilarCategory(content string) (string, bool, error) {
	if len(content) < 5 {
		return "", false, nil
	}
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var category string
	err := s.db.QueryRow(
		`SELECT category FROM history
		 WHERE category IS NOT NULL AND category != '' AND raw_content LIKE ? ESCAPE '\'
		 ORDER BY id ASC
		 LIMIT 1`,
		escapeLike(fields[0])+"%",
	).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("history: find similar: %w", err)
	}
	return category, true, nil
}

// TogglePermanent flips the pin flag. A missing item is a no-op.
func (s *Store) TogglePermanent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.execHook(s.db,
		`UPDATE history SET is_permanent = NOT is_permanent WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("history: toggle permanent: %w", err)
	}
	return nil
}

// DeleteItem hard-deletes an item; its memberships cascade. A missing item
// is a no-op.
func (s *Store) DeleteItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.execHook(s.db, `DELETE FROM history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("history: delete item: %w", err)
	}
	return nil
}

// SetCategory writes the legacy category column and adds a membership to
// the group of the same name. Prior memberships are kept.
func (s *Store) SetCategory(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("history: set category: %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("history: set category: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.requireItem(tx, id); err != nil {
		return fmt.Errorf("history: set category: %w", err)
	}
	if _, err := s.execHook(tx, `UPDATE history SET category = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("history: set category: %w", err)
	}
	if err := s.attach(tx, id, name); err != nil {
		return fmt.Errorf("history: set category: %w", err)
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("history: set category: commit: %w", err)
	}
	return nil
}

// ─── Groups ──────────────────────────────────────────────────────────────────

// AddToGroup attaches an item to a group, creating the group if needed.
// It fails with ErrNotFound when the item does not exist.
func (s *Store) AddToGroup(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("history: add to group: %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("history: add to group: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.requireItem(tx, id); err != nil {
		return fmt.Errorf("history: add to group: %w", err)
	}
	if err := s.attach(tx, id, name); err != nil {
		return fmt.Errorf("history: add to group: %w", err)
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("history: add to group: commit: %w", err)
	}
	return nil
}

// RemoveFromGroup detaches an item from a group. Removing a membership
// that does not exist is a no-op.
func (s *Store) RemoveFromGroup(id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.execHook(s.db,
		`DELETE FROM item_groups
		 WHERE item_id = ? AND group_id IN (SELECT id FROM groups WHERE name = ?)`,
		id, name,
	); err != nil {
		return fmt.Errorf("history: remove from group: %w", err)
	}
	return nil
}

// CreateGroup creates a new group and returns its id.
func (s *Store) CreateGroup(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("history: create group: %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execHook(s.db, `INSERT INTO groups (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("history: create group %q: %w", name, ErrGroupExists)
	}
	if err != nil {
		return 0, fmt.Errorf("history: create group: %w", err)
	}
	return res.LastInsertId()
}

// DeleteGroup removes a group. Items keep existing: the legacy category is
// cleared on items that carried this name and membership edges cascade.
func (s *Store) DeleteGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("history: delete group: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.execHook(tx, `UPDATE history SET category = NULL WHERE category = ?`, name); err != nil {
		return fmt.Errorf("history: delete group: %w", err)
	}
	if _, err := s.execHook(tx, `DELETE FROM groups WHERE name = ?`, name); err != nil {
		return fmt.Errorf("history: delete group: %w", err)
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("history: delete group: commit: %w", err)
	}
	return nil
}

// RenameGroup renames a group and rewrites the legacy category of its
// items in one transaction.
func (s *Store) RenameGroup(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("history: rename group: %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("history: rename group: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.execHook(tx, `UPDATE history SET category = ? WHERE category = ?`, newName, oldName); err != nil {
		return fmt.Errorf("history: rename group: %w", err)
	}
	_, err = s.execHook(tx, `UPDATE groups SET name = ? WHERE name = ?`, newName, oldName)
	if isUniqueViolation(err) {
		return fmt.Errorf("history: rename group %q: %w", newName, ErrGroupExists)
	}
	if err != nil {
		return fmt.Errorf("history: rename group: %w", err)
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("history: rename group: commit: %w", err)
	}
	return nil
}

// Categories returns every group name in ascending order.
func (s *Store) Categories() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.queryItHook(s.db, `SELECT name FROM groups ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("history: categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Groups returns every group ordered by name.
func (s *Store) Groups() ([]Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryGroups(s.db, `SELECT id, name, is_system FROM groups ORDER BY name ASC`)
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate counts.
func (s *Store) Stats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Stats{}
	if err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(is_permanent != 0), 0) FROM history`,
	).Scan(&st.TotalItems, &st.PinnedItems); err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM groups`).Scan(&st.TotalGroups); err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	return st, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

const itemColumns = `id, content_type, raw_content, category, is_permanent, created_at`

func prefixed(prefix, columns string) string {
	cols := strings.Split(columns, ", ")
	for i, c := range cols {
		cols[i] = prefix + c
	}
	return strings.Join(cols, ", ")
}

// queryItems runs an item query and expands group membership for the
// returned rows in one batched lookup.
func (s *Store) queryItems(db queryer, query string, args ...any) ([]ClipboardItem, error) {
	rows, err := s.queryItHook(db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []ClipboardItem{}
	for rows.Next() {
		var it ClipboardItem
		if err := rows.Scan(&it.ID, &it.ContentType, &it.RawContent, &it.Category, &it.IsPermanent, storedTime{&it.CreatedAt}); err != nil {
			return nil, err
		}
		it.Groups = []string{}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	if err := s.expandGroups(db, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) expandGroups(db queryer, items []ClipboardItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]any, len(items))
	index := make(map[int64]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
		index[it.ID] = i
	}

	rows, err := s.queryItHook(db,
		`SELECT ig.item_id, g.name
		 FROM item_groups ig
		 JOIN groups g ON ig.group_id = g.id
		 WHERE ig.item_id IN (`+placeholders(len(ids))+`)
		 ORDER BY g.name`,
		ids...,
	)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var itemID int64
		var name string
		if err := rows.Scan(&itemID, &name); err != nil {
			return err
		}
		if i, ok := index[itemID]; ok {
			items[i].Groups = append(items[i].Groups, name)
		}
	}
	return rows.Err()
}

func (s *Store) queryGroups(db queryer, query string, args ...any) ([]Group, error) {
	rows, err := s.queryItHook(db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	groups := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.IsSystem); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// requireItem returns ErrNotFound when the item id is absent.
func (s *Store) requireItem(db queryer, id int64) error {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM history WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ensureGroup returns the id of the named group, creating it if absent.
func (s *Store) ensureGroup(tx *sql.Tx, name string) (int64, error) {
	if _, err := s.execHook(tx, `INSERT OR IGNORE INTO groups (name) VALUES (?)`, name); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRow(`SELECT id FROM groups WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// attach ensures the group exists and links the item to it.
func (s *Store) attach(tx *sql.Tx, itemID int64, name string) error {
	groupID, err := s.ensureGroup(tx, name)
	if err != nil {
		return err
	}
	_, err = s.execHook(tx,
		`INSERT OR IGNORE INTO item_groups (item_id, group_id) VALUES (?, ?)`,
		itemID, groupID,
	)
	return err
}

func normalizeCategory(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards so text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likeContains(s string) string {
	return "%" + escapeLike(s) + "%"
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
