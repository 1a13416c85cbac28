package history

import "fmt"

// ─── Retention ───────────────────────────────────────────────────────────────

// PruneExpired deletes every unpinned item older than the retention
// window and returns the number of rows removed. The cutoff is absolute,
// so a skipped sweep never lets an expired item survive the next one.
func (s *Store) PruneExpired() (int64, error) {
	cutoff := timeNow().UTC().Add(-s.cfg.RetentionWindow).Format(sqliteTime)

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execHook(s.db,
		`DELETE FROM history WHERE is_permanent = 0 AND created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("history: prune expired: %w", err)
	}
	return res.RowsAffected()
}

// ClearEphemeral deletes every unpinned item regardless of age. It runs
// once at startup so unpinned entries never outlive the process that
// captured them.
func (s *Store) ClearEphemeral() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execHook(s.db, `DELETE FROM history WHERE is_permanent = 0`)
	if err != nil {
		return 0, fmt.Errorf("history: clear ephemeral: %w", err)
	}
	return res.RowsAffected()
}
