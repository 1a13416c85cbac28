package history

import (
	"fmt"
	"time"
)

// timeNow is a package-level variable for testability.
// Tests replace it to age items past the retention window.
var timeNow = time.Now

// sqliteTime is the layout used for created_at, matching datetime('now').
const sqliteTime = "2006-01-02 15:04:05"

// Now returns the current time formatted for SQLite, in UTC.
func Now() string {
	return timeNow().UTC().Format(sqliteTime)
}

var timestampLayouts = []string{sqliteTime, time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"}

// normalizeTimestamp converts a stored or restored timestamp into the
// SQLite layout. Unparseable or empty values fall back to now.
func normalizeTimestamp(v string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(sqliteTime)
		}
	}
	return Now()
}

// storedTime scans created_at into the SQLite layout. Databases whose
// column is declared DATETIME come back from the driver as time.Time.
type storedTime struct{ dst *string }

func (t storedTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t.dst = v.UTC().Format(sqliteTime)
	case string:
		*t.dst = reformat(v)
	case []byte:
		*t.dst = reformat(string(v))
	case nil:
		*t.dst = ""
	default:
		return fmt.Errorf("history: created_at has unsupported type %T", src)
	}
	return nil
}

// reformat is normalizeTimestamp without the fallback to now.
func reformat(v string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(sqliteTime)
		}
	}
	return v
}
