package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-diagnostic
// LogDiagnostic writes a load diagnostic to the diagnostics table.
func LogDiagnostic(db *sql.DB, entry DiagnosticEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO diagnostics (run_id, kind, subject, detail, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Kind,
		entry.Subject,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log diagnostic: %w", err)
	}
	return nil
}
// #endregion log-diagnostic

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
