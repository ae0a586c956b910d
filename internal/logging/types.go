package logging

import "time"

// #region diagnostic-entry
// DiagnosticEntry is a single row in the diagnostics table.
type DiagnosticEntry struct {
	RunID     string
	Kind      string // "missing_file" | "missing_language" | "collision"
	Subject   string // dataset path or task name
	Detail    string
	CreatedAt time.Time
}
// #endregion diagnostic-entry
