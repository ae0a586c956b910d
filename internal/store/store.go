package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/exemplar"
	"github.com/danielpatrickdp/language-alignment/internal/language"
	"github.com/danielpatrickdp/language-alignment/internal/logging"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	params_json  TEXT,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS translations (
	run_id       TEXT NOT NULL,
	token        TEXT NOT NULL,
	position     INTEGER NOT NULL,
	word         TEXT NOT NULL,
	probability  REAL NOT NULL,
	PRIMARY KEY (run_id, token, position),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS example_tasks (
	run_id       TEXT NOT NULL,
	token        TEXT NOT NULL,
	position     INTEGER NOT NULL,
	task_name    TEXT NOT NULL,
	PRIMARY KEY (run_id, token, position),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS task_language (
	run_id          TEXT NOT NULL,
	task_name       TEXT NOT NULL,
	sentences_json  TEXT NOT NULL,
	PRIMARY KEY (run_id, task_name),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS diagnostics (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	subject      TEXT NOT NULL,
	detail       TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`
// #endregion schema

// #region store-struct
// Store records analysis runs and their results in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion constructor

// #region runs
// CreateRun records a new run of kind with its parameters serialized as JSON.
func (s *Store) CreateRun(kind string, params any) (Run, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return Run{}, fmt.Errorf("marshal params: %w", err)
	}
	run := Run{
		RunID:      uuid.New().String(),
		Kind:       kind,
		ParamsJSON: string(paramsJSON),
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, kind, params_json, created_at) VALUES (?, ?, ?, ?)`,
		run.RunID, run.Kind, run.ParamsJSON, run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (Run, error) {
	var run Run
	var paramsJSON sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT run_id, kind, params_json, created_at FROM runs WHERE run_id = ?`, id,
	).Scan(&run.RunID, &run.Kind, &paramsJSON, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	if paramsJSON.Valid {
		run.ParamsJSON = paramsJSON.String
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return run, nil
}

// ListRuns returns the most recent runs with counts of their stored rows.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT r.run_id, r.kind, r.params_json, r.created_at,
		        (SELECT COUNT(*) FROM translations t WHERE t.run_id = r.run_id),
		        (SELECT COUNT(*) FROM example_tasks e WHERE e.run_id = r.run_id),
		        (SELECT COUNT(*) FROM task_language l WHERE l.run_id = r.run_id),
		        (SELECT COUNT(*) FROM diagnostics d WHERE d.run_id = r.run_id)
		 FROM runs r ORDER BY r.rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var rs RunSummary
		var paramsJSON sql.NullString
		var createdStr string
		if err := rows.Scan(&rs.RunID, &rs.Kind, &paramsJSON, &createdStr,
			&rs.Translations, &rs.ExampleTasks, &rs.Tasks, &rs.Diagnostics); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if paramsJSON.Valid {
			rs.ParamsJSON = paramsJSON.String
		}
		rs.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		summaries = append(summaries, rs)
	}
	return summaries, rows.Err()
}
// #endregion runs

// #region translations
// SaveTranslations stores ranked translations for a run, preserving per-token order.
func (s *Store) SaveTranslations(runID string, translations alignment.TokenToTranslations) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, token := range translations.Tokens() {
		for i, wp := range translations[token] {
			_, err := tx.Exec(
				`INSERT INTO translations (run_id, token, position, word, probability) VALUES (?, ?, ?, ?, ?)`,
				runID, token, i, wp.Word, wp.Probability,
			)
			if err != nil {
				return fmt.Errorf("insert translation %s: %w", token, err)
			}
		}
	}
	return tx.Commit()
}

// LoadTranslations reads the translations stored for a run.
func (s *Store) LoadTranslations(runID string) (alignment.TokenToTranslations, error) {
	rows, err := s.db.Query(
		`SELECT token, word, probability FROM translations WHERE run_id = ? ORDER BY token, position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	defer rows.Close()

	out := make(alignment.TokenToTranslations)
	for rows.Next() {
		var token string
		var wp alignment.WordProbability
		if err := rows.Scan(&token, &wp.Word, &wp.Probability); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out[token] = append(out[token], wp)
	}
	return out, rows.Err()
}
// #endregion translations

// #region example-tasks
// SaveExampleTasks stores the example task index for a run.
func (s *Store) SaveExampleTasks(runID string, idx exemplar.Index) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, token := range idx.Tokens() {
		for i, name := range idx[token] {
			_, err := tx.Exec(
				`INSERT INTO example_tasks (run_id, token, position, task_name) VALUES (?, ?, ?, ?)`,
				runID, token, i, name,
			)
			if err != nil {
				return fmt.Errorf("insert example task %s: %w", token, err)
			}
		}
	}
	return tx.Commit()
}

// LoadExampleTasks reads the example task index stored for a run.
func (s *Store) LoadExampleTasks(runID string) (exemplar.Index, error) {
	rows, err := s.db.Query(
		`SELECT token, task_name FROM example_tasks WHERE run_id = ? ORDER BY token, position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load example tasks: %w", err)
	}
	defer rows.Close()

	idx := make(exemplar.Index)
	for rows.Next() {
		var token, name string
		if err := rows.Scan(&token, &name); err != nil {
			return nil, fmt.Errorf("scan example task: %w", err)
		}
		idx[token] = append(idx[token], name)
	}
	return idx, rows.Err()
}
// #endregion example-tasks

// #region task-language
// SaveTaskLanguage stores every task's annotations for a run, including empty ones.
func (s *Store) SaveTaskLanguage(runID string, tasks language.TaskLanguage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for name, sentences := range tasks {
		if sentences == nil {
			sentences = []string{}
		}
		data, err := json.Marshal(sentences)
		if err != nil {
			return fmt.Errorf("marshal sentences %s: %w", name, err)
		}
		_, err = tx.Exec(
			`INSERT INTO task_language (run_id, task_name, sentences_json) VALUES (?, ?, ?)`,
			runID, name, string(data),
		)
		if err != nil {
			return fmt.Errorf("insert task language %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// LoadTaskLanguage reads the task annotations stored for a run.
func (s *Store) LoadTaskLanguage(runID string) (language.TaskLanguage, error) {
	rows, err := s.db.Query(
		`SELECT task_name, sentences_json FROM task_language WHERE run_id = ? ORDER BY task_name`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load task language: %w", err)
	}
	defer rows.Close()

	out := make(language.TaskLanguage)
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan task language: %w", err)
		}
		var sentences []string
		if err := json.Unmarshal([]byte(data), &sentences); err != nil {
			return nil, fmt.Errorf("unmarshal sentences %s: %w", name, err)
		}
		out[name] = sentences
	}
	return out, rows.Err()
}
// #endregion task-language

// #region diagnostics
// SaveReport records every diagnostic of a language load against a run.
func (s *Store) SaveReport(runID string, report language.Report) error {
	for _, d := range report.Diagnostics {
		err := logging.LogDiagnostic(s.db, logging.DiagnosticEntry{
			RunID:   runID,
			Kind:    string(d.Kind),
			Subject: d.Subject,
			Detail:  d.Detail,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ListDiagnostics returns a run's diagnostics in insertion order.
func (s *Store) ListDiagnostics(runID string) ([]logging.DiagnosticEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, kind, subject, detail, created_at FROM diagnostics WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	var entries []logging.DiagnosticEntry
	for rows.Next() {
		var e logging.DiagnosticEntry
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &e.Kind, &e.Subject, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion diagnostics
