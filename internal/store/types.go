package store

import (
	"errors"
	"time"
)

// Run kinds.
const (
	KindTranslations = "translations"
	KindExamples     = "examples"
	KindLanguage     = "language"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// #region run
// Run is one recorded analysis invocation.
type Run struct {
	RunID      string
	Kind       string
	ParamsJSON string
	CreatedAt  time.Time
}

// RunSummary pairs a run with row counts of its stored results.
type RunSummary struct {
	Run
	Translations int
	ExampleTasks int
	Tasks        int
	Diagnostics  int
}
// #endregion run
