package language

import (
	"encoding/json"
	"errors"
	"fmt"
)

// #region splits
const (
	SplitTrain = "train"
	SplitTest  = "test"

	LanguageFile = "language.json"
	VocabFile    = "vocab.json"
)

// Splits lists the dataset splits in load order.
var Splits = []string{SplitTrain, SplitTest}
// #endregion splits

// #region results
// TaskLanguage maps a task name to its natural-language annotations.
type TaskLanguage map[string][]string

// Found counts the tasks that have at least one annotation.
func (tl TaskLanguage) Found() int {
	n := 0
	for _, sentences := range tl {
		if len(sentences) > 0 {
			n++
		}
	}
	return n
}

// Vocabularies holds the sorted vocabulary of each split.
type Vocabularies struct {
	Train []string `json:"train"`
	Test  []string `json:"test"`
}

// Result is the outcome of a language load.
// Vocabularies is nil for path-keyed datasets, which carry no vocabulary.
type Result struct {
	Tasks        TaskLanguage
	Vocabularies *Vocabularies
	Report       Report
}
// #endregion results

// #region diagnostics
// DiagnosticKind classifies a non-fatal load problem.
type DiagnosticKind string

const (
	MissingFile     DiagnosticKind = "missing_file"
	MissingLanguage DiagnosticKind = "missing_language"
	Collision       DiagnosticKind = "collision"
)

// Diagnostic is a single non-fatal load problem.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string // path or task name
	Detail  string
}

// Report gathers diagnostics and summary counts for one load.
type Report struct {
	Diagnostics []Diagnostic
	Found       int
	Total       int
}

func (r *Report) add(kind DiagnosticKind, subject, detail string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Subject: subject, Detail: detail})
}

// Count returns the number of diagnostics of kind.
func (r Report) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
// #endregion diagnostics

// #region errors
// ErrNoDatasets is returned when no dataset name is given.
var ErrNoDatasets = errors.New("no language datasets given")

// DatasetError reports a dataset file that exists but cannot be decoded.
type DatasetError struct {
	Path string
	Err  error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("decode dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}
// #endregion errors

// #region annotation
// annotation is one language record. Datasets store either a bare sentence
// or an array whose first element is the sentence.
type annotation string

func (a *annotation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = annotation(s)
		return nil
	}
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("annotation record: %w", err)
	}
	if len(fields) == 0 {
		return errors.New("annotation record: empty array")
	}
	if err := json.Unmarshal(fields[0], &s); err != nil {
		return fmt.Errorf("annotation record: first field: %w", err)
	}
	*a = annotation(s)
	return nil
}

func sentences(records []annotation) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = string(r)
	}
	return out
}
// #endregion annotation
