package language

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Loader reads language datasets and reports non-fatal problems through its logger.
type Loader struct {
	logger *zap.Logger
}

// NewLoader returns a Loader. A nil logger discards diagnostics.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// #region for-tasks
// ForTasks loads <datasetDir>/<dataset>/{train,test}/{language,vocab}.json for
// every dataset and fills tasks in place. Only task names already present in
// tasks are loaded; a later dataset overwrites an earlier one for the same task.
// If the first dataset name contains "path" the legacy path-keyed loader is
// used on <datasetDir>/<datasets[0]> instead; its results are copied into tasks.
//
// Missing splits or files are reported and skipped. Files that exist but do
// not decode are returned as a *DatasetError.
func (l *Loader) ForTasks(datasets []string, datasetDir string, tasks TaskLanguage) (*Result, error) {
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}
	if tasks == nil {
		tasks = make(TaskLanguage)
	}
	if strings.Contains(datasets[0], "path") {
		res, err := l.ForPathNameTasks(filepath.Join(datasetDir, datasets[0]), tasks)
		if err != nil {
			return nil, err
		}
		for name, found := range res.Tasks {
			tasks[name] = found
		}
		res.Tasks = tasks
		return res, nil
	}

	res := &Result{Tasks: tasks}
	vocab := map[string]map[string]struct{}{
		SplitTrain: {},
		SplitTest:  {},
	}

	for _, dataset := range datasets {
		datasetPath := filepath.Join(datasetDir, dataset)
		for _, split := range Splits {
			splitPath := filepath.Join(datasetPath, split)
			err := l.loadSplit(splitPath, tasks, vocab[split])
			if errors.Is(err, fs.ErrNotExist) {
				l.logger.Warn("language dataset not found",
					zap.String("split_path", splitPath), zap.Error(err))
				res.Report.add(MissingFile, splitPath, err.Error())
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	res.Vocabularies = &Vocabularies{
		Train: sortedWords(vocab[SplitTrain]),
		Test:  sortedWords(vocab[SplitTest]),
	}
	res.Report.Found = tasks.Found()
	res.Report.Total = len(tasks)

	l.logger.Info("found language for tasks",
		zap.Int("found", res.Report.Found), zap.Int("total", res.Report.Total))
	l.logger.Info("found vocabularies",
		zap.Int("train", len(res.Vocabularies.Train)), zap.Int("test", len(res.Vocabularies.Test)))
	return res, nil
}

// loadSplit applies language.json before reading vocab.json, so a split with
// annotations but no vocabulary still contributes its annotations.
func (l *Loader) loadSplit(splitPath string, tasks TaskLanguage, vocab map[string]struct{}) error {
	var languageData map[string][]annotation
	if err := readJSON(filepath.Join(splitPath, LanguageFile), &languageData); err != nil {
		return err
	}
	for name := range tasks {
		if records, ok := languageData[name]; ok {
			tasks[name] = sentences(records)
		}
	}

	var words []string
	if err := readJSON(filepath.Join(splitPath, VocabFile), &words); err != nil {
		return err
	}
	for _, w := range words {
		vocab[w] = struct{}{}
	}
	l.logger.Debug("loaded language split",
		zap.String("split_path", splitPath), zap.Int("annotated", len(languageData)), zap.Int("vocab", len(words)))
	return nil
}
// #endregion for-tasks

// #region helpers
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DatasetError{Path: path, Err: err}
	}
	return nil
}

func sortedWords(set map[string]struct{}) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
// #endregion helpers
