package language

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var safeNameReplacer = strings.NewReplacer(
	"=", "_",
	" ", "_",
	"/", "_",
	"-", "_",
	")", "_",
	"(", "_",
)

// SafeName replaces characters that are unsafe in file names with underscores.
func SafeName(task string) string {
	return safeNameReplacer.Replace(task)
}

// ExtractTaskName derives a task name from a stimulus path such as
// "stimuli/ex_name_triangle.png": the base name after the last "name_",
// cut at the first ".".
func ExtractTaskName(stimulusPath string) string {
	base := filepath.Base(stimulusPath)
	if i := strings.LastIndex(base, "name_"); i >= 0 {
		base = base[i+len("name_"):]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// #region for-path-name-tasks
// ForPathNameTasks loads a dataset keyed by stimulus path and matches it to
// tasks by safe name. Tasks without language get an empty list. The returned
// Result has nil Vocabularies.
func (l *Loader) ForPathNameTasks(datasetPath string, tasks TaskLanguage) (*Result, error) {
	entries, err := readPathRecords(datasetPath)
	if err != nil {
		return nil, err
	}

	res := &Result{Tasks: make(TaskLanguage, len(tasks))}

	// Later stimuli overwrite earlier ones with the same safe name.
	dataset := make(map[string][]string, len(entries))
	source := make(map[string]string, len(entries))
	for _, e := range entries {
		safe := SafeName(ExtractTaskName(e.stimulus))
		if prev, ok := source[safe]; ok {
			l.logger.Warn("dataset safe-name collision",
				zap.String("safe_name", safe), zap.String("kept", e.stimulus), zap.String("dropped", prev))
			res.Report.add(Collision, safe, fmt.Sprintf("stimulus %s overwrites %s", e.stimulus, prev))
		}
		dataset[safe] = sentences(e.records)
		source[safe] = e.stimulus
	}

	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	bySafeName := make(map[string][]string)
	for _, name := range names {
		safe := SafeName(name)
		bySafeName[safe] = append(bySafeName[safe], name)
	}

	for _, name := range names {
		safe := SafeName(name)
		found := dataset[safe]
		if len(found) < 1 {
			l.logger.Warn("missing language for task", zap.String("task", name))
			res.Report.add(MissingLanguage, name, "no language for safe name "+safe)
		}
		if colliding := bySafeName[safe]; len(colliding) > 1 && colliding[0] == name {
			l.logger.Warn("task safe-name collision",
				zap.String("safe_name", safe), zap.Strings("names", colliding))
			res.Report.add(Collision, safe, strings.Join(colliding, ", "))
		}
		if found == nil {
			found = []string{}
		}
		res.Tasks[name] = found
	}

	res.Report.Found = res.Tasks.Found()
	res.Report.Total = len(res.Tasks)
	l.logger.Info("found language for tasks",
		zap.Int("found", res.Report.Found), zap.Int("total", res.Report.Total))
	return res, nil
}
// #endregion for-path-name-tasks

// #region path-records
// pathRecord is one stimulus of a path-keyed dataset.
type pathRecord struct {
	stimulus string
	records  []annotation
}

// readPathRecords decodes a path-keyed dataset keeping the file order of its keys.
func readPathRecords(path string) ([]pathRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := decodePathRecords(data)
	if err != nil {
		return nil, &DatasetError{Path: path, Err: err}
	}
	return entries, nil
}

func decodePathRecords(data []byte) ([]pathRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []pathRecord
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		stimulus, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected stimulus path, got %v", tok)
		}
		var records []annotation
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("stimulus %s: %w", stimulus, err)
		}
		entries = append(entries, pathRecord{stimulus: stimulus, records: records})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after object")
	}
	return entries, nil
}
// #endregion path-records
