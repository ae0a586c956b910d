package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/exemplar"
	"github.com/danielpatrickdp/language-alignment/internal/language"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := tempDB(t)

	run, err := s.CreateRun(KindTranslations, map[string]int{"max_translations": 5})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.RunID == "" {
		t.Fatal("expected non-empty run ID")
	}

	got, err := s.GetRun(run.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Kind != KindTranslations {
		t.Errorf("expected kind %s, got %s", KindTranslations, got.Kind)
	}
	if got.ParamsJSON != `{"max_translations":5}` {
		t.Errorf("unexpected params %s", got.ParamsJSON)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", run.CreatedAt, got.CreatedAt)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := tempDB(t)

	_, err := s.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestTranslationsRoundTrip(t *testing.T) {
	s := tempDB(t)
	run, err := s.CreateRun(KindTranslations, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	// Order within a token is insertion order, not probability order.
	want := alignment.TokenToTranslations{
		"logo_DIV":  {{Word: "small", Probability: 0.25}, {Word: "tiny", Probability: 0.75}},
		"logo_MULL": {{Word: "big", Probability: 0.5}},
	}
	if err := s.SaveTranslations(run.RunID, want); err != nil {
		t.Fatalf("SaveTranslations: %v", err)
	}

	got, err := s.LoadTranslations(run.RunID)
	if err != nil {
		t.Fatalf("LoadTranslations: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExampleTasksRoundTrip(t *testing.T) {
	s := tempDB(t)
	run, err := s.CreateRun(KindExamples, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	want := exemplar.Index{
		"logo_DIV": {"a small triangle", "a small circle"},
	}
	if err := s.SaveExampleTasks(run.RunID, want); err != nil {
		t.Fatalf("SaveExampleTasks: %v", err)
	}

	got, err := s.LoadExampleTasks(run.RunID)
	if err != nil {
		t.Fatalf("LoadExampleTasks: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTaskLanguageRoundTrip(t *testing.T) {
	s := tempDB(t)
	run, err := s.CreateRun(KindLanguage, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	tasks := language.TaskLanguage{"task_a": {"red circle"}, "task_b": nil}
	if err := s.SaveTaskLanguage(run.RunID, tasks); err != nil {
		t.Fatalf("SaveTaskLanguage: %v", err)
	}

	got, err := s.LoadTaskLanguage(run.RunID)
	if err != nil {
		t.Fatalf("LoadTaskLanguage: %v", err)
	}
	want := language.TaskLanguage{"task_a": {"red circle"}, "task_b": {}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSaveReportAndListDiagnostics(t *testing.T) {
	s := tempDB(t)
	run, err := s.CreateRun(KindLanguage, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	report := language.Report{Diagnostics: []language.Diagnostic{
		{Kind: language.MissingFile, Subject: "d/test", Detail: "no such file"},
		{Kind: language.Collision, Subject: "x_y", Detail: "x y, x-y"},
	}}
	if err := s.SaveReport(run.RunID, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	entries, err := s.ListDiagnostics(run.RunID)
	if err != nil {
		t.Fatalf("ListDiagnostics: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(entries))
	}
	if entries[0].Kind != "missing_file" || entries[1].Subject != "x_y" {
		t.Errorf("unexpected diagnostics %+v", entries)
	}
}

func TestListRuns(t *testing.T) {
	s := tempDB(t)

	first, err := s.CreateRun(KindTranslations, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := s.SaveTranslations(first.RunID, alignment.TokenToTranslations{
		"t": {{Word: "a", Probability: 1}, {Word: "b", Probability: 0.5}},
	}); err != nil {
		t.Fatalf("SaveTranslations: %v", err)
	}
	second, err := s.CreateRun(KindExamples, nil)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != second.RunID {
		t.Errorf("expected most recent run first, got %s", runs[0].RunID)
	}
	if runs[1].Translations != 2 {
		t.Errorf("expected 2 translations, got %d", runs[1].Translations)
	}

	limited, err := s.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run, got %d", len(limited))
	}
}

func TestSaveTranslations_UnknownRun(t *testing.T) {
	s := tempDB(t)

	err := s.SaveTranslations("missing", alignment.TokenToTranslations{"t": {{Word: "w", Probability: 1}}})
	if err == nil {
		t.Fatal("expected foreign key error for unknown run")
	}
}
