package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/language-alignment/internal/store"
)

// #region helpers
type workspace struct {
	dir       string
	db        string
	prefix    string
	grammar   string
	frontiers string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dir:       dir,
		db:        filepath.Join(dir, "runs.db"),
		prefix:    filepath.Join(dir, "align"),
		grammar:   filepath.Join(dir, "grammar.json"),
		frontiers: filepath.Join(dir, "frontiers.json"),
	}
	write(t, filepath.Join(ws.prefix, "phrase-table"), strings.Join([]string{
		"logo_DIV_ ||| small ||| 0.6",
		"logo_MULL ||| big ||| 0.7",
		"logo_FWRT ||| line ||| 0.4",
		"logo_DIV_ ||| tiny ||| 0.3",
	}, "\n")+"\n")
	write(t, ws.grammar, `{"original_to_escaped": {"logo_DIV": "logo_DIV_"}}`)
	write(t, ws.frontiers, `[
		{"task": "a small triangle", "entries": [{"tokens": ["logo_DIV", "logo_FWRT"]}]},
		{"task": "a big line", "entries": [{"tokens": ["logo_MULL", "logo_FWRT"]}]},
		{"task": "a small 9 gon", "entries": [{"tokens": ["logo_DIV"]}]}
	]`)
	return ws
}

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
// #endregion helpers

func TestAlignmentsCmd(t *testing.T) {
	ws := newWorkspace(t)

	out, err := run(t, "alignments", "--phrase-prefix", ws.prefix, "--limit", "2", "--no-store")
	require.NoError(t, err)
	assert.Equal(t, "p(logo_MULL | 'big') = 0.7\np(logo_DIV_ | 'small') = 0.6\n", out)
}

func TestTranslationsCmd_RecordsRun(t *testing.T) {
	ws := newWorkspace(t)

	out, err := run(t, "translations", "--db", ws.db,
		"--phrase-prefix", ws.prefix, "--grammar", ws.grammar, "--max-translations", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "logo_DIV: small (0.6000), tiny (0.3000)")
	assert.NotContains(t, out, "logo_DIV_:")

	s, err := store.NewStore(ws.db)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.KindTranslations, runs[0].Kind)
	assert.Equal(t, 4, runs[0].Translations)
}

func TestTranslationsCmd_InvalidMax(t *testing.T) {
	ws := newWorkspace(t)

	_, err := run(t, "translations", "--no-store", "--phrase-prefix", ws.prefix, "--max-translations", "0")
	assert.Error(t, err)
}

func TestExamplesCmd(t *testing.T) {
	ws := newWorkspace(t)

	out, err := run(t, "examples", "--db", ws.db,
		"--phrase-prefix", ws.prefix, "--grammar", ws.grammar, "--frontiers", ws.frontiers,
		"--max-tasks", "1", "--named", "a big line")
	require.NoError(t, err)

	assert.Contains(t, out, "logo_DIV [small tiny]\n  - a small triangle\n")
	assert.NotContains(t, out, "  - a small 9 gon")
	assert.Contains(t, out, "logo_MULL [big]\n  - a big line\n")
	assert.Contains(t, out, "logo_FWRT [line]\n  - a big line\n")
	assert.Contains(t, out, "  logo_MULL: a_big_line")

	s, err := store.NewStore(ws.db)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].ExampleTasks)
}

func TestLanguageCmd(t *testing.T) {
	ws := newWorkspace(t)
	langDir := filepath.Join(ws.dir, "language")
	write(t, filepath.Join(langDir, "logo", "train", "language.json"), `{"a small triangle": [["a small triangle"]]}`)
	write(t, filepath.Join(langDir, "logo", "train", "vocab.json"), `["a", "small", "triangle"]`)

	out, err := run(t, "language", "--db", ws.db,
		"--dataset-dir", langDir, "--dataset", "logo", "--frontiers", ws.frontiers)
	require.NoError(t, err)

	assert.Contains(t, out, "Found language for 1/3 tasks")
	assert.Contains(t, out, "Found vocabularies of n=[3] for train and n=[0] for test.")
	assert.Contains(t, out, "missing_file")

	listOut, err := run(t, "inspect", "--db", ws.db, "--json")
	require.NoError(t, err)
	assert.Contains(t, listOut, `"kind": "language"`)
	assert.Contains(t, listOut, `"tasks": 3`)
	assert.Contains(t, listOut, `"diagnostics": 1`)
}

func TestLanguageCmd_NoTasks(t *testing.T) {
	_, err := run(t, "language", "--no-store", "--dataset", "logo")
	assert.Error(t, err)
}

func TestInspectCmd_Detail(t *testing.T) {
	ws := newWorkspace(t)
	_, err := run(t, "translations", "--db", ws.db, "--phrase-prefix", ws.prefix)
	require.NoError(t, err)

	s, err := store.NewStore(ws.db)
	require.NoError(t, err)
	runs, err := s.ListRuns(1)
	require.NoError(t, err)
	s.Close()
	require.Len(t, runs, 1)

	out, err := run(t, "inspect", "--db", ws.db, "--run", runs[0].RunID)
	require.NoError(t, err)
	assert.Contains(t, out, "Kind:    translations")
	assert.Contains(t, out, "logo_DIV_")
}

func TestInspectCmd_Empty(t *testing.T) {
	ws := newWorkspace(t)

	out, err := run(t, "inspect", "--db", ws.db)
	require.NoError(t, err)
	assert.Equal(t, "no runs found\n", out)
}
