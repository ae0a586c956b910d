package alignment

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region helpers
func writePhraseTable(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	body := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PhraseTableFile), []byte(body), 0644))
	return dir
}
// #endregion helpers

// #region read-tests
func TestReadAlignments_SortsPerWord(t *testing.T) {
	dir := writePhraseTable(t,
		"circle ||| round ||| 0.2",
		"arc ||| round ||| 0.7",
		"square ||| box ||| 0.9",
		"line ||| round ||| 0.1",
	)

	a, err := ReadAlignments(dir)
	require.NoError(t, err)

	assert.Equal(t, []Translation{
		{Token: "arc", Probability: 0.7},
		{Token: "circle", Probability: 0.2},
		{Token: "line", Probability: 0.1},
	}, a.ForWord("round"))
	assert.Equal(t, []Translation{{Token: "square", Probability: 0.9}}, a.ForWord("box"))
	assert.Equal(t, []string{"box", "round"}, a.Words())
}

func TestReadAlignments_StableTies(t *testing.T) {
	dir := writePhraseTable(t,
		"first ||| w ||| 0.5",
		"second ||| w ||| 0.5",
		"third ||| w ||| 0.5",
	)

	a, err := ReadAlignments(dir)
	require.NoError(t, err)

	var tokens []string
	for _, tr := range a.ForWord("w") {
		tokens = append(tokens, tr.Token)
	}
	assert.Equal(t, []string{"first", "second", "third"}, tokens)
}

func TestReadAlignments_BucketsPartitionGlobalOrder(t *testing.T) {
	lines := []string{
		"a ||| x ||| 0.3",
		"b ||| y ||| 0.3",
		"c ||| x ||| 0.9",
		"d ||| y ||| 0.05",
		"e ||| z ||| 0.3",
		"a ||| x ||| 0.3",
	}
	a, err := ReadAlignments(writePhraseTable(t, lines...))
	require.NoError(t, err)

	records := a.Records()
	require.Len(t, records, len(lines))
	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Probability, records[i].Probability)
	}

	// Filtering the global list by word must reproduce each bucket exactly.
	for word, bucket := range a.PerWord() {
		var filtered []Translation
		for _, r := range records {
			if r.Word == word {
				filtered = append(filtered, Translation{Token: r.Token, Probability: r.Probability})
			}
		}
		assert.Equal(t, filtered, bucket, "word %q", word)
	}
	assert.Len(t, a.ForWord("x"), 3, "duplicates are retained")
}

func TestReadAlignments_TrailingNewline(t *testing.T) {
	dir := t.TempDir()
	body := "tok ||| word ||| 1\nother ||| word ||| 0.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PhraseTableFile), []byte(body), 0644))

	a, err := ReadAlignments(dir)
	require.NoError(t, err)
	assert.Len(t, a.Records(), 2)
}

func TestReadAlignments_BlankLineIsParseError(t *testing.T) {
	for _, blank := range []string{"", "   "} {
		dir := writePhraseTable(t, "tok ||| word ||| 1", blank, "other ||| word ||| 0.5")

		_, err := ReadAlignments(dir)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "blank line %q", blank)
		assert.Equal(t, 2, perr.Line)
		assert.ErrorIs(t, err, errFieldCount)
	}
}

func TestReadAlignments_NotFound(t *testing.T) {
	_, err := ReadAlignments(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
// #endregion read-tests

// #region parse-error-tests
func TestReadAlignments_WrongFieldCount(t *testing.T) {
	dir := writePhraseTable(t,
		"tok ||| word ||| 0.5",
		"tok ||| word",
	)

	_, err := ReadAlignments(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.ErrorIs(t, err, errFieldCount)
}

func TestReadAlignments_BadProbability(t *testing.T) {
	dir := writePhraseTable(t, "tok ||| word ||| likely")

	_, err := ReadAlignments(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}
// #endregion parse-error-tests

func TestAlignmentRecord_String(t *testing.T) {
	r := AlignmentRecord{Token: "logo_FWRT", Word: "line", Probability: 0.25}
	assert.Equal(t, "p(logo_FWRT | 'line') = 0.25", r.String())
}
