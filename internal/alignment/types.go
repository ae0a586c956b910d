package alignment

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// #region records
// AlignmentRecord is a single phrase-table row: p(Token | Word) = Probability.
type AlignmentRecord struct {
	Token       string
	Word        string
	Probability float64
}

// String renders the record the way the alignment dumps print it.
func (r AlignmentRecord) String() string {
	return fmt.Sprintf("p(%s | '%s') = %s", r.Token, r.Word, strconv.FormatFloat(r.Probability, 'g', -1, 64))
}

// Translation is one ranked program token for a word.
type Translation struct {
	Token       string
	Probability float64
}

// WordProbability is one ranked word for a program token.
type WordProbability struct {
	Word        string
	Probability float64
}
// #endregion records

// #region rankings
// WordToTranslations maps a word to its program tokens, most probable first.
type WordToTranslations map[string][]Translation

// TokenToTranslations maps a program token to the words that translate to it.
// Entries are grouped per word in rank order and are not re-sorted across words.
type TokenToTranslations map[string][]WordProbability

// Tokens returns the token keys in lexical order.
func (t TokenToTranslations) Tokens() []string {
	tokens := make([]string, 0, len(t))
	for tok := range t {
		tokens = append(tokens, tok)
	}
	slices.Sort(tokens)
	return tokens
}

// Words returns only the words translated to token, in stored order.
func (t TokenToTranslations) Words(token string) []string {
	entries := t[token]
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}
// #endregion rankings

// #region errors
// ErrInvalidMaxTranslations is returned when the per-word translation cap is not positive.
var ErrInvalidMaxTranslations = errors.New("max translations must be positive")

var errFieldCount = errors.New("expected 3 fields separated by \" ||| \"")

// ParseError reports a malformed phrase-table line.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s:%d %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
// #endregion errors
