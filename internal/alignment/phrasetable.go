package alignment

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	// PhraseTableFile is the file name the aligner writes under its output prefix.
	PhraseTableFile = "phrase-table"

	fieldSeparator = " ||| "
	scannerBufSize = 4 * 1024 * 1024
)

// #region alignments
// Alignments is a parsed phrase table. Records are kept in global
// probability-descending order; each word's bucket preserves that order.
type Alignments struct {
	records []AlignmentRecord
	words   []string
	perWord WordToTranslations
}

// NewAlignments stable-sorts records by probability and groups them by word.
func NewAlignments(records []AlignmentRecord) *Alignments {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b AlignmentRecord) int {
		return cmp.Compare(b.Probability, a.Probability)
	})

	a := &Alignments{
		records: sorted,
		perWord: make(WordToTranslations),
	}
	for _, r := range sorted {
		if _, ok := a.perWord[r.Word]; !ok {
			a.words = append(a.words, r.Word)
		}
		a.perWord[r.Word] = append(a.perWord[r.Word], Translation{Token: r.Token, Probability: r.Probability})
	}
	return a
}

// Records returns every record, most probable first.
func (a *Alignments) Records() []AlignmentRecord {
	return a.records
}

// Words returns the distinct words in order of their most probable record.
func (a *Alignments) Words() []string {
	return a.words
}

// PerWord returns the ranked translations of every word.
func (a *Alignments) PerWord() WordToTranslations {
	return a.perWord
}

// ForWord returns the ranked translations of word, or nil.
func (a *Alignments) ForWord(word string) []Translation {
	return a.perWord[word]
}
// #endregion alignments

// #region read
// ReadAlignments reads <prefix>/phrase-table and ranks its translations per word.
func ReadAlignments(prefix string) (*Alignments, error) {
	path := filepath.Join(prefix, PhraseTableFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrase table: %w", err)
	}
	defer f.Close()

	records, err := ParsePhraseTable(f, path)
	if err != nil {
		return nil, err
	}
	return NewAlignments(records), nil
}

// ParsePhraseTable parses "token ||| word ||| probability" lines in file order.
// name is only used in error messages. Every line must hold all three fields.
func ParsePhraseTable(r io.Reader, name string) ([]AlignmentRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scannerBufSize)

	var records []AlignmentRecord
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		rec, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Path: name, Line: lineNum, Text: line, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return records, nil
}

func parseLine(line string) (AlignmentRecord, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != 3 {
		return AlignmentRecord{}, fmt.Errorf("%w, got %d", errFieldCount, len(fields))
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return AlignmentRecord{}, err
	}
	return AlignmentRecord{Token: fields[0], Word: fields[1], Probability: p}, nil
}
// #endregion read
