package alignment

import (
	"fmt"
	"slices"
)

// DefaultMaxTranslations is the per-word cap used when none is configured.
const DefaultMaxTranslations = 5

// #region grammar
// Grammar exposes the escaping the aligner required for program tokens.
type Grammar interface {
	// OriginalToEscaped maps an original token to its escaped text form.
	OriginalToEscaped() map[string]string
}

// escapedToOriginal inverts the grammar's escape map. When several originals
// share an escaped form the lexically smallest original is kept.
func escapedToOriginal(g Grammar) map[string]string {
	if g == nil {
		return nil
	}
	forward := g.OriginalToEscaped()
	originals := make([]string, 0, len(forward))
	for original := range forward {
		originals = append(originals, original)
	}
	slices.Sort(originals)

	reverse := make(map[string]string, len(forward))
	for _, original := range originals {
		escaped := forward[original]
		if _, ok := reverse[escaped]; !ok {
			reverse[escaped] = original
		}
	}
	return reverse
}
// #endregion grammar

// #region max-probability
// MaxProbabilityTranslations reads the phrase table under prefix and returns,
// per original token, the words whose top maxN translations include it.
func MaxProbabilityTranslations(prefix string, g Grammar, maxN int) (TokenToTranslations, error) {
	if maxN <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxTranslations, maxN)
	}
	a, err := ReadAlignments(prefix)
	if err != nil {
		return nil, err
	}
	return RankTranslations(a, g, maxN)
}

// RankTranslations groups the top maxN translations of every word by token.
// Escaped tokens known to g are mapped back to their original form; a nil
// Grammar keeps every token as written in the phrase table.
func RankTranslations(a *Alignments, g Grammar, maxN int) (TokenToTranslations, error) {
	if maxN <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxTranslations, maxN)
	}
	reverse := escapedToOriginal(g)

	out := make(TokenToTranslations)
	for _, word := range a.Words() {
		ranked := a.ForWord(word)
		if len(ranked) > maxN {
			ranked = ranked[:maxN]
		}
		for _, tr := range ranked {
			token := tr.Token
			if original, ok := reverse[token]; ok {
				token = original
			}
			out[token] = append(out[token], WordProbability{Word: word, Probability: tr.Probability})
		}
	}
	return out, nil
}
// #endregion max-probability
