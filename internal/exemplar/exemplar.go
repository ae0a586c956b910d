package exemplar

import (
	"slices"
	"strings"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/frontier"
)

// DefaultMaxTasks is the per-token example cap used when none is configured.
const DefaultMaxTasks = 3

// Index maps a program token to task names, in the order they were found.
type Index map[string][]string

// Tokens returns the index keys in lexical order.
func (idx Index) Tokens() []string {
	tokens := make([]string, 0, len(idx))
	for tok := range idx {
		tokens = append(tokens, tok)
	}
	slices.Sort(tokens)
	return tokens
}

// #region example-tasks
// ExampleTasks collects, per token, up to maxTasks distinct tasks that have a
// candidate program using the token and whose name contains one of the
// token's translated words. Frontiers are scanned in the given order.
func ExampleTasks(frontiers []frontier.Frontier, translations alignment.TokenToTranslations, maxTasks int) Index {
	idx := make(Index)
	if maxTasks <= 0 {
		return idx
	}
	for _, f := range frontiers {
		for _, entry := range f.Entries {
			for _, token := range entry.Tokens {
				words, ok := translations[token]
				if !ok {
					continue
				}
				for _, w := range words {
					if !strings.Contains(f.Task, w.Word) {
						continue
					}
					if len(idx[token]) >= maxTasks || slices.Contains(idx[token], f.Task) {
						continue
					}
					idx[token] = append(idx[token], f.Task)
				}
			}
		}
	}
	return idx
}
// #endregion example-tasks

// #region named-tasks
// TokensForTasks lists, per token, the named tasks whose programs use it.
// Tasks not in names are ignored.
func TokensForTasks(frontiers []frontier.Frontier, names []string) Index {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	idx := make(Index)
	for _, f := range frontiers {
		if !wanted[f.Task] {
			continue
		}
		for _, entry := range f.Entries {
			for _, token := range entry.Tokens {
				if !slices.Contains(idx[token], f.Task) {
					idx[token] = append(idx[token], f.Task)
				}
			}
		}
	}
	return idx
}

// SafeTaskName joins the words of a task name with underscores.
func SafeTaskName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// DefaultLogoExamples returns hand-picked LOGO tasks that illustrate the
// drawing primitives well.
func DefaultLogoExamples() []string {
	return []string{
		"a medium 6 gon",
		"a medium 7 gon",
		"a small 9 gon",

		"4 small square s in a row",
		"6 small 5 gon s in a row",
		"5 medium semicircle s in a row",

		"3 concentric square s",
		"2 concentric circle s",
		"8 concentric circle s",

		"a 4 stepped staircase_copy_0",
		"a 7 stepped staircase",
		"a 4 stepped zigzag",
		"a 5 stepped zigzag",

		"a small triangle connected by a big line to a medium triangle",
		"a small circle next to a small 6 gon",
		"a small 9 gon next to a medium square",

		"8 sided snowflake with a small triangle as arms",
		"7 sided snowflake with a short line and a small 5 gon as arms",
		"5 sided snowflake with a short line and a medium circle as arms",
		"7 sided snowflake with a short space and a short line and a short space and a small 5 gon as arms",
		"6 sided snowflake with a short space and a short line and a short space and a medium semicircle as arms",
	}
}
// #endregion named-tasks
