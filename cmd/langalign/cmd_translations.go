package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/store"
)

// #region translations
type translationParams struct {
	PhrasePrefix    string `json:"phrase_prefix"`
	GrammarPath     string `json:"grammar_path,omitempty"`
	MaxTranslations int    `json:"max_translations"`
}

func (a *app) translationsCmd() *cobra.Command {
	var (
		prefix      string
		grammarPath string
		maxN        int
	)
	cmd := &cobra.Command{
		Use:   "translations",
		Short: "Rank the most probable words for every grammar token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrideString(cmd, "phrase-prefix", &a.cfg.PhrasePrefix, prefix)
			overrideString(cmd, "grammar", &a.cfg.GrammarPath, grammarPath)
			overrideInt(cmd, "max-translations", &a.cfg.MaxTranslations, maxN)

			tr, err := a.rankTranslations()
			if err != nil {
				return err
			}
			printTranslations(cmd.OutOrStdout(), tr)

			return a.withStore(func(s *store.Store) error {
				run, err := s.CreateRun(store.KindTranslations, a.translationParams())
				if err != nil {
					return err
				}
				if err := s.SaveTranslations(run.RunID, tr); err != nil {
					return err
				}
				a.logger.Info("recorded run", zap.String("run_id", run.RunID), zap.String("kind", run.Kind))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "phrase-prefix", "", "directory containing phrase-table")
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "JSON escape map of the grammar")
	cmd.Flags().IntVar(&maxN, "max-translations", alignment.DefaultMaxTranslations, "translations kept per word")
	return cmd
}

func (a *app) translationParams() translationParams {
	return translationParams{
		PhrasePrefix:    a.cfg.PhrasePrefix,
		GrammarPath:     a.cfg.GrammarPath,
		MaxTranslations: a.cfg.MaxTranslations,
	}
}

func (a *app) rankTranslations() (alignment.TokenToTranslations, error) {
	g, err := a.grammar()
	if err != nil {
		return nil, err
	}
	tr, err := alignment.MaxProbabilityTranslations(a.cfg.PhrasePrefix, g, a.cfg.MaxTranslations)
	if err != nil {
		return nil, err
	}
	a.logger.Info("ranked translations",
		zap.String("phrase_prefix", a.cfg.PhrasePrefix), zap.Int("tokens", len(tr)))
	return tr, nil
}

func printTranslations(w io.Writer, tr alignment.TokenToTranslations) {
	for _, token := range tr.Tokens() {
		parts := make([]string, len(tr[token]))
		for i, wp := range tr[token] {
			parts[i] = fmt.Sprintf("%s (%.4f)", wp.Word, wp.Probability)
		}
		fmt.Fprintf(w, "%s: %s\n", token, strings.Join(parts, ", "))
	}
}
// #endregion translations
