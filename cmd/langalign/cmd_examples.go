package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/exemplar"
	"github.com/danielpatrickdp/language-alignment/internal/frontier"
	"github.com/danielpatrickdp/language-alignment/internal/store"
)

// #region examples
type exampleParams struct {
	translationParams
	FrontiersPath string `json:"frontiers_path"`
	MaxTasks      int    `json:"max_tasks"`
}

func (a *app) examplesCmd() *cobra.Command {
	var (
		prefix        string
		grammarPath   string
		frontiersPath string
		maxN          int
		maxTasks      int
		named         []string
		logoExamples  bool
	)
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Find example tasks for every grammar token",
		Long: `Joins the ranked translations with the frontiers: a task is an example of a
token when one of its programs uses the token and its name contains one of the
token's translated words.

With --named or --logo-examples, also lists the tokens used by those tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrideString(cmd, "phrase-prefix", &a.cfg.PhrasePrefix, prefix)
			overrideString(cmd, "grammar", &a.cfg.GrammarPath, grammarPath)
			overrideString(cmd, "frontiers", &a.cfg.FrontiersPath, frontiersPath)
			overrideInt(cmd, "max-translations", &a.cfg.MaxTranslations, maxN)
			overrideInt(cmd, "max-tasks", &a.cfg.MaxTasks, maxTasks)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			frontiers, err := frontier.Load(a.cfg.FrontiersPath)
			if err != nil {
				return err
			}
			tr, err := a.rankTranslations()
			if err != nil {
				return err
			}

			idx := exemplar.ExampleTasks(frontiers, tr, a.cfg.MaxTasks)
			a.logger.Info("found example tasks",
				zap.Int("frontiers", len(frontiers)), zap.Int("tokens", len(idx)))
			out := cmd.OutOrStdout()
			printIndex(out, idx, tr)

			if logoExamples {
				named = append(named, exemplar.DefaultLogoExamples()...)
			}
			if len(named) > 0 {
				fmt.Fprintln(out, "\nTokens used by named tasks:")
				byToken := exemplar.TokensForTasks(frontiers, named)
				for _, token := range byToken.Tokens() {
					safe := make([]string, len(byToken[token]))
					for i, name := range byToken[token] {
						safe[i] = exemplar.SafeTaskName(name)
					}
					fmt.Fprintf(out, "  %s: %s\n", token, strings.Join(safe, ", "))
				}
			}

			return a.withStore(func(s *store.Store) error {
				run, err := s.CreateRun(store.KindExamples, exampleParams{
					translationParams: a.translationParams(),
					FrontiersPath:     a.cfg.FrontiersPath,
					MaxTasks:          a.cfg.MaxTasks,
				})
				if err != nil {
					return err
				}
				if err := s.SaveTranslations(run.RunID, tr); err != nil {
					return err
				}
				if err := s.SaveExampleTasks(run.RunID, idx); err != nil {
					return err
				}
				a.logger.Info("recorded run", zap.String("run_id", run.RunID), zap.String("kind", run.Kind))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "phrase-prefix", "", "directory containing phrase-table")
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "JSON escape map of the grammar")
	cmd.Flags().StringVar(&frontiersPath, "frontiers", "", "JSON frontiers file")
	cmd.Flags().IntVar(&maxN, "max-translations", alignment.DefaultMaxTranslations, "translations kept per word")
	cmd.Flags().IntVar(&maxTasks, "max-tasks", exemplar.DefaultMaxTasks, "example tasks kept per token")
	cmd.Flags().StringArrayVar(&named, "named", nil, "task name to list tokens for (repeatable)")
	cmd.Flags().BoolVar(&logoExamples, "logo-examples", false, "list tokens for the built-in LOGO example tasks")
	return cmd
}

func printIndex(w io.Writer, idx exemplar.Index, tr alignment.TokenToTranslations) {
	for _, token := range idx.Tokens() {
		fmt.Fprintf(w, "%s [%s]\n", token, strings.Join(tr.Words(token), " "))
		for _, name := range idx[token] {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
}
// #endregion examples
