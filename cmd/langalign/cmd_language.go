package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/language-alignment/internal/frontier"
	"github.com/danielpatrickdp/language-alignment/internal/language"
	"github.com/danielpatrickdp/language-alignment/internal/store"
)

// #region language
type languageParams struct {
	DatasetDir string   `json:"dataset_dir"`
	Datasets   []string `json:"datasets"`
	Tasks      int      `json:"tasks"`
}

func (a *app) languageCmd() *cobra.Command {
	var (
		datasetDir    string
		datasets      []string
		frontiersPath string
		taskNames     []string
		showVocab     bool
	)
	cmd := &cobra.Command{
		Use:   "language",
		Short: "Load natural-language annotations for tasks",
		Long: `Loads <dataset-dir>/<dataset>/{train,test}/{language,vocab}.json for each
dataset and reports which tasks have language. Tasks come from --task flags or
from the task names of a frontiers file. A dataset whose name contains "path"
is read as a single legacy file keyed by stimulus path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrideString(cmd, "dataset-dir", &a.cfg.DatasetDir, datasetDir)
			overrideString(cmd, "frontiers", &a.cfg.FrontiersPath, frontiersPath)
			if cmd.Flags().Changed("dataset") {
				a.cfg.Datasets = datasets
			}

			tasks := make(language.TaskLanguage)
			for _, name := range taskNames {
				tasks[name] = []string{}
			}
			if len(taskNames) == 0 && a.cfg.FrontiersPath != "" {
				frontiers, err := frontier.Load(a.cfg.FrontiersPath)
				if err != nil {
					return err
				}
				for _, name := range frontier.TaskNames(frontiers) {
					tasks[name] = []string{}
				}
			}
			if len(tasks) == 0 {
				return fmt.Errorf("no tasks: pass --task or --frontiers")
			}

			res, err := language.NewLoader(a.logger).ForTasks(a.cfg.Datasets, a.cfg.DatasetDir, tasks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found language for %d/%d tasks\n", res.Report.Found, res.Report.Total)
			if res.Vocabularies != nil {
				fmt.Fprintf(out, "Found vocabularies of n=[%d] for train and n=[%d] for test.\n",
					len(res.Vocabularies.Train), len(res.Vocabularies.Test))
				if showVocab {
					if err := printJSON(out, res.Vocabularies); err != nil {
						return err
					}
				}
			}
			for _, d := range res.Report.Diagnostics {
				fmt.Fprintf(out, "  %-16s %s  %s\n", d.Kind, d.Subject, d.Detail)
			}

			return a.withStore(func(s *store.Store) error {
				run, err := s.CreateRun(store.KindLanguage, languageParams{
					DatasetDir: a.cfg.DatasetDir,
					Datasets:   a.cfg.Datasets,
					Tasks:      len(tasks),
				})
				if err != nil {
					return err
				}
				if err := s.SaveTaskLanguage(run.RunID, res.Tasks); err != nil {
					return err
				}
				if err := s.SaveReport(run.RunID, res.Report); err != nil {
					return err
				}
				a.logger.Info("recorded run", zap.String("run_id", run.RunID), zap.String("kind", run.Kind))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&datasetDir, "dataset-dir", "", "directory holding the language datasets")
	cmd.Flags().StringArrayVar(&datasets, "dataset", nil, "dataset name (repeatable)")
	cmd.Flags().StringVar(&frontiersPath, "frontiers", "", "JSON frontiers file supplying task names")
	cmd.Flags().StringArrayVar(&taskNames, "task", nil, "task name to load language for (repeatable)")
	cmd.Flags().BoolVar(&showVocab, "vocab", false, "print the merged vocabularies")
	return cmd
}
// #endregion language
