package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/language-alignment/internal/store"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		last    int
		runID   string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List recorded runs or show one run's results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewStore(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				return runDetailMode(out, s, runID, jsonOut)
			}
			return runListMode(out, s, last, jsonOut)
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent runs")
	cmd.Flags().StringVar(&runID, "run", "", "show single run detail")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #region list-mode
type listRow struct {
	RunID        string `json:"run_id"`
	Kind         string `json:"kind"`
	Translations int    `json:"translations"`
	ExampleTasks int    `json:"example_tasks"`
	Tasks        int    `json:"tasks"`
	Diagnostics  int    `json:"diagnostics"`
	CreatedAt    string `json:"created_at"`
}

func runListMode(w io.Writer, s *store.Store, last int, jsonOut bool) error {
	runs, err := s.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	// Store returns newest first, reverse for chronological
	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[len(runs)-1-i] = listRow{
			RunID:        r.RunID,
			Kind:         r.Kind,
			Translations: r.Translations,
			ExampleTasks: r.ExampleTasks,
			Tasks:        r.Tasks,
			Diagnostics:  r.Diagnostics,
			CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(w, rows)
	}
	fmt.Fprintf(w, "%-10s  %-12s  %6s  %8s  %6s  %6s  %s\n",
		"Run", "Kind", "Trans", "Examples", "Tasks", "Diags", "Time")
	fmt.Fprintf(w, "%-10s+-%-12s+-%6s+-%8s+-%6s+-%6s+-%s\n",
		"----------", "------------", "------", "--------", "------", "------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %-12s  %6d  %8d  %6d  %6d  %s\n",
			shortID(r.RunID), r.Kind, r.Translations, r.ExampleTasks, r.Tasks, r.Diagnostics, r.CreatedAt)
	}
	return nil
}
// #endregion list-mode

// #region detail-mode
type detailOutput struct {
	RunID        string              `json:"run_id"`
	Kind         string              `json:"kind"`
	Params       string              `json:"params"`
	CreatedAt    string              `json:"created_at"`
	Translations map[string][]string `json:"translations,omitempty"`
	ExampleTasks map[string][]string `json:"example_tasks,omitempty"`
	Language     map[string][]string `json:"language,omitempty"`
	Diagnostics  []string            `json:"diagnostics,omitempty"`
}

func runDetailMode(w io.Writer, s *store.Store, runID string, jsonOut bool) error {
	run, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	out := detailOutput{
		RunID:     run.RunID,
		Kind:      run.Kind,
		Params:    run.ParamsJSON,
		CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}

	tr, err := s.LoadTranslations(runID)
	if err != nil {
		return err
	}
	if len(tr) > 0 {
		out.Translations = make(map[string][]string, len(tr))
		for token := range tr {
			out.Translations[token] = tr.Words(token)
		}
	}
	idx, err := s.LoadExampleTasks(runID)
	if err != nil {
		return err
	}
	if len(idx) > 0 {
		out.ExampleTasks = idx
	}
	tl, err := s.LoadTaskLanguage(runID)
	if err != nil {
		return err
	}
	if len(tl) > 0 {
		out.Language = tl
	}
	diags, err := s.ListDiagnostics(runID)
	if err != nil {
		return err
	}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("%s %s %s", d.Kind, d.Subject, d.Detail))
	}

	if jsonOut {
		return printJSON(w, out)
	}

	fmt.Fprintf(w, "Run:     %s\n", out.RunID)
	fmt.Fprintf(w, "Kind:    %s\n", out.Kind)
	fmt.Fprintf(w, "Created: %s\n", out.CreatedAt)
	fmt.Fprintf(w, "Params:  %s\n", out.Params)

	if len(tr) > 0 {
		fmt.Fprintf(w, "\nTranslations:\n")
		for _, token := range tr.Tokens() {
			fmt.Fprintf(w, "  %-20s %s\n", token, strings.Join(out.Translations[token], " "))
		}
	}
	if len(idx) > 0 {
		fmt.Fprintf(w, "\nExample tasks:\n")
		for _, token := range idx.Tokens() {
			fmt.Fprintf(w, "  %-20s %s\n", token, strings.Join(idx[token], " | "))
		}
	}
	if len(tl) > 0 {
		fmt.Fprintf(w, "\nLanguage: %d/%d tasks annotated\n", tl.Found(), len(tl))
	}
	if len(out.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nDiagnostics:\n")
		for _, d := range out.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return nil
}
// #endregion detail-mode
