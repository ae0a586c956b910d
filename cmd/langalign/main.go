package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/config"
	"github.com/danielpatrickdp/language-alignment/internal/grammar"
	"github.com/danielpatrickdp/language-alignment/internal/logging"
	"github.com/danielpatrickdp/language-alignment/internal/store"
)

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
// #endregion main

// #region app
// app carries the state shared by every subcommand.
type app struct {
	configPath string
	dbPath     string
	verbose    bool
	noStore    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "langalign",
		Short: "Align task language with program grammar tokens",
		Long: `langalign ranks word-to-token translations from an aligner's phrase table,
finds example tasks for each grammar token, and loads the natural-language
annotations of tasks from per-split language datasets.

Results of each run are recorded in a SQLite database for later inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML config")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database for run results (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.noStore, "no-store", false, "do not record the run in the database")

	root.AddCommand(
		a.alignmentsCmd(),
		a.translationsCmd(),
		a.examplesCmd(),
		a.languageCmd(),
		a.inspectCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
// #endregion app

// #region helpers
// withStore opens the run database for fn unless recording is disabled.
func (a *app) withStore(fn func(s *store.Store) error) error {
	if a.noStore {
		return nil
	}
	s, err := store.NewStore(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store %s: %w", a.cfg.DBPath, err)
	}
	defer s.Close()
	return fn(s)
}

// grammar returns the configured escape map, or nil when none is set.
func (a *app) grammar() (alignment.Grammar, error) {
	if a.cfg.GrammarPath == "" {
		return nil, nil
	}
	g, err := grammar.Load(a.cfg.GrammarPath)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func overrideString(cmd *cobra.Command, name string, dst *string, v string) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int, v int) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
// #endregion helpers
