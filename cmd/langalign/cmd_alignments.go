package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
)

// #region alignments
func (a *app) alignmentsCmd() *cobra.Command {
	var (
		prefix string
		word   string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "alignments",
		Short: "Print the phrase table, most probable alignment first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrideString(cmd, "phrase-prefix", &a.cfg.PhrasePrefix, prefix)

			al, err := alignment.ReadAlignments(a.cfg.PhrasePrefix)
			if err != nil {
				return err
			}
			a.logger.Debug("read phrase table",
				zap.Int("records", len(al.Records())), zap.Int("words", len(al.Words())))

			out := cmd.OutOrStdout()
			printed := 0
			for _, r := range al.Records() {
				if word != "" && r.Word != word {
					continue
				}
				if limit > 0 && printed >= limit {
					break
				}
				fmt.Fprintln(out, r.String())
				printed++
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "phrase-prefix", "", "directory containing phrase-table")
	cmd.Flags().StringVar(&word, "word", "", "only show alignments of this word")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")
	return cmd
}
// #endregion alignments
