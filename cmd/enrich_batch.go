package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/bmicsv/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	ebFlags enrichFlags
	ebQuiet bool
)

var enrichBatchCmd = &cobra.Command{
	Use:   "enrich-batch <files...>",
	Short: "Enrich several CSV/TSV files, each written next to its input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suffix := currentConfig().OutputSuffix
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// keep literal paths so a missing file is reported as such
				matches = []string{arg}
			} else if suffix != "" {
				// a glob like *.csv also matches outputs of earlier runs
				kept := matches[:0]
				for _, m := range matches {
					if !strings.HasSuffix(strings.TrimSuffix(m, filepath.Ext(m)), suffix) {
						kept = append(kept, m)
					}
				}
				matches = kept
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		format, err := pipeline.ParseFormat(ebFlags.format)
		if err != nil {
			return err
		}
		// json and yaml print a single document; progress goes to stderr
		out, progress := cmd.OutOrStdout(), cmd.OutOrStdout()
		if format != "text" {
			progress = cmd.ErrOrStderr()
		}
		total := len(files)
		var batch pipeline.Batch
		for i, path := range files {
			if !ebQuiet {
				fmt.Fprintf(progress, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			opt, err := ebFlags.options(cmd, path)
			if err != nil {
				return err
			}
			s, err := pipeline.Run(cmd.Context(), opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			batch.Add(s)
			if s.Invalid > 0 && !ebQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %d of %d rows have invalid data\n", filepath.Base(path), s.Invalid, s.Rows)
			}
			if !ebQuiet && format == "text" {
				fmt.Fprint(out, s.Text())
			}
		}
		if ebQuiet {
			return nil
		}
		text, err := pipeline.Render(&batch, format)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichBatchCmd)
	bindEnrichFlags(enrichBatchCmd, &ebFlags)
	enrichBatchCmd.Flags().BoolVar(&ebQuiet, "quiet", false, "suppress progress and summaries")
}
