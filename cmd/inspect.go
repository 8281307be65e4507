package cmd

import (
	"fmt"

	"github.com/KaramelBytes/bmicsv/internal/pipeline"
	"github.com/spf13/cobra"
)

var insFlags enrichFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show detected delimiter, decimal separator and weight/height columns without writing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := insFlags.options(cmd, args[0])
		if err != nil {
			return err
		}
		rep, err := pipeline.Inspect(cmd.Context(), opt)
		if err != nil {
			return err
		}
		out, err := pipeline.Render(rep, insFlags.format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	f := inspectCmd.Flags()
	f.StringVar(&insFlags.weightCol, "weight-col", "", "exact name of the weight (kg) column")
	f.StringVar(&insFlags.heightCol, "height-col", "", "exact name of the height (m or cm) column")
	f.StringVar(&insFlags.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	f.StringVar(&insFlags.decimal, "decimal", "", "input decimal separator: '.'|'comma' (auto-detect if omitted)")
	f.StringVar(&insFlags.encoding, "encoding", "", "input encoding (default from config, utf-8-sig)")
	f.StringVar(&insFlags.format, "format", "text", "report format: text|json|yaml")
}
