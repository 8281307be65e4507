package cmd

import (
	"fmt"

	"github.com/KaramelBytes/bmicsv/internal/bmi"
	"github.com/KaramelBytes/bmicsv/internal/format"
	"github.com/KaramelBytes/bmicsv/internal/pipeline"
	"github.com/spf13/cobra"
)

// enrichFlags holds the flags shared by enrich and enrich-batch.
type enrichFlags struct {
	weightCol      string
	heightCol      string
	delimiter      string
	decimal        string
	outputDecimal  string
	encoding       string
	outputEncoding string
	crlf           bool
	preview        int
	format         string
}

var (
	enrOutput string
	enrFlags  enrichFlags
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>",
	Short: "Compute BMI and category for every row of a CSV/TSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := enrFlags.options(cmd, args[0])
		if err != nil {
			return err
		}
		opt.OutputPath = enrOutput
		s, err := pipeline.Run(cmd.Context(), opt)
		if err != nil {
			return err
		}
		out, err := pipeline.Render(s, enrFlags.format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVarP(&enrOutput, "output", "o", "", "output path (default: <input>_com_imc.<ext>)")
	bindEnrichFlags(enrichCmd, &enrFlags)
}

func bindEnrichFlags(c *cobra.Command, f *enrichFlags) {
	c.Flags().StringVar(&f.weightCol, "weight-col", "", "exact name of the weight (kg) column; auto-detected if omitted")
	c.Flags().StringVar(&f.heightCol, "height-col", "", "exact name of the height (m or cm) column; auto-detected if omitted")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	c.Flags().StringVar(&f.decimal, "decimal", "", "input decimal separator: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&f.outputDecimal, "output-decimal", "", "decimal separator for the BMI value: '.'|'comma' (default from config, '.')")
	c.Flags().StringVar(&f.encoding, "encoding", "", "input encoding (default from config, utf-8-sig)")
	c.Flags().StringVar(&f.outputEncoding, "output-encoding", "", "output encoding (default: same as input)")
	c.Flags().BoolVar(&f.crlf, "crlf", false, "terminate output lines with CRLF")
	c.Flags().IntVar(&f.preview, "preview", 0, "print the first N enriched rows")
	c.Flags().StringVar(&f.format, "format", "text", "summary format: text|json|yaml")
}

// options merges flags over the loaded configuration.
func (f *enrichFlags) options(cmd *cobra.Command, input string) (pipeline.Options, error) {
	c := currentConfig()
	// reject a bad report format before anything is written
	if _, err := pipeline.ParseFormat(f.format); err != nil {
		return pipeline.Options{}, err
	}
	delim, err := format.ParseDelimiter(f.delimiter)
	if err != nil {
		return pipeline.Options{}, err
	}
	dec, err := format.ParseDecimal(f.decimal)
	if err != nil {
		return pipeline.Options{}, err
	}
	outDecName := c.OutputDecimal
	if f.outputDecimal != "" {
		outDecName = f.outputDecimal
	}
	outDec, err := format.ParseDecimal(outDecName)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("output decimal: %w", err)
	}
	enc := c.Encoding
	if f.encoding != "" {
		enc = f.encoding
	}
	if _, err := format.LookupEncoding(enc); err != nil {
		return pipeline.Options{}, err
	}
	preview := c.PreviewRows
	if cmd.Flags().Changed("preview") {
		preview = f.preview
	}
	return pipeline.Options{
		InputPath:           input,
		OutputSuffix:        c.OutputSuffix,
		WeightColumn:        f.weightCol,
		HeightColumn:        f.heightCol,
		Delimiter:           delim,
		InputDecimal:        dec,
		OutputDecimal:       outDec,
		Encoding:            enc,
		OutputEncoding:      f.outputEncoding,
		SampleChars:         c.SampleChars,
		DecimalSampleRows:   c.DecimalSampleRows,
		UseCRLF:             c.CRLF || f.crlf,
		PreviewRows:         preview,
		Fields:              bmi.Fields{Value: c.BMIColumn, Category: c.CategoryColumn},
		ExtraWeightSynonyms: c.WeightSynonyms,
		ExtraHeightSynonyms: c.HeightSynonyms,
	}, nil
}
