package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/bmicsv/internal/config"
	"github.com/KaramelBytes/bmicsv/internal/format"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bmicsv configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(currentConfig())
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "encoding":
			if _, err := format.LookupEncoding(val); err != nil {
				return err
			}
			cfg.Encoding = val
		case "output_decimal":
			d, err := format.ParseDecimal(val)
			if err != nil || d == 0 {
				return fmt.Errorf("invalid output_decimal: %s (use '.' or ',')", val)
			}
			cfg.OutputDecimal = string(d)
		case "output_suffix":
			if val == "" {
				return fmt.Errorf("output_suffix must not be empty")
			}
			cfg.OutputSuffix = val
		case "sample_chars", "decimal_sample_rows", "preview_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "sample_chars":
				cfg.SampleChars = i
			case "decimal_sample_rows":
				cfg.DecimalSampleRows = i
			default:
				cfg.PreviewRows = i
			}
		case "crlf":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for crlf: %w", err)
			}
			cfg.CRLF = b
		case "bmi_column":
			cfg.BMIColumn = val
		case "category_column":
			cfg.CategoryColumn = val
		case "weight_synonyms":
			cfg.WeightSynonyms = splitList(val)
		case "height_synonyms":
			cfg.HeightSynonyms = splitList(val)
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// splitList parses "a, b,c" into its non-empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
