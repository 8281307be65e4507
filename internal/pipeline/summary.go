package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/bmicsv/internal/columns"
	"github.com/KaramelBytes/bmicsv/internal/utils"
	"gopkg.in/yaml.v3"
)

// Summary describes a completed run.
type Summary struct {
	RunID           string          `json:"run_id" yaml:"run_id"`
	Input           string          `json:"input" yaml:"input"`
	Output          string          `json:"output" yaml:"output"`
	Rows            int             `json:"rows" yaml:"rows"`
	Succeeded       int             `json:"succeeded" yaml:"succeeded"`
	Invalid         int             `json:"invalid" yaml:"invalid"`
	InvalidByReason map[string]int  `json:"invalid_by_reason,omitempty" yaml:"invalid_by_reason,omitempty"`
	Delimiter       string          `json:"delimiter" yaml:"delimiter"`
	InputDecimal    string          `json:"input_decimal" yaml:"input_decimal"`
	OutputDecimal   string          `json:"output_decimal" yaml:"output_decimal"`
	Encoding        string          `json:"encoding" yaml:"encoding"`
	Columns         columns.Binding `json:"columns" yaml:"columns"`
	Schema          []string        `json:"schema" yaml:"schema"`
	Preview         [][]string      `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// Report describes what Inspect detected.
type Report struct {
	Input        string          `json:"input" yaml:"input"`
	Headers      []string        `json:"headers" yaml:"headers"`
	Rows         int             `json:"rows" yaml:"rows"`
	Delimiter    string          `json:"delimiter" yaml:"delimiter"`
	InputDecimal string          `json:"input_decimal" yaml:"input_decimal"`
	Encoding     string          `json:"encoding" yaml:"encoding"`
	Columns      columns.Binding `json:"columns" yaml:"columns"`
}

// Text renders the human-readable run summary.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d rows. Succeeded: %d. Invalid data: %d.\n", s.Rows, s.Succeeded, s.Invalid)
	if len(s.InvalidByReason) > 0 {
		reasons := make([]string, 0, len(s.InvalidByReason))
		for r := range s.InvalidByReason {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(&b, "  - %s: %d\n", r, s.InvalidByReason[r])
		}
	}
	fmt.Fprintf(&b, "Output: %s (delimiter='%s', decimal_in='%s', decimal_out='%s')\n",
		s.Output, s.Delimiter, s.InputDecimal, s.OutputDecimal)
	if len(s.Preview) > 0 {
		fmt.Fprintf(&b, "\nFirst %d rows:\n", len(s.Preview))
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(s.Schema, "\t"))
		for _, row := range s.Preview {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}
	return b.String()
}

// Text renders the human-readable detection report.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.Input)
	fmt.Fprintf(&b, "Rows: %d\n", r.Rows)
	fmt.Fprintf(&b, "Delimiter: '%s'\n", r.Delimiter)
	fmt.Fprintf(&b, "Decimal separator: '%s'\n", r.InputDecimal)
	fmt.Fprintf(&b, "Encoding: %s\n", r.Encoding)
	fmt.Fprintf(&b, "Weight column: %s\n", r.Columns.Weight)
	fmt.Fprintf(&b, "Height column: %s\n", r.Columns.Height)
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(r.Headers, ", "))
	return b.String()
}

// Batch aggregates the runs of one enrich-batch invocation.
type Batch struct {
	Files   int        `json:"files" yaml:"files"`
	Rows    int        `json:"rows" yaml:"rows"`
	Invalid int        `json:"invalid" yaml:"invalid"`
	Runs    []*Summary `json:"runs" yaml:"runs"`
}

// Add records a finished run.
func (b *Batch) Add(s *Summary) {
	b.Files++
	b.Rows += s.Rows
	b.Invalid += s.Invalid
	b.Runs = append(b.Runs, s)
}

// Text renders the batch totals line.
func (b *Batch) Text() string {
	return fmt.Sprintf("✓ Enriched %d files (%d rows, %d invalid)\n", b.Files, b.Rows, b.Invalid)
}

// ParseFormat validates a report format name and returns its canonical form.
func ParseFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return "text", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text|json|yaml)", format)
	}
}

// Render formats v as "text", "json" or "yaml". v must have a Text method
// for the text format.
func Render(v interface{ Text() string }, format string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	switch f {
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(b), nil
	default:
		return v.Text(), nil
	}
}
