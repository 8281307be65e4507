// Package pipeline runs the enrichment end to end: sniff the dialect,
// resolve the weight/height columns, compute the index for every row and
// write the enriched file.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KaramelBytes/bmicsv/internal/bmi"
	"github.com/KaramelBytes/bmicsv/internal/columns"
	"github.com/KaramelBytes/bmicsv/internal/format"
	"github.com/KaramelBytes/bmicsv/internal/logging"
	"github.com/KaramelBytes/bmicsv/internal/table"
	"github.com/KaramelBytes/bmicsv/internal/utils"
	"github.com/google/uuid"
)

// ErrInputNotFound is returned when the input path does not name a file.
var ErrInputNotFound = errors.New("input file not found")

// Options configures a run. Zero runes mean auto-detect.
type Options struct {
	InputPath  string
	OutputPath string
	// OutputSuffix derives OutputPath when it is empty.
	OutputSuffix string

	WeightColumn string
	HeightColumn string

	Delimiter     rune
	InputDecimal  rune
	OutputDecimal rune

	Encoding       string
	OutputEncoding string

	SampleChars       int
	DecimalSampleRows int
	UseCRLF           bool
	PreviewRows       int

	Fields              bmi.Fields
	ExtraWeightSynonyms []string
	ExtraHeightSynonyms []string
}

// detection is everything known before the first row is enriched.
type detection struct {
	schema  table.Schema
	records []table.Record
	desc    format.Descriptor
	binding columns.Binding
}

// Inspect runs detection only and writes nothing.
func Inspect(ctx context.Context, opt Options) (*Report, error) {
	d, err := detect(ctx, opt, logging.WithFields("input", opt.InputPath))
	if err != nil {
		return nil, err
	}
	return &Report{
		Input:        opt.InputPath,
		Headers:      append([]string(nil), d.schema...),
		Rows:         len(d.records),
		Delimiter:    format.DelimiterName(d.desc.Delimiter),
		InputDecimal: string(d.desc.InputDecimal),
		Encoding:     d.desc.Encoding,
		Columns:      d.binding,
	}, nil
}

// Run enriches opt.InputPath and writes the result. Fatal conditions are all
// detected before the output file is touched; invalid rows are counted, not
// returned as errors.
func Run(ctx context.Context, opt Options) (*Summary, error) {
	runID := uuid.NewString()
	log := logging.WithFields("run_id", runID, "input", opt.InputPath)

	d, err := detect(ctx, opt, log)
	if err != nil {
		return nil, err
	}

	enricher := bmi.NewEnricher(d.binding.Weight, d.binding.Height, d.desc.InputDecimal, opt.Fields)
	fields := enricher.Fields
	for i := range d.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		enricher.Enrich(d.records[i].Values)
	}

	outSchema := d.schema.WithAppended(fields.Value, fields.Category)
	outPath := opt.OutputPath
	if outPath == "" {
		outPath = utils.DerivedPath(opt.InputPath, opt.OutputSuffix)
	}
	rewrite := func(column, value string) string { return value }
	if d.desc.OutputDecimal == ',' {
		rewrite = func(column, value string) string {
			if column == fields.Value && value != "" {
				return strings.Replace(value, ".", ",", 1)
			}
			return value
		}
	}

	var buf bytes.Buffer
	w, err := format.NewWriter(&buf, d.desc.OutputEncoding)
	if err != nil {
		return nil, err
	}
	err = table.Write(w, outSchema, d.records, table.WriteOptions{
		Delimiter: d.desc.Delimiter,
		UseCRLF:   opt.UseCRLF,
		Rewrite:   rewrite,
	})
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("encode %s: %w", d.desc.OutputEncoding, cerr)
	}
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(outPath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	total := len(d.records)
	s := &Summary{
		RunID:           runID,
		Input:           opt.InputPath,
		Output:          outPath,
		Rows:            total,
		Succeeded:       total - enricher.Failed(),
		Invalid:         enricher.Failed(),
		InvalidByReason: enricher.FailuresByReason(),
		Delimiter:       format.DelimiterName(d.desc.Delimiter),
		InputDecimal:    string(d.desc.InputDecimal),
		OutputDecimal:   string(d.desc.OutputDecimal),
		Encoding:        d.desc.OutputEncoding,
		Columns:         d.binding,
		Schema:          outSchema,
		Preview:         preview(outSchema, d.records, opt.PreviewRows, rewrite),
	}
	log.Info("enrichment finished",
		"output", outPath, "rows", s.Rows, "succeeded", s.Succeeded, "invalid", s.Invalid)
	return s, nil
}

func detect(ctx context.Context, opt Options, log *slog.Logger) (*detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, err := utils.IsRegularFile(opt.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opt.InputPath)
	}

	encName := opt.Encoding
	if encName == "" {
		encName = format.DefaultEncoding
	}
	outEnc := opt.OutputEncoding
	if outEnc == "" {
		outEnc = encName
	}
	// fail on a bad output encoding before doing any work
	if _, err := format.LookupEncoding(outEnc); err != nil {
		return nil, err
	}
	raw, err := readAll(opt.InputPath)
	if err != nil {
		return nil, err
	}
	text, err := format.Decode(raw, encName)
	if err != nil {
		return nil, err
	}

	desc := format.Descriptor{
		Delimiter:      opt.Delimiter,
		InputDecimal:   opt.InputDecimal,
		OutputDecimal:  opt.OutputDecimal,
		Encoding:       encName,
		OutputEncoding: outEnc,
	}
	if desc.OutputDecimal == 0 {
		desc.OutputDecimal = '.'
	}
	if desc.Delimiter == 0 {
		sample, truncated := format.Sample(text, opt.SampleChars)
		desc.Delimiter = format.SniffDelimiter(sample, truncated)
		log.Debug("delimiter detected", "delimiter", format.DelimiterName(desc.Delimiter))
	}

	schema, records, err := table.Read(strings.NewReader(text), desc.Delimiter)
	if err != nil {
		return nil, err
	}

	resolver := columns.NewResolver(opt.ExtraWeightSynonyms, opt.ExtraHeightSynonyms).
		Reserve(opt.Fields.Value, opt.Fields.Category, bmi.DefaultFields.Value, bmi.DefaultFields.Category)
	binding, err := resolver.Resolve(schema, columns.Overrides{Weight: opt.WeightColumn, Height: opt.HeightColumn})
	if err != nil {
		return nil, err
	}
	log.Debug("columns resolved", "weight", binding.Weight, "height", binding.Height)

	if desc.InputDecimal == 0 {
		rows := make([]map[string]string, len(records))
		for i := range records {
			rows[i] = records[i].Values
		}
		values := format.SampleDecimalValues(rows, []string{binding.Weight, binding.Height}, opt.DecimalSampleRows)
		desc.InputDecimal = format.DetectDecimal(values)
		log.Debug("decimal separator detected", "decimal", string(desc.InputDecimal), "sampled", len(values))
	}

	return &detection{schema: schema, records: records, desc: desc, binding: binding}, nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func preview(schema table.Schema, records []table.Record, n int, rewrite func(string, string) string) [][]string {
	if n <= 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	seen := map[string]struct{}{}
	out := make([][]string, 0, n)
	for _, rec := range records[:n] {
		row := schema.Line(rec)
		clear(seen)
		for j, name := range schema {
			if _, dup := seen[name]; !dup {
				row[j] = rewrite(name, row[j])
			}
			seen[name] = struct{}{}
		}
		out = append(out, row)
	}
	return out
}
