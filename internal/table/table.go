// Package table reads and writes delimited files as ordered records.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input has no readable header row.
var ErrNoHeader = errors.New("could not read the CSV header")

// Schema is the ordered list of column names.
type Schema []string

// WithAppended returns a copy of s with names appended, skipping those
// already present.
func (s Schema) WithAppended(names ...string) Schema {
	out := append(Schema(nil), s...)
	for _, n := range names {
		if !out.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Has reports whether the schema contains name.
func (s Schema) Has(name string) bool {
	for _, c := range s {
		if c == name {
			return true
		}
	}
	return false
}

// Record is one data row keyed by column name. When a header name repeats,
// Values holds the left-most column and the later ones are kept by position
// in Repeated, so every input column is written back unchanged. Values
// beyond the header width are kept in Extra and never written.
type Record struct {
	Values   map[string]string
	Repeated map[int]string
	Extra    []string
}

// Get returns the value of column name, or "".
func (r Record) Get(name string) string { return r.Values[name] }

// Line returns rec's values in schema order.
func (s Schema) Line(rec Record) []string {
	line := make([]string, len(s))
	seen := make(map[string]struct{}, len(s))
	for i, name := range s {
		if _, dup := seen[name]; dup {
			line[i] = rec.Repeated[i]
			continue
		}
		seen[name] = struct{}{}
		line[i] = rec.Values[name]
	}
	return line
}

// Read parses delimited text into a schema and its records. Short rows are
// padded with empty values; long rows keep the overflow in Extra. Lookups by
// name see the left-most of repeated headers.
func Read(r io.Reader, delimiter rune) (Schema, []Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrNoHeader
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, nil, ErrNoHeader
	}
	schema := Schema(header)

	var records []Record
	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		rec := Record{Values: make(map[string]string, len(schema))}
		for i, name := range schema {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			if _, dup := rec.Values[name]; dup {
				if rec.Repeated == nil {
					rec.Repeated = map[int]string{}
				}
				rec.Repeated[i] = v
				continue
			}
			rec.Values[name] = v
		}
		if len(row) > len(schema) {
			rec.Extra = append([]string(nil), row[len(schema):]...)
		}
		records = append(records, rec)
	}
	return schema, records, nil
}

// WriteOptions controls serialization.
type WriteOptions struct {
	Delimiter rune
	UseCRLF   bool
	// Rewrite, when set, may replace a value just before it is written.
	Rewrite func(column, value string) string
}

// Write serializes the header and then every record in schema order. Extra
// values are dropped. Rewrite sees only the left-most column of a repeated
// name.
func Write(w io.Writer, schema Schema, records []Record, opt WriteOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	cw.UseCRLF = opt.UseCRLF
	if err := cw.Write(schema); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	first := make(map[string]int, len(schema))
	for j := len(schema) - 1; j >= 0; j-- {
		first[schema[j]] = j
	}
	for i, rec := range records {
		line := schema.Line(rec)
		if opt.Rewrite != nil {
			for j, name := range schema {
				if first[name] == j {
					line[j] = opt.Rewrite(name, line[j])
				}
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
