package format

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSampleChars is how much decoded text the delimiter sniffer looks at.
const DefaultSampleChars = 5000

// DefaultDecimalSampleRows bounds how many records feed decimal detection.
const DefaultDecimalSampleRows = 200

// candidates in tie-break order.
var candidates = []rune{',', '\t', ';'}

// minConsistency is the share of sampled records that must agree on the
// field count for a delimiter to qualify.
const minConsistency = 0.9

var (
	commaDecimal = regexp.MustCompile(`\d+,\d+`)
	dotDecimal   = regexp.MustCompile(`\d+\.\d+`)
)

// Sample returns at most n characters (runes) from the start of text and
// reports whether the text was cut short.
func Sample(text string, n int) (string, bool) {
	if n <= 0 {
		n = DefaultSampleChars
	}
	if utf8.RuneCountInString(text) <= n {
		return text, false
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos], true
		}
		i++
	}
	return text, false
}

// SniffDelimiter guesses the field delimiter of a text sample.
//
// Each candidate is tried as a CSV dialect over the sample's complete lines;
// the one whose records most consistently share a field count of at least two
// wins. When no candidate qualifies it falls back to comparing raw ',' and
// ';' counts, where ';' must be strictly more frequent.
func SniffDelimiter(sample string, truncated bool) rune {
	lines := sample
	if truncated {
		// the last line was cut by the sample limit
		if i := strings.LastIndexAny(lines, "\r\n"); i >= 0 {
			lines = lines[:i]
		}
	}
	best := rune(0)
	bestScore := 0.0
	for _, d := range candidates {
		score, ok := consistency(lines, d)
		if !ok {
			continue
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	if best != 0 {
		return best
	}
	return countFallback(sample)
}

// consistency parses text with delimiter d and returns the share of records
// having the modal field count. ok is false when the dialect does not fit.
func consistency(text string, d rune) (float64, bool) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = d
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	counts := map[int]int{}
	total := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, false
		}
		counts[len(rec)]++
		total++
	}
	if total == 0 {
		return 0, false
	}
	mode, modeN := 0, 0
	for n, c := range counts {
		if c > modeN || (c == modeN && n > mode) {
			mode, modeN = n, c
		}
	}
	if mode < 2 {
		return 0, false
	}
	score := float64(modeN) / float64(total)
	if score < minConsistency {
		return 0, false
	}
	return score, true
}

func countFallback(sample string) rune {
	if strings.Count(sample, ";") > strings.Count(sample, ",") {
		return ';'
	}
	return ','
}

// DetectDecimal picks ',' when more values look like "12,5" than "12.5";
// otherwise, including when there is nothing to look at, it picks '.'.
func DetectDecimal(values []string) rune {
	commaHits, dotHits := 0, 0
	for _, v := range values {
		if commaDecimal.MatchString(v) {
			commaHits++
		}
		if dotDecimal.MatchString(v) {
			dotHits++
		}
	}
	if commaHits > dotHits {
		return ','
	}
	return '.'
}

// SampleDecimalValues collects non-empty raw values of the given columns
// from the first limit rows, as input for DetectDecimal.
func SampleDecimalValues(rows []map[string]string, columns []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultDecimalSampleRows
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	var out []string
	for _, row := range rows {
		for _, c := range columns {
			if v := row[c]; v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
