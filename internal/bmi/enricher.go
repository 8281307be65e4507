package bmi

// Fields names the two output columns.
type Fields struct {
	Value    string
	Category string
}

// DefaultFields are the appended column names.
var DefaultFields = Fields{Value: "bmi", Category: "category"}

// Enricher fills the output fields of each row and counts failures. It is
// not safe for concurrent use.
type Enricher struct {
	WeightColumn string
	HeightColumn string
	Decimal      rune
	Fields       Fields

	failed   int
	byReason map[Reason]int
}

// NewEnricher returns an Enricher for the bound columns.
func NewEnricher(weightCol, heightCol string, decimal rune, fields Fields) *Enricher {
	if fields.Value == "" {
		fields.Value = DefaultFields.Value
	}
	if fields.Category == "" {
		fields.Category = DefaultFields.Category
	}
	return &Enricher{
		WeightColumn: weightCol,
		HeightColumn: heightCol,
		Decimal:      decimal,
		Fields:       fields,
		byReason:     map[Reason]int{},
	}
}

// Enrich sets the index and category fields on row. Invalid rows get empty
// fields and count as failed; the batch never stops on them.
func (e *Enricher) Enrich(row map[string]string) (Result, bool) {
	w, hasW := ParseNumber(row[e.WeightColumn], e.Decimal)
	h, hasH := ParseNumber(row[e.HeightColumn], e.Decimal)
	res := Compute(w, hasW, h, hasH)
	if !res.Valid() {
		e.failed++
		e.byReason[res.Reason]++
		row[e.Fields.Value] = ""
		row[e.Fields.Category] = ""
		return res, true
	}
	row[e.Fields.Value] = FormatValue(res.Value, '.')
	row[e.Fields.Category] = res.Category.String()
	return res, false
}

// Failed returns the number of rows without an index so far.
func (e *Enricher) Failed() int { return e.failed }

// FailuresByReason returns a copy of the per-reason failure counts.
func (e *Enricher) FailuresByReason() map[string]int {
	out := make(map[string]int, len(e.byReason))
	for r, n := range e.byReason {
		out[r.String()] = n
	}
	return out
}
