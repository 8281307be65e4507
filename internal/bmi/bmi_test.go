package bmi

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw     string
		decimal rune
		want    float64
		ok      bool
	}{
		{"70,5", ',', 70.5, true},
		{"1.234,5", ',', 1234.5, true},
		{"70.5", '.', 70.5, true},
		{"1,234.5", '.', 1234.5, true},
		{" 80 ", '.', 80, true},
		{" 1,75 ", ',', 1.75, true},
		{"", '.', 0, false},
		{"   ", ',', 0, false},
		{"abc", '.', 0, false},
		{"1 75", ',', 0, false},
		{"1e2", '.', 100, true},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.raw, c.decimal)
		if ok != c.ok || (ok && math.Abs(got-c.want) > 1e-9) {
			t.Errorf("ParseNumber(%q, %q) = %v, %v; want %v, %v", c.raw, c.decimal, got, ok, c.want, c.ok)
		}
	}
}

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		index float64
		want  Category
	}{
		{10, Underweight},
		{18.49, Underweight},
		{18.5, NormalWeight},
		{24.99, NormalWeight},
		{25, Overweight},
		{29.99, Overweight},
		{30, ObesityI},
		{35, ObesityII},
		{39.99, ObesityII},
		{40, ObesityIII},
		{80, ObesityIII},
		{0, Undefined},
		{-3, Undefined},
		{math.NaN(), Undefined},
		{math.Inf(1), Undefined},
	}
	for _, c := range cases {
		if got := Classify(c.index); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.index, got, c.want)
		}
	}
}

func TestClassify_EveryPositiveIndexHasOneBand(t *testing.T) {
	for x := 0.01; x < 60; x += 0.01 {
		if Classify(x) == Undefined {
			t.Fatalf("index %v left unclassified", x)
		}
	}
}

func TestCategoryLabels(t *testing.T) {
	want := []string{"", "underweight", "normal weight", "overweight", "obesity grade I", "obesity grade II", "obesity grade III"}
	for i, w := range want {
		if got := Category(i).String(); got != w {
			t.Errorf("Category(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name       string
		w, h       float64
		hasW, hasH bool
		wantValue  string
		wantReason Reason
	}{
		{"meters", 70.5, 1.75, true, true, "23.02", OK},
		{"centimeters scaled", 80, 180, true, true, "24.69", OK},
		{"exactly three is meters", 90, 3, true, true, "10.00", OK},
		{"missing weight", 0, 1.7, false, true, "", MissingWeight},
		{"missing height", 70, 0, true, false, "", MissingHeight},
		{"zero height", 70, 0, true, true, "", ZeroHeight},
		{"negative height", 70, -1.7, true, true, "", NegativeHeight},
		{"zero weight", 0, 1.7, true, true, "", OutOfRange},
		{"negative weight", -70, 1.7, true, true, "", OutOfRange},
		{"infinite weight", math.Inf(1), 1.7, true, true, "", OutOfRange},
	}
	for _, c := range cases {
		res := Compute(c.w, c.hasW, c.h, c.hasH)
		if res.Reason != c.wantReason {
			t.Errorf("%s: reason %v, want %v", c.name, res.Reason, c.wantReason)
			continue
		}
		if c.wantValue != "" && FormatValue(res.Value, '.') != c.wantValue {
			t.Errorf("%s: value %s, want %s", c.name, FormatValue(res.Value, '.'), c.wantValue)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(23.0204, '.'); got != "23.02" {
		t.Fatalf("got %q", got)
	}
	if got := FormatValue(23.0204, ','); got != "23,02" {
		t.Fatalf("got %q", got)
	}
}

func TestEnricher(t *testing.T) {
	e := NewEnricher("peso", "altura", ',', Fields{})
	rows := []map[string]string{
		{"peso": "70,5", "altura": "1,75"},
		{"peso": "", "altura": "1,70"},
		{"peso": "60", "altura": "0"},
		{"peso": "72", "altura": "172"},
	}
	for _, row := range rows {
		e.Enrich(row)
	}
	if rows[0]["bmi"] != "23.02" || rows[0]["category"] != "normal weight" {
		t.Fatalf("row 0: %+v", rows[0])
	}
	for _, i := range []int{1, 2} {
		if rows[i]["bmi"] != "" || rows[i]["category"] != "" {
			t.Fatalf("row %d should be empty: %+v", i, rows[i])
		}
	}
	if rows[3]["bmi"] != "24.34" {
		t.Fatalf("row 3: %+v", rows[3])
	}
	if e.Failed() != 2 {
		t.Fatalf("failed = %d, want 2", e.Failed())
	}
	by := e.FailuresByReason()
	if by["missing_weight"] != 1 || by["zero_height"] != 1 {
		t.Fatalf("by reason: %v", by)
	}
}

func TestEnricher_OutOfRangeCounts(t *testing.T) {
	e := NewEnricher("w", "h", '.', Fields{Value: "imc", Category: "categoria_imc"})
	row := map[string]string{"w": "-5", "h": "1.7"}
	res, failed := e.Enrich(row)
	if !failed || res.Reason != OutOfRange {
		t.Fatalf("expected out-of-range failure, got %+v failed=%v", res, failed)
	}
	if row["imc"] != "" || row["categoria_imc"] != "" || e.Failed() != 1 {
		t.Fatalf("unexpected row %+v, failed=%d", row, e.Failed())
	}
}
