// Package bmi parses measurements, computes the body-mass index and
// classifies it.
package bmi

import (
	"math"
	"strconv"
	"strings"
)

// CentimeterThreshold is the height above which a value is taken to be in
// centimeters. No adult height in meters exceeds it.
const CentimeterThreshold = 3.0

// Category is a BMI band. The zero value means the index could not be
// computed.
type Category int

const (
	Undefined Category = iota
	Underweight
	NormalWeight
	Overweight
	ObesityI
	ObesityII
	ObesityIII
)

var categoryLabels = [...]string{
	Undefined:    "",
	Underweight:  "underweight",
	NormalWeight: "normal weight",
	Overweight:   "overweight",
	ObesityI:     "obesity grade I",
	ObesityII:    "obesity grade II",
	ObesityIII:   "obesity grade III",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryLabels) {
		return ""
	}
	return categoryLabels[c]
}

// Classify places an index on the half-open ladder
// <18.5, [18.5,25), [25,30), [30,35), [35,40), >=40.
// Non-finite and non-positive values are Undefined.
func Classify(index float64) Category {
	switch {
	case math.IsNaN(index) || math.IsInf(index, 0) || index <= 0:
		return Undefined
	case index < 18.5:
		return Underweight
	case index < 25:
		return NormalWeight
	case index < 30:
		return Overweight
	case index < 35:
		return ObesityI
	case index < 40:
		return ObesityII
	default:
		return ObesityIII
	}
}

// Reason explains why a row produced no index.
type Reason int

const (
	OK Reason = iota
	MissingWeight
	MissingHeight
	ZeroHeight
	NegativeHeight
	// OutOfRange covers a computed index that is not finite or not positive.
	OutOfRange
)

var reasonNames = [...]string{
	OK:             "ok",
	MissingWeight:  "missing_weight",
	MissingHeight:  "missing_height",
	ZeroHeight:     "zero_height",
	NegativeHeight: "negative_height",
	OutOfRange:     "out_of_range",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// Result is the outcome of one computation.
type Result struct {
	Value    float64
	Category Category
	Reason   Reason
}

// Valid reports whether an index was produced.
func (r Result) Valid() bool { return r.Reason == OK }

// ParseNumber reads a raw field using the given decimal separator. With ','
// every '.' is a thousands separator; with '.' every ',' is. ok is false for
// empty or unparsable input.
func ParseNumber(raw string, decimal rune) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if s == "" {
		return 0, false
	}
	if decimal == ',' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Compute derives the index from weight in kilograms and height in meters
// or centimeters. Inputs are checked up front; nothing is recovered after
// the division.
func Compute(weight float64, hasWeight bool, height float64, hasHeight bool) Result {
	switch {
	case !hasWeight:
		return Result{Reason: MissingWeight}
	case !hasHeight:
		return Result{Reason: MissingHeight}
	case height == 0:
		return Result{Reason: ZeroHeight}
	case height < 0:
		return Result{Reason: NegativeHeight}
	}
	if height > CentimeterThreshold {
		height /= 100
	}
	index := weight / (height * height)
	cat := Classify(index)
	if cat == Undefined {
		return Result{Reason: OutOfRange}
	}
	return Result{Value: index, Category: cat}
}

// FormatValue renders an index with two decimals, using ',' as the decimal
// mark when asked to.
func FormatValue(v float64, decimal rune) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if decimal == ',' {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}
