// Package format detects and describes the dialect of a delimited input file:
// field delimiter, decimal separator and text encoding.
package format

import (
	"fmt"
	"strings"
)

// Descriptor holds the resolved dialect for one run. It applies uniformly to
// every record and is not modified once built.
type Descriptor struct {
	Delimiter     rune
	InputDecimal  rune
	OutputDecimal rune
	// Encoding is the canonical name accepted by LookupEncoding.
	Encoding       string
	OutputEncoding string
}

// ParseDelimiter converts a CLI/config value into a delimiter rune.
// An empty string returns 0, meaning auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab')", s)
	}
}

// ParseDecimal converts a CLI/config value into a decimal separator rune.
// An empty string returns 0, meaning auto-detect.
func ParseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma')", s)
	}
}

// DelimiterName renders a delimiter for humans; tab is spelled out.
func DelimiterName(r rune) string {
	if r == '\t' {
		return "tab"
	}
	return string(r)
}
