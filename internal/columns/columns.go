// Package columns binds input headers to the weight and height roles.
package columns

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Built-in synonym sets, already normalized.
var (
	WeightSynonyms = []string{"peso", "peso_kg", "massa", "massa_kg", "weight", "weight_kg", "mass", "mass_kg"}
	HeightSynonyms = []string{"altura", "altura_m", "estatura", "height", "height_m", "tamanho"}
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize folds a header for matching: lower-case, no diacritics, and
// runs of anything outside [a-z0-9] turned into a single underscore.
// "Peso (kg)" becomes "peso_kg". It never changes the header written out.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Binding names the raw headers holding weight and height.
type Binding struct {
	Weight string `json:"weight" yaml:"weight"`
	Height string `json:"height" yaml:"height"`
}

// Overrides are explicit header names; they bypass normalization and must
// match a header exactly.
type Overrides struct {
	Weight string
	Height string
}

// UnresolvedError reports a role that could not be bound.
type UnresolvedError struct {
	Missing []string
	Headers []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("could not identify %s column(s); pass --weight-col/--height-col. Available columns: %s",
		strings.Join(e.Missing, " and "), strings.Join(e.Headers, ", "))
}

// reservedTokens mark headers that describe a derived index or its class
// ("Body mass index", "IMC"); the token rule never binds them.
var reservedTokens = map[string]struct{}{
	"bmi": {}, "imc": {}, "index": {}, "indice": {},
	"category": {}, "categoria": {}, "classification": {}, "classificacao": {},
}

// Resolver matches headers against synonym sets. Each synonym carries a rank
// (its position in the set) used to break ties between candidate headers.
type Resolver struct {
	weight   map[string]int
	height   map[string]int
	reserved map[string]struct{}
}

// NewResolver builds a resolver from the built-in synonyms plus any extras.
// Extras are normalized before use and rank after the built-ins.
func NewResolver(extraWeight, extraHeight []string) *Resolver {
	return &Resolver{
		weight:   synonymRanks(WeightSynonyms, extraWeight),
		height:   synonymRanks(HeightSynonyms, extraHeight),
		reserved: map[string]struct{}{},
	}
}

func synonymRanks(base, extra []string) map[string]int {
	ranks := make(map[string]int, len(base)+len(extra))
	add := func(s string) {
		if _, ok := ranks[s]; !ok && s != "" {
			ranks[s] = len(ranks)
		}
	}
	for _, s := range base {
		add(s)
	}
	for _, s := range extra {
		add(Normalize(s))
	}
	return ranks
}

// Reserve excludes headers named like the output columns from the token rule.
func (r *Resolver) Reserve(names ...string) *Resolver {
	for _, n := range names {
		if n = Normalize(n); n != "" {
			r.reserved[n] = struct{}{}
		}
	}
	return r
}

// Resolve binds weight and height. Explicit overrides take precedence. The
// heuristic first looks for an exact synonym, then for a header containing a
// synonym as a whole underscore-separated token ("altura_em_m"). Candidates
// are ranked, never taken by position, so header order does not change the
// result; one header never serves both roles.
func (r *Resolver) Resolve(headers []string, o Overrides) (Binding, error) {
	var b Binding
	if o.Weight != "" {
		if !contains(headers, o.Weight) {
			return Binding{}, fmt.Errorf("weight column %q not found. Available columns: %s", o.Weight, strings.Join(headers, ", "))
		}
		b.Weight = o.Weight
	}
	if o.Height != "" {
		if !contains(headers, o.Height) {
			return Binding{}, fmt.Errorf("height column %q not found. Available columns: %s", o.Height, strings.Join(headers, ", "))
		}
		b.Height = o.Height
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = Normalize(h)
	}
	for _, match := range []matchFunc{exactMatch, r.tokenMatch} {
		if b.Weight == "" {
			b.Weight = pick(headers, normalized, r.weight, r.height, b.Height, match)
		}
		if b.Height == "" {
			b.Height = pick(headers, normalized, r.height, r.weight, b.Weight, match)
		}
	}

	var missing []string
	if b.Weight == "" {
		missing = append(missing, "weight")
	}
	if b.Height == "" {
		missing = append(missing, "height")
	}
	if len(missing) > 0 {
		return Binding{}, &UnresolvedError{Missing: missing, Headers: append([]string(nil), headers...)}
	}
	return b, nil
}

// matchFunc scores a normalized header against the synonyms of its own role.
// lead reports a match on the leading token; lower rank is better.
type matchFunc func(n string, own, other map[string]int) (lead bool, rank int, ok bool)

type candidate struct {
	header string
	norm   string
	lead   bool
	rank   int
}

func (c candidate) less(o candidate) bool {
	if c.lead != o.lead {
		return c.lead
	}
	if c.rank != o.rank {
		return c.rank < o.rank
	}
	if c.norm != o.norm {
		return c.norm < o.norm
	}
	return c.header < o.header
}

func pick(headers, normalized []string, own, other map[string]int, taken string, match matchFunc) string {
	var best candidate
	found := false
	for i, n := range normalized {
		if headers[i] == taken {
			continue
		}
		lead, rank, ok := match(n, own, other)
		if !ok {
			continue
		}
		c := candidate{header: headers[i], norm: n, lead: lead, rank: rank}
		if !found || c.less(best) {
			best, found = c, true
		}
	}
	return best.header
}

func exactMatch(n string, own, _ map[string]int) (bool, int, bool) {
	rank, ok := own[n]
	return true, rank, ok
}

// tokenMatch skips headers that also name the other role or an output column.
func (r *Resolver) tokenMatch(n string, own, other map[string]int) (bool, int, bool) {
	if _, ok := r.reserved[n]; ok {
		return false, 0, false
	}
	lead, best := false, -1
	for i, tok := range strings.Split(n, "_") {
		if _, ok := reservedTokens[tok]; ok {
			return false, 0, false
		}
		if _, ok := other[tok]; ok {
			return false, 0, false
		}
		if rank, ok := own[tok]; ok {
			if i == 0 {
				lead = true
			}
			if best < 0 || rank < best {
				best = rank
			}
		}
	}
	return lead, best, best >= 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
