// Package parse converts raw scraped tokens into typed numeric values.
// Every function here is pure and total: malformed input yields nil,
// never an error. A single bad cell must not abort a statement parse.
package parse

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// nullTokens are the placeholder strings the source emits for absent values.
var nullTokens = map[string]bool{
	"":          true,
	"-":         true,
	"—":         true,
	"n/a":       true,
	"N/A":       true,
	"None":      true,
	"Not Found": true,
	"NotFound":  true,
}

// suffixMult maps magnitude suffixes to multipliers. The suffix must be the
// final character of the token.
var suffixMult = map[byte]float64{
	'T': 1e12,
	'B': 1e9,
	'M': 1e6,
	'K': 1e3,
}

func clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSuffix(s, "%")
	return s
}

// StripChange drops an inline change annotation from a value token:
// "22.21T +127.5%" → "22.21T".
func StripChange(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return raw
	}
	return fields[0]
}

// Number parses a raw token into a float. Thousands separators, currency
// symbols and a trailing % are stripped; T/B/M/K magnitude suffixes are
// applied case-insensitively.
func Number(raw string) *float64 {
	s := clean(StripChange(raw))
	if nullTokens[s] {
		return nil
	}
	if mult, ok := suffixMult[upperLast(s)]; ok && len(s) > 1 {
		if v, err := strconv.ParseFloat(s[:len(s)-1], 64); err == nil {
			v *= mult
			return &v
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Percent parses a percentage token into a fraction. "25.88%" → 0.2588.
// Tokens without a % sign are ambiguous in the source: values with absolute
// magnitude ≤ 1.5 are taken as already-scaled fractions, anything larger is
// divided by 100. This heuristic mirrors the feed and is deliberate.
func Percent(raw string) *float64 {
	v := Number(raw)
	if v == nil {
		return nil
	}
	if strings.Contains(raw, "%") {
		f := *v / 100
		return &f
	}
	if *v <= 1.5 && *v >= -1.5 {
		return v
	}
	f := *v / 100
	return &f
}

// ScaledMillions parses a T/B/M-suffixed token into a value denominated in
// millions. Bare numbers are already in millions on the pages that use this
// ("22.21T" → 22,210,000; "8.68B" → 8,680; "1,234" → 1,234).
func ScaledMillions(raw string) *float64 {
	s := clean(StripChange(raw))
	if nullTokens[s] {
		return nil
	}
	millions := map[byte]float64{'T': 1e6, 'B': 1e3, 'M': 1}
	if mult, ok := millions[upperLast(s)]; ok && len(s) > 1 {
		if v, err := strconv.ParseFloat(s[:len(s)-1], 64); err == nil {
			v *= mult
			return &v
		}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// DecimalScaled parses a scaled-millions token into a decimal, for
// magnitude fields (market cap, enterprise value) where float drift is
// unwelcome downstream.
func DecimalScaled(raw string) *decimal.Decimal {
	v := ScaledMillions(raw)
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

// SharesInMillions parses a share count reported in millions into a raw
// integer count: "4,977" → 4,977,000,000.
func SharesInMillions(raw string) *int64 {
	v := Number(raw)
	if v == nil {
		return nil
	}
	n := int64(*v * 1e6)
	return &n
}

// Int parses a raw token into an integer, truncating any fraction.
func Int(raw string) *int64 {
	v := Number(raw)
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func upperLast(s string) byte {
	if s == "" {
		return 0
	}
	c := s[len(s)-1]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c
}
