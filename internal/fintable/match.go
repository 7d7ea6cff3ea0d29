package fintable

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs caseless comparison the way the source labels drift:
// "SG&A Expenses" vs "sg&a expenses" vs "Sg&A expenses".
var folder = cases.Fold()

// FoldContains reports whether haystack contains needle under case folding.
func FoldContains(haystack, needle string) bool {
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

// FindRow resolves a row by label: exact match first, then a caseless
// substring match, scanning rows in discovery order so earlier rows win.
// Containment is tried fragment-in-label before label-in-fragment;
// otherwise a short fragment like "Revenue Growth" would capture the bare
// "Revenue" row ahead of "Revenue Growth (YoY)". Returns nil when nothing
// matches.
func (t *Table) FindRow(label string) map[string]string {
	if t == nil {
		return nil
	}
	if row, ok := t.Rows[label]; ok {
		return row
	}
	for _, k := range t.RowOrder {
		if FoldContains(k, label) {
			return t.Rows[k]
		}
	}
	for _, k := range t.RowOrder {
		if FoldContains(label, k) {
			return t.Rows[k]
		}
	}
	return nil
}

// Lookup resolves a raw cell with two-level fallback: fuzzy label match,
// then, if the exact period key is absent, the first period key that
// contains or is contained by the requested key. Label phrasing and date
// formatting both drift across statement pages, and a silent miss beats a
// hard failure for any single field.
func (t *Table) Lookup(label, period string) (string, bool) {
	row := t.FindRow(label)
	if row == nil {
		return "", false
	}
	if v, ok := row[period]; ok {
		return v, true
	}
	for _, p := range t.Periods {
		if strings.Contains(p, period) || strings.Contains(period, p) {
			if v, ok := row[p]; ok {
				return v, true
			}
		}
	}
	return "", false
}
