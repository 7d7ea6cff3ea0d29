// Package fintable parses scraped financial statement tables, both
// plain-text blocks and HTML, into a label→period→raw-value structure,
// and resolves
// cells through fuzzy label and period matching.
package fintable

import (
	"regexp"
	"strings"
)

// Table holds one tokenized statement table. Periods preserves header
// order; RowOrder preserves row discovery order.
type Table struct {
	Periods  []string
	Rows     map[string]map[string]string
	RowOrder []string
}

// IsEmpty reports whether the table has no period columns.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Periods) == 0
}

var (
	periodHeaderRe = regexp.MustCompile(`\bTTM\b|\bFY\b|\bCurrent\b|\bQ[1-4]\b`)
	periodDateRe   = regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2},\s*\d{4}`)
	numericLineRe  = regexp.MustCompile(`^[\d\-\+\.,% ]+$`)
	hasNumericRe   = regexp.MustCompile(`[\d\-\+]`)
)

// ParseText tokenizes a scraped plain-text statement block. The block is a
// header region followed by alternating label / value lines:
//
//	Fiscal Year
//	TTM FY 2025 FY 2024 FY 2023
//	Period Ending
//	Dec 31, 2025 Mar 31, 2025 Mar 31, 2024
//	Revenue
//	6,012 4,977 5,000
//	Revenue Growth (YoY)
//	25.88% -0.46% -5.09%
//
// A block with no period header line yields an empty table, not an error.
func ParseText(text string) *Table {
	table := &Table{Rows: map[string]map[string]string{}}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return table
	}

	headerIdx := -1
	for i, line := range lines {
		if periodHeaderRe.MatchString(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return table
	}

	// Header tokens, collapsing "FY" + "<year>" into one label.
	tokens := strings.Fields(lines[headerIdx])
	var labels []string
	for i := 0; i < len(tokens); i++ {
		if tokens[i] == "FY" && i+1 < len(tokens) {
			labels = append(labels, "FY "+tokens[i+1])
			i++
		} else {
			labels = append(labels, tokens[i])
		}
	}

	// Explicit period-ending dates supersede the header labels as keys.
	periods := labels
	for j := headerIdx + 1; j < min(headerIdx+6, len(lines)); j++ {
		if strings.Contains(strings.ToLower(lines[j]), "period ending") {
			if j+1 < len(lines) {
				if found := periodDateRe.FindAllString(lines[j+1], -1); len(found) > 0 {
					periods = found
				}
			}
			break
		}
	}
	table.Periods = periods

	// Skip past the header block: data rows begin after the date line when
	// one exists, otherwise right after the header.
	dataStart := headerIdx + 1
	for j := dataStart; j < min(dataStart+6, len(lines)); j++ {
		if periodDateRe.MatchString(lines[j]) {
			dataStart = j + 1
			break
		}
	}

	// Label / value line pairs. A line composed solely of numeric and
	// punctuation tokens is never a label. Value lines with extra trailing
	// tokens (footnote markers) are tolerated; missing trailing tokens
	// leave the period absent.
	for k := dataStart; k < len(lines); {
		label := lines[k]
		if numericLineRe.MatchString(label) {
			k++
			continue
		}
		if k+1 < len(lines) {
			valueLine := lines[k+1]
			values := strings.Fields(valueLine)
			if len(values) > 0 && hasNumericRe.MatchString(valueLine) && len(values) <= len(periods)+2 {
				row := make(map[string]string, len(periods))
				for idx, p := range periods {
					if idx < len(values) {
						row[p] = values[idx]
					}
				}
				table.Rows[label] = row
				table.RowOrder = append(table.RowOrder, label)
				k += 2
				continue
			}
		}
		k++
	}

	return table
}
