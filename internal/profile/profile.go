// Package profile extracts company identity fields from the scraped
// profile page text, and builds the daily price snapshot from the
// overview and statistics key/value pairs.
package profile

import (
	"regexp"
	"strings"

	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

// The profile page renders fields as "Label Value" on a single line
// ("Country United Kingdom", "Founded 2018", "Employees 4,381"), so each
// field is matched by a known line prefix. First match wins; order puts
// the more specific prefixes ahead of prefixes they contain.
var fieldPatterns = []struct {
	re  *regexp.Regexp
	set func(*model.Stock, string)
}{
	{regexp.MustCompile(`(?i)^Country\s+(.+)$`), func(s *model.Stock, v string) { s.Country = v }},
	{regexp.MustCompile(`(?i)^Founded\s+(\d{4})`), func(s *model.Stock, v string) { s.Founded = v }},
	{regexp.MustCompile(`(?i)^Industry\s+(.+)$`), func(s *model.Stock, v string) { s.Industry = v }},
	{regexp.MustCompile(`(?i)^Employees\s+([\d,]+)`), func(s *model.Stock, v string) { s.Employees = parse.Int(v) }},
	{regexp.MustCompile(`(?i)^Website\s+(\S+)`), func(s *model.Stock, v string) { s.Website = v }},
	{regexp.MustCompile(`(?i)^SIC Code\s+(\d+)`), func(s *model.Stock, v string) { s.SICCode = v }},
	{regexp.MustCompile(`(?i)^Fiscal Year\s+(.+)$`), func(s *model.Stock, v string) { s.FiscalYearEnd = v }},
	{regexp.MustCompile(`(?i)^Exchange\s+(.+)$`), func(s *model.Stock, v string) { s.Exchange = v }},
	{regexp.MustCompile(`(?i)^Reporting Currency\s+(\w+)`), func(s *model.Stock, v string) { s.ReportingCurrency = v }},
	{regexp.MustCompile(`(?i)^Sector\s+(.+)$`), func(s *model.Stock, v string) { s.Sector = v }},
}

var (
	ceoRe         = regexp.MustCompile(`(?i)^(.+?)\s+Chief Executive Officer`)
	currencyRe    = regexp.MustCompile(`[Cc]urrency is (\w{2,4})`)
	parentheticRe = regexp.MustCompile(`\s*\(.*?\)`)
	legalSuffixes = []string{"Plc", "Ltd", "Limited", "PLC", "Inc", "Corp", "Group"}
)

// Parse extracts company identity fields from the raw profile page text.
// Each field keeps the first value observed; lines the patterns don't
// recognize are ignored.
func Parse(text, symbol string) model.Stock {
	stock := model.Stock{Symbol: model.NormalizeSymbol(symbol)}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	// Company name: usually an early line carrying the symbol or a legal
	// suffix, with the "(NGX:SYMB)" parenthetical stripped.
	head := lines
	if len(head) > 15 {
		head = head[:15]
	}
	for _, line := range head {
		if !nameCandidate(line, stock.Symbol) {
			continue
		}
		name := strings.TrimSpace(parentheticRe.ReplaceAllString(line, ""))
		if len(name) > 2 {
			stock.Name = name
			break
		}
	}

	seen := make(map[int]bool, len(fieldPatterns))
	for _, line := range lines {
		for i, fp := range fieldPatterns {
			if seen[i] {
				continue
			}
			if m := fp.re.FindStringSubmatch(line); m != nil {
				fp.set(&stock, strings.TrimSpace(m[1]))
				seen[i] = true
				break
			}
		}
		if stock.CEO == "" {
			if m := ceoRe.FindStringSubmatch(line); m != nil {
				stock.CEO = strings.TrimSpace(m[1])
			}
		}
	}

	// Trading currency comes from the page header, e.g. "Currency is NGN".
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		stock.Currency = strings.ToUpper(m[1])
	}

	stock.Description = description(lines)
	return stock
}

func nameCandidate(line, symbol string) bool {
	if symbol != "" && strings.Contains(strings.ToUpper(line), symbol) {
		return true
	}
	for _, suffix := range legalSuffixes {
		if strings.Contains(line, suffix) {
			return true
		}
	}
	return false
}

// description joins the sentence-length lines that follow the "Company
// Description" (or bare "About") heading.
func description(lines []string) string {
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "company description") && lower != "about" {
			continue
		}
		var desc []string
		for _, l := range lines[i+1:] {
			if len(l) > 40 {
				desc = append(desc, l)
			}
			if len(desc) == 3 {
				break
			}
		}
		return strings.Join(desc, " ")
	}
	return ""
}

// Enrich fills identity gaps the profile text left, preferring the
// statistics page over the overview page, and never overwriting a value
// the profile already produced.
func Enrich(stock *model.Stock, overview, stats map[string]string) {
	pick := func(key string) string {
		if v, ok := stats[key]; ok && v != "" {
			return v
		}
		return overview[key]
	}
	if stock.Employees == nil {
		stock.Employees = parse.Int(pick("Employees"))
	}
	if stock.Industry == "" {
		stock.Industry = pick("Industry")
	}
	if stock.Sector == "" {
		stock.Sector = pick("Sector")
	}
}
