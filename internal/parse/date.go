package parse

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The source mixes ISO dates, long and
// abbreviated month names, and bare month-year fiscal labels.
var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
}

// Date parses a raw token into a UTC date. Returns nil if no known layout
// matches; never panics or errors.
func Date(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if nullTokens[s] {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// DateString formats a parsed date the way kline and statement identity
// keys store it.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
