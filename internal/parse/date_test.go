package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2024-12-31", "2024-12-31"},
		{"abbreviated month", "Dec 31, 2024", "2024-12-31"},
		{"full month", "December 31, 2024", "2024-12-31"},
		{"abbreviated month-year", "Mar 2025", "2025-03-01"},
		{"full month-year", "March 2025", "2025-03-01"},
		{"leading whitespace", "  Jan 2, 2023", "2023-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, DateString(*got))
		})
	}
}

func TestDate_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "n/a", "—", "TTM", "FY 2024", "31/12/2024"} {
		assert.Nil(t, Date(raw), "raw=%q", raw)
	}
}

func TestDateString(t *testing.T) {
	d := time.Date(2024, 1, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-07", DateString(d))
}
