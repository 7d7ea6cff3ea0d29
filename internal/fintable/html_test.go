package fintable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementHTML = `<html><body>
<table id="main-table">
  <thead>
    <tr><th>Fiscal Year</th><th>TTM</th><th>FY 2024</th><th>FY 2023</th></tr>
  </thead>
  <tbody>
    <tr><td>Revenue</td><td>6,012</td><td>4,977</td><td>5,000</td></tr>
    <tr><td>Gross Profit</td><td>2,101</td><td>1,804</td><td>1,911</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseHTML_MainTable(t *testing.T) {
	table, err := ParseHTML(strings.NewReader(statementHTML))
	require.NoError(t, err)
	assert.Equal(t, []string{"TTM", "FY 2024", "FY 2023"}, table.Periods)

	v, ok := table.Lookup("Revenue", "FY 2024")
	require.True(t, ok)
	assert.Equal(t, "4,977", v)

	v, ok = table.Lookup("Gross Profit", "TTM")
	require.True(t, ok)
	assert.Equal(t, "2,101", v)
}

func TestParseHTML_FallsBackToFirstTable(t *testing.T) {
	html := `<table>
	  <thead><tr><th>Year</th><th>FY 2024</th></tr></thead>
	  <tbody><tr><td>Market Cap</td><td>8.68B</td></tr></tbody>
	</table>`
	table, err := ParseHTML(strings.NewReader(html))
	require.NoError(t, err)
	v, ok := table.Lookup("Market Cap", "FY 2024")
	require.True(t, ok)
	assert.Equal(t, "8.68B", v)
}

func TestParseHTML_NoTable(t *testing.T) {
	table, err := ParseHTML(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
}

func TestExtractKeyValues(t *testing.T) {
	html := `<table>
	  <tr><td>Market Cap</td><td>8.68B</td></tr>
	  <tr><td>PE Ratio</td><td>12.4</td></tr>
	  <tr><td>single cell</td></tr>
	  <tr><td></td><td>orphan value</td></tr>
	</table>`
	pairs, err := ExtractKeyValues(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Market Cap": "8.68B",
		"PE Ratio":   "12.4",
	}, pairs)
}
