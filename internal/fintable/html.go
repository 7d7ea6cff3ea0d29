package fintable

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// ParseHTML extracts the main statement table from a scraped HTML page into
// the same structure ParseText produces. The site renders statements in
// <table id="main-table">; the first <table> is the fallback. Header cells
// after the label column become the period keys.
func ParseHTML(r io.Reader) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "fintable: parse html")
	}

	table := &Table{Rows: map[string]map[string]string{}}

	sel := doc.Find("table#main-table").First()
	if sel.Length() == 0 {
		sel = doc.Find("table").First()
	}
	if sel.Length() == 0 {
		return table, nil
	}

	sel.Find("thead th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return // label column
		}
		table.Periods = append(table.Periods, strings.TrimSpace(th.Text()))
	})

	body := sel.Find("tbody tr")
	if body.Length() == 0 {
		body = sel.Find("tr")
	}
	body.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		if label == "" {
			return
		}
		row := make(map[string]string, len(table.Periods))
		cells.Each(func(i int, td *goquery.Selection) {
			if i == 0 || i-1 >= len(table.Periods) {
				return
			}
			row[table.Periods[i-1]] = strings.TrimSpace(td.Text())
		})
		if _, ok := table.Rows[label]; !ok {
			table.Rows[label] = row
			table.RowOrder = append(table.RowOrder, label)
		}
	})

	return table, nil
}

// ExtractKeyValues walks every two-cell table row on an overview or
// statistics page and returns a label→value map.
func ExtractKeyValues(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "fintable: parse html")
	}

	pairs := map[string]string{}
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if label != "" {
			if _, ok := pairs[label]; !ok {
				pairs[label] = value
			}
		}
	})
	return pairs, nil
}
