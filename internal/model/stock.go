// Package model defines the normalized entities the ingestion pipeline
// produces and the store persists.
package model

import (
	"strings"
	"time"
)

// Stock is the company identity row, keyed by its uppercased ticker symbol.
// Created on first observation of a symbol and mutated on every successful
// scrape cycle; never deleted during normal operation.
type Stock struct {
	ID                int64      `json:"id"`
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name,omitempty"`
	Sector            string     `json:"sector,omitempty"`
	Industry          string     `json:"industry,omitempty"`
	Exchange          string     `json:"exchange,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	ReportingCurrency string     `json:"reporting_currency,omitempty"`
	Country           string     `json:"country,omitempty"`
	Website           string     `json:"website,omitempty"`
	CEO               string     `json:"ceo,omitempty"`
	Description       string     `json:"description,omitempty"`
	SICCode           string     `json:"sic_code,omitempty"`
	Founded           string     `json:"founded,omitempty"`
	Employees         *int64     `json:"employees,omitempty"`
	FiscalYearEnd     string     `json:"fiscal_year_end,omitempty"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
}

// NormalizeSymbol canonicalizes a ticker for identity lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
