// Package ingest turns raw scrape snapshots into normalized entities and
// writes them through the store. A snapshot is everything one scrape cycle
// captured for a symbol: the company profile text, the financial statement
// tables, the overview and statistics key/value pages, and optionally a
// daily kline feed.
package ingest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/fintable"
	"github.com/sells-group/equity-cli/internal/kline"
	"github.com/sells-group/equity-cli/internal/model"
)

// Statement section names as they appear on the financials page tabs.
const (
	SectionIncome   = "Income Statement"
	SectionBalance  = "Balance Sheet"
	SectionCashFlow = "Cash Flow"
	SectionRatios   = "Ratios"
)

// sectionFiles maps loose snapshot files to their section names.
var sectionFiles = map[string]string{
	"income_statement.txt": SectionIncome,
	"balance_sheet.txt":    SectionBalance,
	"cash_flow.txt":        SectionCashFlow,
	"ratios.txt":           SectionRatios,
}

// Snapshot is the raw material for one symbol's ingestion run.
type Snapshot struct {
	Symbol     string
	Profile    string
	Sections   map[string]string
	Overview   map[string]string
	Statistics map[string]string
	Klines     []model.DailyKline
}

// rawEnvelope is the single-file snapshot format: one JSON document per
// symbol holding everything a scrape cycle captured.
type rawEnvelope struct {
	Profile    string            `json:"profile"`
	Overview   map[string]string `json:"overview_full"`
	Statistics map[string]string `json:"statistics_full"`
	Financials struct {
		Sections map[string]string `json:"sections"`
	} `json:"financials"`
}

// LoadSnapshot reads a symbol's snapshot from dir. A single
// <SYMBOL>.json envelope takes precedence; otherwise loose files are
// assembled: profile.txt, the four statement section .txt files,
// overview.html and statistics.html (two-cell table rows), and
// klines.json. Missing pieces are tolerated; a snapshot only fails to
// load when nothing at all is found.
func LoadSnapshot(dir, symbol, minKlineDate string) (*Snapshot, error) {
	snap := &Snapshot{
		Symbol:   model.NormalizeSymbol(symbol),
		Sections: map[string]string{},
	}

	// Loose files for a symbol may sit in a per-symbol subdirectory when
	// several symbols share one snapshot root.
	looseDir := dir
	if fi, err := os.Stat(filepath.Join(dir, snap.Symbol)); err == nil && fi.IsDir() {
		looseDir = filepath.Join(dir, snap.Symbol)
	}

	if data, err := os.ReadFile(filepath.Join(dir, snap.Symbol+".json")); err == nil {
		var env rawEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, eris.Wrapf(err, "ingest: decode snapshot envelope for %s", snap.Symbol)
		}
		snap.Profile = env.Profile
		snap.Overview = env.Overview
		snap.Statistics = env.Statistics
		for name, text := range env.Financials.Sections {
			if strings.TrimSpace(text) != "" && text != "Not Found" {
				snap.Sections[name] = text
			}
		}
	} else {
		if err := loadLooseFiles(looseDir, snap); err != nil {
			return nil, err
		}
	}

	if err := loadKlines(looseDir, snap, minKlineDate); err != nil {
		return nil, err
	}

	if snap.Profile == "" && len(snap.Sections) == 0 &&
		len(snap.Overview) == 0 && len(snap.Statistics) == 0 && len(snap.Klines) == 0 {
		return nil, eris.Errorf("ingest: no snapshot data for %s in %s", snap.Symbol, dir)
	}
	return snap, nil
}

func loadLooseFiles(dir string, snap *Snapshot) error {
	if data, err := os.ReadFile(filepath.Join(dir, "profile.txt")); err == nil {
		snap.Profile = string(data)
	}

	for file, section := range sectionFiles {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		if text := string(data); strings.TrimSpace(text) != "" && text != "Not Found" {
			snap.Sections[section] = text
		}
	}

	for _, kv := range []struct {
		file string
		dst  *map[string]string
	}{
		{"overview.html", &snap.Overview},
		{"statistics.html", &snap.Statistics},
	} {
		data, err := os.ReadFile(filepath.Join(dir, kv.file))
		if err != nil {
			continue
		}
		pairs, err := fintable.ExtractKeyValues(bytes.NewReader(data))
		if err != nil {
			return eris.Wrapf(err, "ingest: parse %s for %s", kv.file, snap.Symbol)
		}
		*kv.dst = pairs
	}
	return nil
}

func loadKlines(dir string, snap *Snapshot, minDate string) error {
	data, err := os.ReadFile(filepath.Join(dir, "klines.json"))
	if err != nil {
		return nil
	}
	rows, err := kline.DecodeFeed(bytes.NewReader(data), minDate)
	if err != nil {
		// A bad feed file should not sink the rest of the snapshot.
		zap.L().Warn("ingest: skipping kline feed",
			zap.String("symbol", snap.Symbol),
			zap.Error(err),
		)
		return nil
	}
	snap.Klines = rows
	return nil
}
