package profile

import (
	"regexp"
	"time"

	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

var (
	rangeSepRe = regexp.MustCompile(`\s*[-–]\s*`)
	dividendRe = regexp.MustCompile(`^([\d,.]+)\s*\(([\d.]+)%\)`)
)

// PriceSnapshot builds the day's kline row from the overview and
// statistics key/value pairs. Overview values win; statistics fill the
// gaps. Technicals and valuation fields are same-day feed values carried
// as-is, never recomputed. The caller decides whether a snapshot with no
// close price is worth persisting.
func PriceSnapshot(overview, stats map[string]string, asOf time.Time) model.DailyKline {
	ov := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := overview[k]; ok && v != "" {
				return v
			}
			if v, ok := stats[k]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	k := model.DailyKline{Date: asOf.UTC().Format("2006-01-02")}

	k.Close = parse.Number(parse.StripChange(ov("Previous Close", "Price")))
	k.Open = parse.Number(parse.StripChange(ov("Open")))
	k.Low, k.High = splitRange(ov("Day's Range", "Days Range"))
	k.Week52Low, k.Week52High = splitRange(ov("52-Week Range", "52 Week Range"))
	k.Volume = parse.Int(ov("Volume"))
	k.AvgVolume20D = parse.Int(ov("Average Volume", "Avg Volume (20 Days)"))

	k.RSI = parse.Number(ov("RSI", "Relative Strength Index (RSI)"))
	k.MA50D = parse.Number(ov("50-Day Moving Average"))
	k.MA200D = parse.Number(ov("200-Day Moving Average"))
	k.Beta = parse.Number(ov("Beta", "Beta (5Y)"))

	k.MarketCap = parse.DecimalScaled(ov("Market Cap"))
	k.EnterpriseValue = parse.DecimalScaled(ov("Enterprise Value"))
	k.PERatio = parse.Number(ov("PE Ratio", "P/E Ratio"))
	k.ForwardPE = parse.Number(ov("Forward PE", "Forward P/E"))
	k.PSRatio = parse.Number(ov("PS Ratio", "P/S Ratio"))
	k.PBRatio = parse.Number(ov("PB Ratio", "P/B Ratio"))

	k.DividendPerShare, k.DividendYield = splitDividend(ov("Dividend", "Dividend Yield"))
	if d := parse.Date(ov("Ex-Dividend Date", "Ex-Div Date")); d != nil {
		k.ExDividendDate = parse.DateString(*d)
	}

	return k
}

// splitRange parses a "2,062.24 - 2,372.50" range into (low, high).
func splitRange(raw string) (low, high *float64) {
	if raw == "" {
		return nil, nil
	}
	parts := rangeSepRe.Split(raw, -1)
	if len(parts) != 2 {
		return nil, nil
	}
	return parse.Number(parts[0]), parse.Number(parts[1])
}

// splitDividend parses the combined "102.49 (4.52%)" form into per-share
// amount and yield fraction. A bare value is treated as a yield alone.
func splitDividend(raw string) (perShare, yield *float64) {
	if raw == "" {
		return nil, nil
	}
	if m := dividendRe.FindStringSubmatch(raw); m != nil {
		return parse.Number(m[1]), parse.Percent(m[2] + "%")
	}
	return nil, parse.Percent(raw)
}
