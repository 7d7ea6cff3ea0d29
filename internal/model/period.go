package model

import (
	"strings"
	"time"
)

// PeriodType classifies a financial statement row's time basis.
type PeriodType string

const (
	PeriodTTM       PeriodType = "TTM"
	PeriodFY        PeriodType = "FY"
	PeriodCurrent   PeriodType = "current"
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodQ1        PeriodType = "Q1"
	PeriodQ2        PeriodType = "Q2"
	PeriodQ3        PeriodType = "Q3"
	PeriodQ4        PeriodType = "Q4"
)

// ClassifyPeriod maps a raw period column label to a period type.
// Labels containing TTM are trailing-twelve-month rows; labels starting
// with "Current" are live snapshots; everything else takes the fallback
// for the scrape mode that produced it (FY, annual, or quarterly).
func ClassifyPeriod(label string, fallback PeriodType) PeriodType {
	switch {
	case strings.Contains(label, "TTM"):
		return PeriodTTM
	case strings.HasPrefix(label, "Current"):
		return PeriodCurrent
	case strings.HasPrefix(label, "Q1"):
		return PeriodQ1
	case strings.HasPrefix(label, "Q2"):
		return PeriodQ2
	case strings.HasPrefix(label, "Q3"):
		return PeriodQ3
	case strings.HasPrefix(label, "Q4"):
		return PeriodQ4
	default:
		return fallback
	}
}

// PeriodKey is the identity of a statement row within one stock:
// at most one row exists per (stock, period ending, period type).
type PeriodKey struct {
	Ending time.Time
	Type   PeriodType
}
