package models

import (
	"math"
	"strings"
)

// Region buckets an index by the market it trades in, derived from its
// display name.
type Region string

const (
	RegionIndia Region = "india"
	RegionUS    Region = "us"
	RegionOther Region = "other"
)

var (
	indiaMarkers = []string{"Nifty", "Sensex"}
	usMarkers    = []string{"S&P", "Dow", "Nasdaq", "Russell"}
)

// ClassifyRegion buckets an index display name by substring match.
// The match is case-sensitive; names matching neither set are RegionOther
// and excluded from both regional averages.
func ClassifyRegion(name string) Region {
	for _, m := range indiaMarkers {
		if strings.Contains(name, m) {
			return RegionIndia
		}
	}
	for _, m := range usMarkers {
		if strings.Contains(name, m) {
			return RegionUS
		}
	}
	return RegionOther
}

// IndexQuote is a single index's day-over-day closing price snapshot.
// All numeric fields are rounded to 2 decimal places at construction and
// the value is immutable once produced.
type IndexQuote struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// NewIndexQuote derives change metrics from a current/previous close pair.
func NewIndexQuote(name, symbol string, current, previous float64) IndexQuote {
	change := current - previous
	pct := 0.0
	if previous != 0 {
		pct = change / previous * 100
	}
	return IndexQuote{
		Name:      name,
		Symbol:    symbol,
		Current:   Round2(current),
		Previous:  Round2(previous),
		Change:    Round2(change),
		ChangePct: Round2(pct),
	}
}

// Region returns the regional bucket for this quote's display name.
func (q IndexQuote) Region() Region {
	return ClassifyRegion(q.Name)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
