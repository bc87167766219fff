package models

// MarketInsights holds aggregate statistics computed across all quotes in
// one run. A nil *MarketInsights is the degenerate case for an empty quote
// set; every downstream consumer must branch on it.
type MarketInsights struct {
	Best          IndexQuote
	Worst         IndexQuote
	AvgChangePct  float64
	RegionalAvg   map[Region]float64
	PositiveCount int
	NegativeCount int
	TotalCount    int
}
