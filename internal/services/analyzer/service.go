// -----------------------------------------------------------------------
// Analyzer Service - derives cross-index performance statistics from a
// single run's quotes
// -----------------------------------------------------------------------

package analyzer

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
)

// Service computes aggregate market insights.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new analyzer service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Analyze derives insights from the quotes of one run. Returns nil for an
// empty quote set; callers must branch on this.
//
// Best/worst ties break on first occurrence in input order. Zero changes
// count toward neither PositiveCount nor NegativeCount. Regions with no
// matching quotes average to 0.
func (s *Service) Analyze(quotes []models.IndexQuote) *models.MarketInsights {
	if len(quotes) == 0 {
		return nil
	}

	insights := &models.MarketInsights{
		Best:        quotes[0],
		Worst:       quotes[0],
		RegionalAvg: map[models.Region]float64{},
		TotalCount:  len(quotes),
	}

	var sum float64
	regionSums := map[models.Region]float64{}
	regionCounts := map[models.Region]int{}

	for _, q := range quotes {
		if q.ChangePct > insights.Best.ChangePct {
			insights.Best = q
		}
		if q.ChangePct < insights.Worst.ChangePct {
			insights.Worst = q
		}

		sum += q.ChangePct

		if region := q.Region(); region != models.RegionOther {
			regionSums[region] += q.ChangePct
			regionCounts[region]++
		}

		switch {
		case q.ChangePct > 0:
			insights.PositiveCount++
		case q.ChangePct < 0:
			insights.NegativeCount++
		}
	}

	insights.AvgChangePct = sum / float64(len(quotes))

	for _, region := range []models.Region{models.RegionIndia, models.RegionUS} {
		if regionCounts[region] > 0 {
			insights.RegionalAvg[region] = regionSums[region] / float64(regionCounts[region])
		} else {
			insights.RegionalAvg[region] = 0
		}
	}

	s.logger.Debug().
		Int("total", insights.TotalCount).
		Int("positive", insights.PositiveCount).
		Int("negative", insights.NegativeCount).
		Float64("avg_change_pct", insights.AvgChangePct).
		Msg("Market insights computed")

	return insights
}
