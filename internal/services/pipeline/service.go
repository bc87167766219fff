// -----------------------------------------------------------------------
// Pipeline Service - sequences one end-to-end report run:
// fetch -> analyze -> compose -> render -> assemble -> deliver
// -----------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/interfaces"
	"github.com/ternarybob/marketbrief/internal/services/analyzer"
	"github.com/ternarybob/marketbrief/internal/services/chart"
	"github.com/ternarybob/marketbrief/internal/services/content"
	"github.com/ternarybob/marketbrief/internal/services/report"
)

// Service orchestrates one report run per invocation. Each run builds
// fresh data; nothing is shared between runs.
type Service struct {
	collector  interfaces.QuoteCollector
	analyzer   *analyzer.Service
	content    *content.Service
	chart      *chart.Service
	report     *report.Service
	deliverer  interfaces.Deliverer
	recipients []string
	logger     arbor.ILogger
}

// NewService creates a new pipeline service.
func NewService(
	collector interfaces.QuoteCollector,
	analyzerSvc *analyzer.Service,
	contentSvc *content.Service,
	chartSvc *chart.Service,
	reportSvc *report.Service,
	deliverer interfaces.Deliverer,
	recipients []string,
	logger arbor.ILogger,
) *Service {
	return &Service{
		collector:  collector,
		analyzer:   analyzerSvc,
		content:    contentSvc,
		chart:      chartSvc,
		report:     reportSvc,
		deliverer:  deliverer,
		recipients: recipients,
		logger:     logger,
	}
}

// Run executes one complete report run and returns true on success.
// Failures never propagate past this boundary: an empty quote set, a
// delivery failure or any panic inside a stage all resolve to false so
// the surrounding scheduler keeps ticking.
func (s *Service) Run(ctx context.Context) (success bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Report run panicked")
			success = false
		}
	}()

	s.logger.Info().Msg("Starting market summary generation")

	quotes := s.collector.FetchAll(ctx)
	if len(quotes) == 0 {
		s.logger.Error().Msg("No market data collected")
		return false
	}

	insights := s.analyzer.Analyze(quotes)

	narrative := s.content.Narrative(quotes, insights)
	tableHTML := s.content.Table(quotes)

	// A missing chart is a valid degenerate report; rendering failures
	// must not abort the run.
	chartPNG, err := s.chart.Render(quotes)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Chart rendering failed, sending report without chart")
		chartPNG = nil
	}

	doc, err := s.report.Assemble(narrative, tableHTML, chartPNG, s.recipients)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to assemble report")
		return false
	}

	if !s.deliverer.Deliver(ctx, doc) {
		return false
	}

	s.logger.Info().Msg("Market summary sent successfully")
	return true
}
