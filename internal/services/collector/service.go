// -----------------------------------------------------------------------
// Collector Service - fetches day-over-day index snapshots from the
// quote provider, tolerating per-index failures
// -----------------------------------------------------------------------

package collector

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
	"github.com/ternarybob/marketbrief/internal/yahoo"
)

// HistorySource is the provider surface the collector consumes.
type HistorySource interface {
	DailyCloses(ctx context.Context, symbol string, days int) ([]yahoo.Close, error)
}

// Service fetches quotes for a fixed, ordered list of indices.
type Service struct {
	source    HistorySource
	indices   []models.IndexConfig
	rangeDays int
	timeout   time.Duration
	logger    arbor.ILogger
}

// NewService creates a new collector service.
func NewService(source HistorySource, indices []models.IndexConfig, rangeDays int, timeout time.Duration, logger arbor.ILogger) *Service {
	if rangeDays < 2 {
		rangeDays = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		source:    source,
		indices:   indices,
		rangeDays: rangeDays,
		timeout:   timeout,
		logger:    logger,
	}
}

// FetchAll fetches quotes for every configured index in configuration
// order. One index failing never aborts the batch: provider errors and
// insufficient history are logged and the index is omitted from the
// result. An empty slice means every index failed.
func (s *Service) FetchAll(ctx context.Context) []models.IndexQuote {
	quotes := make([]models.IndexQuote, 0, len(s.indices))

	for _, idx := range s.indices {
		quote, ok := s.fetchOne(ctx, idx)
		if !ok {
			continue
		}
		quotes = append(quotes, quote)
	}

	return quotes
}

// fetchOne fetches a single index with its own timeout so one unresponsive
// symbol cannot stall the whole run.
func (s *Service) fetchOne(ctx context.Context, idx models.IndexConfig) (models.IndexQuote, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	closes, err := s.source.DailyCloses(callCtx, idx.Symbol, s.rangeDays)
	if err != nil {
		s.logger.Error().
			Str("index", idx.Name).
			Str("symbol", idx.Symbol).
			Err(err).
			Msg("Error fetching index")
		return models.IndexQuote{}, false
	}

	if len(closes) < 2 {
		s.logger.Warn().
			Str("index", idx.Name).
			Int("closes", len(closes)).
			Msg("Insufficient data for index")
		return models.IndexQuote{}, false
	}

	current := closes[len(closes)-1].Price
	previous := closes[len(closes)-2].Price
	if previous == 0 {
		s.logger.Warn().
			Str("index", idx.Name).
			Msg("Previous close is zero, skipping index")
		return models.IndexQuote{}, false
	}

	quote := models.NewIndexQuote(idx.Name, idx.Symbol, current, previous)

	s.logger.Info().
		Str("index", idx.Name).
		Float64("change_pct", quote.ChangePct).
		Msg("Fetched data for index")

	return quote, true
}
