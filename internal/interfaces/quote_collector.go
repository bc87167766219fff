package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/models"
)

// QuoteCollector fetches day-over-day snapshots for the configured indices.
type QuoteCollector interface {
	// FetchAll returns one quote per index that had at least two closes.
	// Individual index failures are logged and skipped; an empty slice
	// means every index failed.
	FetchAll(ctx context.Context) []models.IndexQuote
}
