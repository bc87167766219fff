package interfaces

import (
	"context"

	"github.com/ternarybob/marketbrief/internal/models"
)

// Deliverer transmits an assembled report to its recipients.
type Deliverer interface {
	// Deliver sends the document in one SMTP transaction. Transport and
	// authentication failures are logged and reported as false, never
	// raised to the caller.
	Deliver(ctx context.Context, doc models.ReportDocument) bool
}
