// -----------------------------------------------------------------------
// Report Service - assembles narrative, table and chart into the final
// email document
// -----------------------------------------------------------------------

package report

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
)

// ChartContentID links the inline <img> reference in the HTML body to the
// attached chart part built by the mailer.
const ChartContentID = "chart"

//go:embed email.html
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "email.html"))

// Service assembles report documents.
type Service struct {
	logger arbor.ILogger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new report service.
func NewService(logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type emailData struct {
	LongDate  string
	Narrative string
	Table     template.HTML
	HasChart  bool
	ChartCID  string
}

// Assemble builds the email document for one run. The chart image element
// is omitted entirely when chartPNG is nil.
func (s *Service) Assemble(narrative, tableHTML string, chartPNG []byte, recipients []string) (models.ReportDocument, error) {
	now := s.now()

	var body strings.Builder
	err := emailTemplate.Execute(&body, emailData{
		LongDate:  now.Format("Monday, January 02, 2006"),
		Narrative: narrative,
		Table:     template.HTML(tableHTML),
		HasChart:  len(chartPNG) > 0,
		ChartCID:  ChartContentID,
	})
	if err != nil {
		return models.ReportDocument{}, fmt.Errorf("failed to render email template: %w", err)
	}

	doc := models.ReportDocument{
		Subject:    fmt.Sprintf("Daily Market Brief – %s", now.Format("02 Jan 2006")),
		HTMLBody:   body.String(),
		ChartPNG:   chartPNG,
		Recipients: recipients,
	}

	s.logger.Debug().
		Str("subject", doc.Subject).
		Int("recipients", len(doc.Recipients)).
		Bool("has_chart", len(chartPNG) > 0).
		Msg("Report document assembled")

	return doc, nil
}
